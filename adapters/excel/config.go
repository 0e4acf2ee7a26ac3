package excel

// ReaderConfig holds configuration for a tabular data source
type ReaderConfig struct {
	FilePath  string `json:"file_path"`
	Delimiter rune   `json:"delimiter"`  // CSV only
	SheetName string `json:"sheet_name"` // xlsx only; empty means the first sheet
}

// DefaultReaderConfig returns the semicolon-delimited brain-size layout
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		FilePath:  "./brainsize.csv",
		Delimiter: ';',
	}
}
