package profiling

// InferredType represents the detected column type
type InferredType string

const (
	TypeNumeric     InferredType = "numeric"
	TypeCategorical InferredType = "categorical"
)

// TableProfile summarizes every column of a table
type TableProfile struct {
	Rows       int             `json:"rows" yaml:"rows"`
	Columns    []ColumnProfile `json:"columns" yaml:"columns"`
	DurationMs int64           `json:"duration_ms" yaml:"duration_ms"`
}

// ColumnProfile contains the statistical profile of one column
type ColumnProfile struct {
	Name         string            `json:"name" yaml:"name"`
	Type         InferredType      `json:"type" yaml:"type"`
	Count        int               `json:"count" yaml:"count"`
	Missing      int               `json:"missing" yaml:"missing"`
	QualityScore float64           `json:"quality_score" yaml:"quality_score"` // 0-1, share of non-missing cells
	Numeric      *NumericStats     `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Categorical  *CategoricalStats `json:"categorical,omitempty" yaml:"categorical,omitempty"`
}

// NumericStats holds summary statistics over non-missing values
type NumericStats struct {
	Min           float64 `json:"min" yaml:"min"`
	Max           float64 `json:"max" yaml:"max"`
	Mean          float64 `json:"mean" yaml:"mean"`
	StdDev        float64 `json:"std_dev" yaml:"std_dev"`
	ZeroCount     int     `json:"zero_count" yaml:"zero_count"`
	NegativeCount int     `json:"negative_count" yaml:"negative_count"`
}

// CategoricalStats holds frequency statistics over non-missing values
type CategoricalStats struct {
	Distinct      int    `json:"distinct" yaml:"distinct"`
	Mode          string `json:"mode" yaml:"mode"`
	ModeFrequency int    `json:"mode_frequency" yaml:"mode_frequency"`
}
