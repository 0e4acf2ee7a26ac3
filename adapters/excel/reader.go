package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seedsweep/domain/core"
	"seedsweep/domain/dataset"
	"seedsweep/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading delimited text and Excel files into a Table
type DataReader struct {
	config   ReaderConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader; the file type follows the extension.
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if config.Delimiter == 0 {
		config.Delimiter = ';'
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{config: config, fileType: detectFileType(config.FilePath), logger: logger}
}

func detectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	}
	return "csv"
}

// ReadTable reads the configured file. Every column comes back as strings.
func (r *DataReader) ReadTable(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("reading %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, r.config.FilePath)
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, r.fileType)
	}
	if err != nil {
		return nil, err
	}

	tbl, err := dataset.FromRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.config.FilePath, err)
	}

	r.logger.Info("loaded %s (%d columns, %d rows) in %.2fms",
		r.config.FilePath, len(tbl.Names()), tbl.Rows(), float64(time.Since(start).Nanoseconds())/1e6)
	return tbl, nil
}

// readCSVRows reads delimited text. Ragged rows are rejected by the csv reader.
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadDelimited(file, r.config.Delimiter)
}

// ReadDelimited parses delimited records from any reader.
func ReadDelimited(src io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.Comma = delimiter
	rows, err := reader.ReadAll()
	if errors.Is(err, csv.ErrFieldCount) {
		return nil, fmt.Errorf("%w: %v", core.ErrRowCountMismatch, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", core.ErrMalformedHeader)
	}
	return rows, nil
}

// readExcelRows reads one sheet; short rows are padded because excelize trims
// trailing empty cells.
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnsupportedInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", core.ErrMalformedHeader, sheet)
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", core.ErrRowCountMismatch, i, len(row), width)
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteWorkbook writes header+rows records to a single-sheet xlsx file.
func WriteWorkbook(path, sheet string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return f.SaveAs(path)
}
