package coercer

import (
	"math"
	"strconv"
	"strings"

	"seedsweep/domain/core"
	"seedsweep/domain/dataset"
)

// Cleaner normalizes missing-value markers, drops the auxiliary index column and
// coerces numeric columns to float64.
type Cleaner struct {
	config CleaningConfig
}

// CleaningConfig defines the cleaning rules
type CleaningConfig struct {
	MissingSentinels []string `json:"missing_sentinels"` // literal cells treated as missing
	IndexColumn      string   `json:"index_column"`      // dropped when present; empty disables
	NumericColumns   []string `json:"numeric_columns"`   // must coerce cleanly or cleaning fails
	InferTypes       bool     `json:"infer_types"`       // convert other fully-numeric columns too
}

// DefaultCleaningConfig returns the rules for the brain-size dataset layout
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		MissingSentinels: []string{"."},
		IndexColumn:      "Unnamed: 0",
		NumericColumns:   []string{"Weight", "Height"},
		InferTypes:       true,
	}
}

// NewCleaner creates a cleaner with the given config
func NewCleaner(config CleaningConfig) *Cleaner {
	return &Cleaner{config: config}
}

// Config returns the active rules.
func (c *Cleaner) Config() CleaningConfig {
	return c.config
}

// Clean returns a cleaned copy of tbl. Running it on its own output is a no-op.
// A non-numeric, non-missing value in a required numeric column fails with a
// *core.TypeCoercionError before anything downstream sees the table.
func (c *Cleaner) Clean(tbl *dataset.Table) (*dataset.Table, error) {
	out, err := c.replaceSentinels(tbl)
	if err != nil {
		return nil, err
	}

	if c.config.IndexColumn != "" && out.Has(c.config.IndexColumn) {
		if out, err = out.Drop(c.config.IndexColumn); err != nil {
			return nil, err
		}
	}

	for _, name := range c.config.NumericColumns {
		if !out.Has(name) {
			return nil, core.NewColumnNotFoundError(name)
		}
		if out, err = c.coerceColumn(out, name); err != nil {
			return nil, err
		}
	}

	if c.config.InferTypes {
		for _, name := range out.Names() {
			if out.IsNumeric(name) {
				continue
			}
			values, missing, err := out.Strings(name)
			if err != nil {
				return nil, err
			}
			floats, ok := c.parseAll(values, missing)
			if !ok {
				continue // categorical
			}
			if out, err = out.WithFloat(name, floats); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// replaceSentinels swaps sentinel and blank cells in string columns for the missing marker.
func (c *Cleaner) replaceSentinels(tbl *dataset.Table) (*dataset.Table, error) {
	out := tbl
	for _, name := range tbl.Names() {
		if tbl.IsNumeric(name) {
			continue
		}
		values, missing, err := tbl.Strings(name)
		if err != nil {
			return nil, err
		}

		changed := false
		for i, v := range values {
			if !missing[i] && c.isSentinel(v) {
				values[i] = dataset.MissingMarker
				changed = true
			}
		}
		if !changed {
			continue
		}
		if out, err = out.WithStrings(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// isSentinel reports whether a cell is missing. Blank cells always are.
func (c *Cleaner) isSentinel(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	for _, s := range c.config.MissingSentinels {
		if v == s {
			return true
		}
	}
	return false
}

// coerceColumn converts one required column, failing on the first bad cell.
func (c *Cleaner) coerceColumn(tbl *dataset.Table, name string) (*dataset.Table, error) {
	if tbl.IsNumeric(name) {
		return tbl, nil
	}

	values, missing, err := tbl.Strings(name)
	if err != nil {
		return nil, err
	}

	floats := make([]float64, len(values))
	for i, v := range values {
		if missing[i] {
			floats[i] = math.NaN()
			continue
		}
		f, ok := tryParseNumeric(v)
		if !ok {
			return nil, &core.TypeCoercionError{Column: name, Row: i + 1, Value: v}
		}
		floats[i] = f
	}
	return tbl.WithFloat(name, floats)
}

// parseAll converts a column when every non-missing cell is numeric.
// Columns with no observed values stay categorical.
func (c *Cleaner) parseAll(values []string, missing []bool) ([]float64, bool) {
	floats := make([]float64, len(values))
	observed := 0
	for i, v := range values {
		if missing[i] {
			floats[i] = math.NaN()
			continue
		}
		f, ok := tryParseNumeric(v)
		if !ok {
			return nil, false
		}
		floats[i] = f
		observed++
	}
	return floats, observed > 0
}

// tryParseNumeric parses a decimal or scientific-notation number.
func tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	// Additional validation: not infinity, not NaN
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}
