package dataset

import (
	"fmt"
	"math"
	"strings"

	"seedsweep/domain/core"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MissingMarker is how a missing string cell is represented inside a Table.
const MissingMarker = "NaN"

// Table is the canonical in-memory dataset. It is immutable: every operation that
// changes columns returns a new Table and leaves the receiver untouched, so a cleaned
// base table can be shared across seed iterations while each iteration adds its own
// overlay column.
type Table struct {
	df dataframe.DataFrame
}

// FromRecords builds a Table from a header row followed by data rows.
// Every column starts as a string column; numeric typing is the cleaner's job.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", core.ErrMalformedHeader)
	}
	if len(records) < 2 {
		return nil, core.ErrEmptyTable
	}

	header := NormalizeHeader(records[0])
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrMalformedHeader, name)
		}
		seen[name] = true
	}

	columns := make([]series.Series, len(header))
	for c, name := range header {
		values := make([]string, len(records)-1)
		for r, row := range records[1:] {
			if len(row) != len(header) {
				return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
					core.ErrRowCountMismatch, r+1, len(row), len(header))
			}
			values[r] = row[c]
		}
		columns[c] = series.New(values, series.String, name)
	}

	return fromDataFrame(dataframe.New(columns...))
}

// NormalizeHeader trims header cells and names blank ones "Unnamed: <position>",
// which is how dataframe exporters label a written row index.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	return out
}

func fromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Names returns column names in table order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether a column holds float64 values.
func (t *Table) IsNumeric(name string) bool {
	if !t.Has(name) {
		return false
	}
	return t.df.Col(name).Type() == series.Float
}

// NumericNames returns the float64 columns in table order.
func (t *Table) NumericNames() []string {
	all := t.df.Names()
	var names []string
	for i, typ := range t.df.Types() {
		if typ == series.Float {
			names = append(names, all[i])
		}
	}
	return names
}

// Float returns a copy of a numeric column; missing cells are NaN.
func (t *Table) Float(name string) ([]float64, error) {
	if !t.Has(name) {
		return nil, core.NewColumnNotFoundError(name)
	}
	col := t.df.Col(name)
	if col.Type() != series.Float {
		return nil, fmt.Errorf("%w: %q", core.ErrNotNumeric, name)
	}
	return col.Float(), nil
}

// Strings returns a copy of a column as strings along with a missing mask.
func (t *Table) Strings(name string) ([]string, []bool, error) {
	if !t.Has(name) {
		return nil, nil, core.NewColumnNotFoundError(name)
	}
	col := t.df.Col(name)
	values := make([]string, col.Len())
	missing := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() || (col.Type() == series.Float && math.IsNaN(elem.Float())) {
			missing[i] = true
			values[i] = MissingMarker
			continue
		}
		values[i] = elem.String()
	}
	return values, missing, nil
}

// WithFloat returns a new table where column name holds values, replacing an
// existing column in place or appending a new one.
func (t *Table) WithFloat(name string, values []float64) (*Table, error) {
	if len(values) != t.Rows() {
		return nil, fmt.Errorf("%w: %q has %d values, table has %d rows",
			core.ErrRowCountMismatch, name, len(values), t.Rows())
	}
	return fromDataFrame(t.df.Mutate(series.New(values, series.Float, name)))
}

// WithStrings is WithFloat for string columns. Cells equal to MissingMarker are missing.
func (t *Table) WithStrings(name string, values []string) (*Table, error) {
	if len(values) != t.Rows() {
		return nil, fmt.Errorf("%w: %q has %d values, table has %d rows",
			core.ErrRowCountMismatch, name, len(values), t.Rows())
	}
	return fromDataFrame(t.df.Mutate(series.New(values, series.String, name)))
}

// Drop returns a new table without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	if !t.Has(name) {
		return nil, core.NewColumnNotFoundError(name)
	}
	return fromDataFrame(t.df.Drop(name))
}

// MissingCount counts missing cells in a column.
func (t *Table) MissingCount(name string) (int, error) {
	_, missing, err := t.Strings(name)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range missing {
		if m {
			n++
		}
	}
	return n, nil
}

// Records renders the table as a header row plus data rows. Missing numeric
// cells are written as NaN.
func (t *Table) Records() [][]string {
	return t.df.Records()
}

// Equal reports whether two tables have the same columns, types and cells.
func (t *Table) Equal(other *Table) bool {
	if t.Rows() != other.Rows() {
		return false
	}
	names, otherNames := t.Names(), other.Names()
	if len(names) != len(otherNames) {
		return false
	}
	for i, name := range names {
		if name != otherNames[i] || t.IsNumeric(name) != other.IsNumeric(name) {
			return false
		}
		if t.IsNumeric(name) {
			a, _ := t.Float(name)
			b, _ := other.Float(name)
			for r := range a {
				if a[r] != b[r] && !(math.IsNaN(a[r]) && math.IsNaN(b[r])) {
					return false
				}
			}
			continue
		}
		a, _, _ := t.Strings(name)
		b, _, _ := other.Strings(name)
		for r := range a {
			if a[r] != b[r] {
				return false
			}
		}
	}
	return true
}
