package stats

import (
	"fmt"
	"math"
	"strings"

	"seedsweep/domain/core"
)

// Variant selects which scalar a correlation vector carries.
type Variant string

const (
	// VariantPlain carries Pearson correlation coefficients in [-1, 1].
	VariantPlain Variant = "plain"
	// VariantSignificance carries two-sided p-values of the Pearson test in [0, 1].
	VariantSignificance Variant = "significance"
)

// ParseVariant accepts the CLI and env spellings of a variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "corr", "pearson", "r":
		return VariantPlain, nil
	case "significance", "pvalue", "p-value", "p":
		return VariantSignificance, nil
	}
	return "", fmt.Errorf("%w: unknown correlation variant %q", core.ErrInvalidPass, s)
}

// Correlation is one entry of a correlation vector
type Correlation struct {
	Column     string  `json:"column" yaml:"column"`
	Value      float64 `json:"value" yaml:"value"`
	SampleSize int     `json:"sample_size" yaml:"sample_size"` // pairwise complete observations
}

// IsDefined reports whether the value could be computed.
func (c Correlation) IsDefined() bool {
	return !math.IsNaN(c.Value)
}

// CorrelationVector maps every numeric column to a scalar against one target column.
// Entries keep table column order.
type CorrelationVector struct {
	Target  string        `json:"target" yaml:"target"`
	Variant Variant       `json:"variant" yaml:"variant"`
	Entries []Correlation `json:"entries" yaml:"entries"`
}

// Get returns the entry for a column.
func (v CorrelationVector) Get(column string) (Correlation, bool) {
	for _, e := range v.Entries {
		if e.Column == column {
			return e, true
		}
	}
	return Correlation{}, false
}

// Filter returns the entries accepted by keep, preserving order.
func (v CorrelationVector) Filter(keep func(float64) bool) []Correlation {
	var out []Correlation
	for _, e := range v.Entries {
		if keep(e.Value) {
			out = append(out, e)
		}
	}
	return out
}

// Abs returns a copy with absolute values, as printed by the fixed-seed inspection.
func (v CorrelationVector) Abs() CorrelationVector {
	out := CorrelationVector{Target: v.Target, Variant: v.Variant, Entries: make([]Correlation, len(v.Entries))}
	for i, e := range v.Entries {
		e.Value = math.Abs(e.Value)
		out.Entries[i] = e
	}
	return out
}

// Columns lists entry column names in order.
func (v CorrelationVector) Columns() []string {
	names := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		names[i] = e.Column
	}
	return names
}

// CorrelationMatrix is the full pairwise Pearson matrix over numeric columns,
// stored row-major. It is symmetric with ones on the diagonal for non-constant columns.
type CorrelationMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// At returns the coefficient between columns i and j.
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Size returns the number of columns.
func (m CorrelationMatrix) Size() int {
	return len(m.Columns)
}
