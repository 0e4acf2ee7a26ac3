package correlation

import (
	"context"
	"fmt"
	"math"

	"seedsweep/domain/core"
	"seedsweep/domain/dataset"
	"seedsweep/domain/stats"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minPairs is the smallest sample for which a Pearson test has degrees of freedom.
const minPairs = 3

// Evaluator computes Pearson correlations against a target column
type Evaluator struct{}

// NewEvaluator creates a correlation evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Vector computes one entry per numeric column, in table order, including the
// target itself. Rows where either side is missing are skipped pairwise.
func (e *Evaluator) Vector(ctx context.Context, tbl *dataset.Table, target string, variant stats.Variant) (stats.CorrelationVector, error) {
	if err := ctx.Err(); err != nil {
		return stats.CorrelationVector{}, err
	}

	y, err := tbl.Float(target)
	if err != nil {
		return stats.CorrelationVector{}, fmt.Errorf("target: %w", err)
	}

	names := tbl.NumericNames()
	vector := stats.CorrelationVector{
		Target:  target,
		Variant: variant,
		Entries: make([]stats.Correlation, 0, len(names)),
	}

	for _, name := range names {
		x, err := tbl.Float(name)
		if err != nil {
			return stats.CorrelationVector{}, err
		}

		r, n := Pearson(x, y)
		value := r
		switch variant {
		case stats.VariantPlain:
		case stats.VariantSignificance:
			value = PValue(r, n)
		default:
			return stats.CorrelationVector{}, fmt.Errorf("%w: unknown variant %q", core.ErrInvalidPass, variant)
		}

		vector.Entries = append(vector.Entries, stats.Correlation{Column: name, Value: value, SampleSize: n})
	}

	return vector, nil
}

// Matrix computes all pairwise coefficients among numeric columns.
func (e *Evaluator) Matrix(ctx context.Context, tbl *dataset.Table) (stats.CorrelationMatrix, error) {
	names := tbl.NumericNames()
	if len(names) == 0 {
		return stats.CorrelationMatrix{}, fmt.Errorf("%w: no numeric columns", core.ErrInsufficientData)
	}

	columns := make([][]float64, len(names))
	for i, name := range names {
		col, err := tbl.Float(name)
		if err != nil {
			return stats.CorrelationMatrix{}, err
		}
		columns[i] = col
	}

	sym := mat.NewSymDense(len(names), nil)
	for i := range names {
		if err := ctx.Err(); err != nil {
			return stats.CorrelationMatrix{}, err
		}
		for j := i; j < len(names); j++ {
			r, _ := Pearson(columns[i], columns[j])
			sym.SetSym(i, j, r)
		}
	}

	out := stats.CorrelationMatrix{Columns: names, Values: make([][]float64, len(names))}
	for i := range names {
		out.Values[i] = make([]float64, len(names))
		for j := range names {
			out.Values[i][j] = sym.At(i, j)
		}
	}
	return out, nil
}

// Pearson returns the coefficient over pairwise complete observations and the
// number of pairs used. It is NaN when fewer than two pairs remain or either
// side is constant.
func Pearson(x, y []float64) (float64, int) {
	xs, ys := completePairs(x, y)
	n := len(xs)
	if n < 2 {
		return math.NaN(), n
	}

	sx, _ := mstats.StandardDeviationPopulation(xs)
	sy, _ := mstats.StandardDeviationPopulation(ys)
	if sx == 0 || sy == 0 {
		return math.NaN(), n
	}

	r, err := mstats.Correlation(xs, ys)
	if err != nil {
		return math.NaN(), n
	}
	// Clamp to [-1, 1] range (due to floating point precision)
	return math.Max(-1, math.Min(1, r)), n
}

// PValue is the two-sided p-value of the Pearson test with n-2 degrees of freedom.
func PValue(r float64, n int) float64 {
	if math.IsNaN(r) || n < minPairs {
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))
	return math.Max(0, math.Min(1, p))
}

func completePairs(x, y []float64) (mstats.Float64Data, mstats.Float64Data) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make(mstats.Float64Data, 0, n)
	ys := make(mstats.Float64Data, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
