package datareadiness

import (
	"context"
	"math"
	"sort"
	"time"

	"seedsweep/domain/datareadiness/profiling"
	"seedsweep/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// ProfilerAdapter implements ProfilerPort for cleaned tables
type ProfilerAdapter struct{}

// NewProfilerAdapter creates a new profiler adapter
func NewProfilerAdapter() *ProfilerAdapter {
	return &ProfilerAdapter{}
}

// ProfileTable analyzes all columns in table order
func (p *ProfilerAdapter) ProfileTable(ctx context.Context, tbl *dataset.Table) (*profiling.TableProfile, error) {
	start := time.Now()
	result := &profiling.TableProfile{Rows: tbl.Rows(), Columns: make([]profiling.ColumnProfile, 0, len(tbl.Names()))}

	for _, name := range tbl.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profile, err := p.profileColumn(tbl, name)
		if err != nil {
			return nil, err
		}
		result.Columns = append(result.Columns, profile)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func (p *ProfilerAdapter) profileColumn(tbl *dataset.Table, name string) (profiling.ColumnProfile, error) {
	profile := profiling.ColumnProfile{Name: name, Count: tbl.Rows()}

	if tbl.IsNumeric(name) {
		values, err := tbl.Float(name)
		if err != nil {
			return profiling.ColumnProfile{}, err
		}
		present := make([]float64, 0, len(values))
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		profile.Type = profiling.TypeNumeric
		profile.Missing = len(values) - len(present)
		profile.Numeric = p.computeNumericStats(present)
	} else {
		values, missing, err := tbl.Strings(name)
		if err != nil {
			return profiling.ColumnProfile{}, err
		}
		present := make([]string, 0, len(values))
		for i, v := range values {
			if !missing[i] {
				present = append(present, v)
			}
		}
		profile.Type = profiling.TypeCategorical
		profile.Missing = len(values) - len(present)
		profile.Categorical = p.computeCategoricalStats(present)
	}

	profile.QualityScore = p.computeQualityScore(profile.Missing, profile.Count)
	return profile, nil
}

// computeQualityScore is the share of non-missing cells
func (p *ProfilerAdapter) computeQualityScore(missingCount, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return math.Max(0.0, 1.0-float64(missingCount)/float64(totalCount))
}

// computeNumericStats calculates statistics for numeric columns
func (p *ProfilerAdapter) computeNumericStats(values []float64) *profiling.NumericStats {
	if len(values) == 0 {
		return nil
	}

	result := &profiling.NumericStats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		result.Min = math.Min(result.Min, v)
		result.Max = math.Max(result.Max, v)
		if v == 0 {
			result.ZeroCount++
		}
		if v < 0 {
			result.NegativeCount++
		}
	}

	result.Mean, result.StdDev = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		result.StdDev = 0
	}
	return result
}

// computeCategoricalStats calculates statistics for categorical columns.
// Ties for the mode go to the lexicographically smallest value.
func (p *ProfilerAdapter) computeCategoricalStats(values []string) *profiling.CategoricalStats {
	if len(values) == 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, v := range values {
		freq[v]++
	}

	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &profiling.CategoricalStats{Distinct: len(freq)}
	for _, k := range keys {
		if freq[k] > result.ModeFrequency {
			result.Mode = k
			result.ModeFrequency = freq[k]
		}
	}
	return result
}
