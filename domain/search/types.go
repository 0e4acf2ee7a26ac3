package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"seedsweep/domain/core"
	"seedsweep/domain/stats"
)

// Operator compares a correlation value against a threshold
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Predicate decides whether a single correlation-vector entry counts toward the
// stopping condition. Direction is always explicit: nothing assumes small or large.
type Predicate struct {
	Abs       bool     `json:"abs" yaml:"abs"`
	Op        Operator `json:"op" yaml:"op"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
}

// ParsePredicate parses expressions like "abs<0.05", ">=0.05" or "abs >= 0.3".
func ParsePredicate(expr string) (Predicate, error) {
	s := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if s == "" {
		return Predicate{}, core.NewPredicateError(expr, "empty expression")
	}

	var p Predicate
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "abs"); ok {
		p.Abs = true
		s = rest
	}

	// Two-character operators first so "<=" is not read as "<".
	for _, op := range []Operator{OpLessEqual, OpGreaterEqual, OpLess, OpGreater} {
		if rest, ok := strings.CutPrefix(s, string(op)); ok {
			p.Op = op
			s = rest
			break
		}
	}
	if p.Op == "" {
		return Predicate{}, core.NewPredicateError(expr, "missing comparison operator")
	}

	threshold, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(threshold) {
		return Predicate{}, core.NewPredicateError(expr, "threshold is not a number")
	}
	p.Threshold = threshold
	return p, nil
}

// MustParsePredicate is ParsePredicate for compile-time constants.
func MustParsePredicate(expr string) Predicate {
	p, err := ParsePredicate(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether v satisfies the predicate. Undefined values never match.
func (p Predicate) Match(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if p.Abs {
		v = math.Abs(v)
	}
	switch p.Op {
	case OpLess:
		return v < p.Threshold
	case OpLessEqual:
		return v <= p.Threshold
	case OpGreater:
		return v > p.Threshold
	case OpGreaterEqual:
		return v >= p.Threshold
	}
	return false
}

func (p Predicate) String() string {
	prefix := ""
	if p.Abs {
		prefix = "abs"
	}
	return fmt.Sprintf("%s%s%s", prefix, p.Op, strconv.FormatFloat(p.Threshold, 'g', -1, 64))
}

// Pass is one brute-force scan over seeds [0, SeedMax).
// It succeeds at the first seed whose vector has more than MinCount matching entries.
type Pass struct {
	Target    string        `json:"target" yaml:"target"`
	Variant   stats.Variant `json:"variant" yaml:"variant"`
	Predicate Predicate     `json:"predicate" yaml:"predicate"`
	MinCount  int           `json:"min_count" yaml:"min_count"`
	SeedMax   int64         `json:"seed_max" yaml:"seed_max"`
}

// Validate checks that a pass can run.
func (p Pass) Validate() error {
	if strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("%w: target column is required", core.ErrInvalidPass)
	}
	if p.Variant != stats.VariantPlain && p.Variant != stats.VariantSignificance {
		return fmt.Errorf("%w: unknown variant %q", core.ErrInvalidPass, p.Variant)
	}
	if p.Predicate.Op == "" {
		return fmt.Errorf("%w: predicate is required", core.ErrInvalidPass)
	}
	if p.MinCount < 0 {
		return fmt.Errorf("%w: min count must be >= 0, got %d", core.ErrInvalidPass, p.MinCount)
	}
	if p.SeedMax < 0 {
		return fmt.Errorf("%w: seed budget must be >= 0, got %d", core.ErrInvalidPass, p.SeedMax)
	}
	return nil
}

// Qualifies applies the stopping condition to a vector and returns the matching entries.
func (p Pass) Qualifies(v stats.CorrelationVector) ([]stats.Correlation, bool) {
	matches := v.Filter(p.Predicate.Match)
	return matches, len(matches) > p.MinCount
}

// DefaultPlan reproduces the original two-pass analysis: first a search for a noise
// column that looks uncorrelated with everything, then a second noise column whose
// p-values look insignificant. The thresholds differ on purpose and stay configurable.
func DefaultPlan(seedMax int64) []Pass {
	return []Pass{
		{
			Target:    "partY",
			Variant:   stats.VariantPlain,
			Predicate: MustParsePredicate("abs<0.05"),
			MinCount:  5,
			SeedMax:   seedMax,
		},
		{
			Target:    "partY2",
			Variant:   stats.VariantSignificance,
			Predicate: MustParsePredicate(">=0.05"),
			MinCount:  6,
			SeedMax:   seedMax,
		},
	}
}
