package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrSourceNotFound = fmt.Errorf("%w: data source", ErrNotFound)

	// Ingestion errors
	ErrEmptyTable       = errors.New("table has no data rows")
	ErrMalformedHeader  = errors.New("malformed header row")
	ErrRowCountMismatch = errors.New("column length does not match table row count")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// Cleaning errors
	ErrTypeCoercion = errors.New("type coercion failed")
	ErrNotNumeric   = errors.New("column is not numeric")

	// Search errors
	ErrInvalidPredicate    = errors.New("invalid predicate")
	ErrInvalidPass         = errors.New("invalid search pass")
	ErrSeedBudgetExhausted = errors.New("seed budget exhausted without a qualifying seed")
	ErrInsufficientData    = errors.New("insufficient data for analysis")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// TypeCoercionError reports the first cell that could not be coerced to a number.
type TypeCoercionError struct {
	Column string
	Row    int
	Value  string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%v: column %q row %d has non-numeric value %q", ErrTypeCoercion, e.Column, e.Row, e.Value)
}

func (e *TypeCoercionError) Unwrap() error {
	return ErrTypeCoercion
}

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

func NewPredicateError(expr string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidPredicate, expr, reason)
}

func NewExhaustedError(target string, budget int64) error {
	return fmt.Errorf("%w: target %s, %d seeds tried", ErrSeedBudgetExhausted, target, budget)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsCoercionError(err error) bool {
	return errors.Is(err, ErrTypeCoercion)
}

func IsExhaustedError(err error) bool {
	return errors.Is(err, ErrSeedBudgetExhausted)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrSourceNotFound)
}
