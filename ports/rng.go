package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a fresh generator for a named operation. Two calls with the
	// same seed return generators producing identical sequences; no state is shared.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed reproduces the expected standard normal draws
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
