package rng

import (
	"context"
	"fmt"
	"math/rand"

	"seedsweep/domain/core"
)

// SeededAdapter implements ports.RNGPort with one math/rand source per call.
type SeededAdapter struct{}

// NewSeededAdapter creates the generator factory
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation.
// The name is informational; the sequence depends on the seed alone so that a
// reported seed can be replayed from the command line.
func (a *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}

// ValidateSeed regenerates len(expected) draws and compares them bit for bit.
func (a *SeededAdapter) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	r, err := a.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		if got := r.NormFloat64(); got != want {
			return fmt.Errorf("%w: %s seed %d draw %d: got %v, want %v", core.ErrSeedMismatch, name, seed, i, got, want)
		}
	}
	return nil
}
