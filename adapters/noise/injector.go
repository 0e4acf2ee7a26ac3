package noise

import (
	"context"
	"fmt"

	"seedsweep/domain/dataset"
	"seedsweep/ports"
)

// Injector writes standard normal noise columns using a fresh generator per call
type Injector struct {
	rng ports.RNGPort
}

// NewInjector creates an injector backed by the given generator factory
func NewInjector(rng ports.RNGPort) *Injector {
	return &Injector{rng: rng}
}

// Draw returns n standard normal values for seed.
func (i *Injector) Draw(ctx context.Context, column string, n int, seed int64) ([]float64, error) {
	r, err := i.rng.SeededStream(ctx, column, seed)
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	values := make([]float64, n)
	for k := range values {
		values[k] = r.NormFloat64()
	}
	return values, nil
}

// Inject returns tbl with column set to tbl.Rows() draws for seed, created or overwritten.
func (i *Injector) Inject(ctx context.Context, tbl *dataset.Table, column string, seed int64) (*dataset.Table, error) {
	values, err := i.Draw(ctx, column, tbl.Rows(), seed)
	if err != nil {
		return nil, err
	}
	return tbl.WithFloat(column, values)
}
