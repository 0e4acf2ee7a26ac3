package ports

import (
	"context"

	"seedsweep/domain/dataset"
)

// NoisePort writes a seeded column of standard normal draws into a table
type NoisePort interface {
	// Inject returns a new table with column holding tbl.Rows() draws for seed.
	// The input table is never modified.
	Inject(ctx context.Context, tbl *dataset.Table, column string, seed int64) (*dataset.Table, error)
}
