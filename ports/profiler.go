package ports

import (
	"context"

	"seedsweep/domain/datareadiness/profiling"
	"seedsweep/domain/dataset"
)

// ProfilerPort summarizes the columns of a cleaned table
type ProfilerPort interface {
	ProfileTable(ctx context.Context, tbl *dataset.Table) (*profiling.TableProfile, error)
}
