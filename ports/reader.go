package ports

import (
	"context"

	"seedsweep/domain/dataset"
)

// TableSourcePort loads the raw dataset for a run
type TableSourcePort interface {
	ReadTable(ctx context.Context) (*dataset.Table, error)
}

// CleanerPort turns a raw table into the cleaned base table
type CleanerPort interface {
	Clean(tbl *dataset.Table) (*dataset.Table, error)
}
