package ports

import (
	"context"

	"seedsweep/domain/dataset"
	"seedsweep/domain/stats"
)

// CorrelationPort evaluates numeric columns against a target column
type CorrelationPort interface {
	// Vector computes one scalar per numeric column against target. It never mutates tbl.
	Vector(ctx context.Context, tbl *dataset.Table, target string, variant stats.Variant) (stats.CorrelationVector, error)

	// Matrix computes the full pairwise Pearson matrix for plotting.
	Matrix(ctx context.Context, tbl *dataset.Table) (stats.CorrelationMatrix, error)
}

// MatrixRendererPort draws a correlation matrix to a file
type MatrixRendererPort interface {
	Render(ctx context.Context, m stats.CorrelationMatrix, title, path string) error
}
