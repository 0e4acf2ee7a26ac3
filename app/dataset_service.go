package app

import (
	"context"
	"fmt"
	"time"

	"seedsweep/domain/dataset"
	"seedsweep/internal"
	"seedsweep/ports"
)

// DatasetService loads and cleans the base table once per process
type DatasetService struct {
	source  ports.TableSourcePort
	cleaner ports.CleanerPort
	logger  *internal.Logger
}

// NewDatasetService creates a dataset service
func NewDatasetService(source ports.TableSourcePort, cleaner ports.CleanerPort, logger *internal.Logger) *DatasetService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DatasetService{source: source, cleaner: cleaner, logger: logger}
}

// Prepare reads the raw table and returns the cleaned base table.
// Coercion failures surface here, before any noise is drawn.
func (s *DatasetService) Prepare(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()

	raw, err := s.source.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	cleaned, err := s.cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean dataset: %w", err)
	}

	s.logger.Debug("prepared base table: %d rows, columns=%v, numeric=%v (%.2fms)",
		cleaned.Rows(), cleaned.Names(), cleaned.NumericNames(),
		float64(time.Since(start).Nanoseconds())/1e6)
	return cleaned, nil
}
