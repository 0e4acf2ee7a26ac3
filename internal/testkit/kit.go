package testkit

import (
	"context"

	"seedsweep/adapters/datareadiness/coercer"
	"seedsweep/adapters/noise"
	"seedsweep/adapters/rng"
	"seedsweep/adapters/stats/correlation"
	"seedsweep/app"
	"seedsweep/domain/dataset"
	"seedsweep/internal"
	"seedsweep/ports"
)

// TestKit wires the real adapters around an in-memory synthetic dataset
type TestKit struct {
	generator *BrainSizeGenerator
	cleaning  coercer.CleaningConfig
	logger    *internal.Logger
}

// NewTestKit creates a test kit over a default brain-size dataset generated from seed
func NewTestKit(seed int64) *TestKit {
	config := DefaultBrainSizeConfig()
	config.Seed = seed
	return NewTestKitWithConfig(config)
}

// NewTestKitWithConfig creates a test kit with a custom generator config
func NewTestKitWithConfig(config BrainSizeConfig) *TestKit {
	return &TestKit{
		generator: NewBrainSizeGenerator(config),
		cleaning:  coercer.DefaultCleaningConfig(),
		logger:    internal.NewNopLogger(),
	}
}

// WithLogger routes service logs to logger
func (k *TestKit) WithLogger(logger *internal.Logger) *TestKit {
	k.logger = logger
	return k
}

// Generator returns the dataset generator
func (k *TestKit) Generator() *BrainSizeGenerator {
	return k.generator
}

// TableSource returns a source that serves the generated raw table
func (k *TestKit) TableSource() ports.TableSourcePort {
	return &memorySource{generator: k.generator}
}

// RNGAdapter returns the seeded generator factory
func (k *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewSeededAdapter()
}

// DatasetService returns a dataset service over the generated table
func (k *TestKit) DatasetService() *app.DatasetService {
	return app.NewDatasetService(k.TableSource(), coercer.NewCleaner(k.cleaning), k.logger)
}

// SweepService returns a sweep service backed by the real injector and evaluator
func (k *TestKit) SweepService() *app.SweepService {
	seeded := k.RNGAdapter()
	return app.NewSweepService(noise.NewInjector(seeded), correlation.NewEvaluator(), seeded, k.logger)
}

// BaseTable returns the cleaned base table
func (k *TestKit) BaseTable(ctx context.Context) (*dataset.Table, error) {
	return k.DatasetService().Prepare(ctx)
}

// memorySource implements TableSourcePort over a generator
type memorySource struct {
	generator *BrainSizeGenerator
}

// ReadTable builds a fresh raw table on every call
func (s *memorySource) ReadTable(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.generator.Table()
}
