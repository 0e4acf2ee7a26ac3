package app

import (
	"context"
	"fmt"
	"time"

	"seedsweep/domain/core"
	"seedsweep/domain/dataset"
	"seedsweep/domain/search"
	"seedsweep/domain/stats"
	"seedsweep/internal"
	"seedsweep/ports"
)

// SweepService runs brute-force seed searches over noise columns
type SweepService struct {
	noisePort       ports.NoisePort
	correlationPort ports.CorrelationPort
	rngPort         ports.RNGPort
	logger          *internal.Logger
}

// SweepRequest defines the inputs of one sweep invocation
type SweepRequest struct {
	Base  *dataset.Table
	Plan  []search.Pass
	RunID core.RunID // optional, will be generated if empty
}

// PassOutcome is the result of a single pass. On exhaustion Found is false,
// Seed is -1 and LastSeed is SeedMax-1.
type PassOutcome struct {
	Pass        search.Pass             `json:"pass" yaml:"pass"`
	Found       bool                    `json:"found" yaml:"found"`
	Seed        int64                   `json:"seed" yaml:"seed"`
	SeedsTried  int64                   `json:"seeds_tried" yaml:"seeds_tried"`
	LastSeed    int64                   `json:"last_seed" yaml:"last_seed"`
	Vector      stats.CorrelationVector `json:"vector" yaml:"vector"`
	Matches     []stats.Correlation     `json:"matches" yaml:"matches"`
	Fingerprint core.Hash               `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	RuntimeMs   int64                   `json:"runtime_ms" yaml:"runtime_ms"`

	// Table is the base table plus the winning noise column.
	Table *dataset.Table `json:"-" yaml:"-"`
}

// SweepResult contains the outcome of every pass that ran
type SweepResult struct {
	RunID     core.RunID     `json:"run_id" yaml:"run_id"`
	StartedAt core.Timestamp `json:"started_at" yaml:"started_at"`
	Passes    []PassOutcome  `json:"passes" yaml:"passes"`
	Success   bool           `json:"success" yaml:"success"`
	RuntimeMs int64          `json:"runtime_ms" yaml:"runtime_ms"`
}

// Final returns the last pass that ran.
func (r *SweepResult) Final() *PassOutcome {
	if len(r.Passes) == 0 {
		return nil
	}
	return &r.Passes[len(r.Passes)-1]
}

// NewSweepService creates a sweep service. When rngPort is set, every winning
// seed is replayed against it before being reported.
func NewSweepService(noisePort ports.NoisePort, correlationPort ports.CorrelationPort, rngPort ports.RNGPort, logger *internal.Logger) *SweepService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &SweepService{
		noisePort:       noisePort,
		correlationPort: correlationPort,
		rngPort:         rngPort,
		logger:          logger,
	}
}

// Run executes the plan in order. Each pass starts from the previous pass's
// winning table, so later noise columns are evaluated alongside earlier ones.
// Exhausting any pass stops the sweep; the partial result is returned with an
// error wrapping core.ErrSeedBudgetExhausted.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if req.Base == nil {
		return nil, fmt.Errorf("%w: base table is required", core.ErrEmptyTable)
	}
	if len(req.Plan) == 0 {
		return nil, fmt.Errorf("%w: plan has no passes", core.ErrInvalidPass)
	}
	for i, pass := range req.Plan {
		if err := pass.Validate(); err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
	}

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}
	logger := s.logger.With("run_id", runID.String())

	startTime := time.Now()
	result := &SweepResult{RunID: runID, StartedAt: core.NewTimestamp(startTime)}

	current := req.Base
	for i, pass := range req.Plan {
		logger.Info("pass %d/%d: target=%s variant=%s predicate=%s count>%d seeds=[0,%d)",
			i+1, len(req.Plan), pass.Target, pass.Variant, pass.Predicate, pass.MinCount, pass.SeedMax)

		outcome, err := s.runPass(ctx, logger, current, pass)
		if outcome != nil {
			result.Passes = append(result.Passes, *outcome)
		}
		if err != nil {
			result.RuntimeMs = time.Since(startTime).Milliseconds()
			return result, fmt.Errorf("pass %d: %w", i+1, err)
		}
		current = outcome.Table
	}

	result.Success = true
	result.RuntimeMs = time.Since(startTime).Milliseconds()
	return result, nil
}

// RunPass executes a single pass against base.
func (s *SweepService) RunPass(ctx context.Context, base *dataset.Table, pass search.Pass) (*PassOutcome, error) {
	if err := pass.Validate(); err != nil {
		return nil, err
	}
	return s.runPass(ctx, s.logger, base, pass)
}

// runPass scans seeds in [0, SeedMax) and stops at the first qualifying one.
// There is no ranking among qualifying seeds.
func (s *SweepService) runPass(ctx context.Context, logger *internal.Logger, base *dataset.Table, pass search.Pass) (*PassOutcome, error) {
	startTime := time.Now()
	outcome := &PassOutcome{Pass: pass, Seed: -1, LastSeed: -1}

	for seed := int64(0); seed < pass.SeedMax; seed++ {
		if err := ctx.Err(); err != nil {
			outcome.RuntimeMs = time.Since(startTime).Milliseconds()
			return outcome, err
		}

		overlay, err := s.noisePort.Inject(ctx, base, pass.Target, seed)
		if err != nil {
			return nil, fmt.Errorf("inject seed %d: %w", seed, err)
		}
		vector, err := s.correlationPort.Vector(ctx, overlay, pass.Target, pass.Variant)
		if err != nil {
			return nil, fmt.Errorf("evaluate seed %d: %w", seed, err)
		}

		outcome.SeedsTried++
		outcome.LastSeed = seed

		matches, ok := pass.Qualifies(vector)
		logger.Trace("seed %d: %d/%d entries match %s", seed, len(matches), len(vector.Entries), pass.Predicate)
		if !ok {
			continue
		}
		if err := s.replay(ctx, overlay, pass.Target, seed); err != nil {
			return nil, err
		}

		outcome.Found = true
		outcome.Seed = seed
		outcome.Vector = vector
		outcome.Matches = matches
		outcome.Table = overlay
		outcome.Fingerprint = passFingerprint(pass, base.Rows(), seed)
		outcome.RuntimeMs = time.Since(startTime).Milliseconds()

		logger.Info("target %s: seed %d qualifies with %d matching entries after %d seeds",
			pass.Target, seed, len(matches), outcome.SeedsTried)
		return outcome, nil
	}

	outcome.RuntimeMs = time.Since(startTime).Milliseconds()
	logger.Warn("target %s: no seed in [0,%d) produced more than %d entries matching %s",
		pass.Target, pass.SeedMax, pass.MinCount, pass.Predicate)
	return outcome, core.NewExhaustedError(pass.Target, pass.SeedMax)
}

// Inspect injects one fixed seed and evaluates it without searching.
func (s *SweepService) Inspect(ctx context.Context, base *dataset.Table, target string, seed int64, variant stats.Variant) (stats.CorrelationVector, *dataset.Table, error) {
	overlay, err := s.noisePort.Inject(ctx, base, target, seed)
	if err != nil {
		return stats.CorrelationVector{}, nil, fmt.Errorf("inject seed %d: %w", seed, err)
	}
	vector, err := s.correlationPort.Vector(ctx, overlay, target, variant)
	if err != nil {
		return stats.CorrelationVector{}, nil, err
	}
	return vector, overlay, nil
}

// replay checks that seed regenerates the noise column written into tbl.
func (s *SweepService) replay(ctx context.Context, tbl *dataset.Table, column string, seed int64) error {
	if s.rngPort == nil {
		return nil
	}
	drawn, err := tbl.Float(column)
	if err != nil {
		return err
	}
	if err := s.rngPort.ValidateSeed(ctx, column, seed, drawn); err != nil {
		return fmt.Errorf("replay seed %d: %w", seed, err)
	}
	return nil
}

// passFingerprint identifies everything needed to replay a qualifying seed.
func passFingerprint(pass search.Pass, rows int, seed int64) core.Hash {
	return core.ComputeFingerprint(map[string]interface{}{
		"target":    pass.Target,
		"variant":   string(pass.Variant),
		"predicate": pass.Predicate.String(),
		"min_count": pass.MinCount,
		"rows":      rows,
		"seed":      seed,
	})
}
