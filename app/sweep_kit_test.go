package app_test

import (
	"context"
	"testing"

	"seedsweep/app"
	"seedsweep/domain/search"
	"seedsweep/internal"
	"seedsweep/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_DefaultPlanOnSyntheticData(t *testing.T) {
	ctx := context.Background()
	zcore, logs := observer.New(zap.DebugLevel)
	kit := testkit.NewTestKit(7).WithLogger(internal.NewLoggerWithZap(internal.LogLevelInfo, zap.New(zcore)))

	base, err := kit.BaseTable(ctx)
	require.NoError(t, err)
	prepared := logs.Len()

	// Loose predicates so both passes succeed within a handful of seeds.
	plan := search.DefaultPlan(50)
	plan[0].Predicate = search.MustParsePredicate("abs<=1")
	plan[1].Predicate = search.MustParsePredicate("abs<=1")

	result, err := kit.SweepService().Run(ctx, app.SweepRequest{Base: base, Plan: plan})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Passes, 2)

	final := result.Final()
	assert.True(t, final.Table.Has(plan[0].Target))
	assert.True(t, final.Table.Has(plan[1].Target))
	assert.False(t, base.Has(plan[0].Target), "base table is never modified")
	assert.NotEmpty(t, final.Fingerprint)

	sweepLogs := logs.All()[prepared:]
	require.NotEmpty(t, sweepLogs)
	for _, entry := range sweepLogs {
		assert.Equal(t, result.RunID.String(), entry.ContextMap()["run_id"])
	}
}

func TestRun_SameKitSeedReplays(t *testing.T) {
	ctx := context.Background()
	plan := []search.Pass{{
		Target:    "partY",
		Variant:   "plain",
		Predicate: search.MustParsePredicate("abs<0.1"),
		MinCount:  1,
		SeedMax:   200,
	}}

	run := func() *app.PassOutcome {
		kit := testkit.NewTestKit(11)
		base, err := kit.BaseTable(ctx)
		require.NoError(t, err)
		result, err := kit.SweepService().Run(ctx, app.SweepRequest{Base: base, Plan: plan})
		require.NoError(t, err)
		return result.Final()
	}

	first, second := run(), run()
	assert.Equal(t, first.Seed, second.Seed)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.True(t, first.Table.Equal(second.Table))
}
