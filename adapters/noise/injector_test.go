package noise

import (
	"context"
	"math"
	"testing"

	"seedsweep/adapters/rng"
	"seedsweep/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	records := [][]string{{"id"}}
	for i := 0; i < rows; i++ {
		records = append(records, []string{"x"})
	}
	tbl, err := dataset.FromRecords(records)
	require.NoError(t, err)
	return tbl
}

func TestInject_Deterministic(t *testing.T) {
	ctx := context.Background()
	injector := NewInjector(rng.NewSeededAdapter())
	base := baseTable(t, 40)

	a, err := injector.Inject(ctx, base, "partY", 8)
	require.NoError(t, err)
	// Unrelated draws in between must not affect the next injection.
	_, err = injector.Inject(ctx, base, "other", 99)
	require.NoError(t, err)
	b, err := injector.Inject(ctx, base, "partY", 8)
	require.NoError(t, err)

	av, err := a.Float("partY")
	require.NoError(t, err)
	bv, err := b.Float("partY")
	require.NoError(t, err)

	require.Len(t, av, 40)
	for i := range av {
		assert.Equal(t, math.Float64bits(av[i]), math.Float64bits(bv[i]), "row %d", i)
	}
}

func TestInject_OverwritesWithoutTouchingBase(t *testing.T) {
	ctx := context.Background()
	injector := NewInjector(rng.NewSeededAdapter())
	base := baseTable(t, 10)

	first, err := injector.Inject(ctx, base, "partY", 1)
	require.NoError(t, err)
	second, err := injector.Inject(ctx, first, "partY", 2)
	require.NoError(t, err)

	assert.False(t, base.Has("partY"))
	assert.Equal(t, []string{"id", "partY"}, second.Names())

	v1, _ := first.Float("partY")
	v2, _ := second.Float("partY")
	assert.NotEqual(t, v1, v2)

	direct, err := injector.Draw(ctx, "partY", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, direct, v2, "overwrite equals a fresh injection")
}

func TestDraw_LooksStandardNormal(t *testing.T) {
	values, err := NewInjector(rng.NewSeededAdapter()).Draw(context.Background(), "noise", 20000, 42)
	require.NoError(t, err)

	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(len(values))
	variance := sumSq/float64(len(values)) - mean*mean

	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
}
