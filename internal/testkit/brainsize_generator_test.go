package testkit

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"seedsweep/adapters/excel"
	"seedsweep/domain/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrainSizeGenerator_Shape(t *testing.T) {
	records, err := NewBrainSizeGenerator(DefaultBrainSizeConfig()).Records()
	require.NoError(t, err)

	require.Len(t, records, 41)
	assert.Equal(t, BrainSizeColumns, records[0])

	weightMissing, heightMissing := 0, 0
	for _, row := range records[1:] {
		require.Len(t, row, len(BrainSizeColumns))
		assert.Contains(t, []string{"Female", "Male"}, row[1])
		if row[5] == "." {
			weightMissing++
		}
		if row[6] == "." {
			heightMissing++
		}
	}
	assert.Equal(t, 2, weightMissing)
	assert.Equal(t, 1, heightMissing)
}

func TestBrainSizeGenerator_Deterministic(t *testing.T) {
	a, err := NewBrainSizeGenerator(DefaultBrainSizeConfig()).Records()
	require.NoError(t, err)
	b, err := NewBrainSizeGenerator(DefaultBrainSizeConfig()).Records()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := DefaultBrainSizeConfig()
	other.Seed = 7
	c, err := NewBrainSizeGenerator(other).Records()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestBrainSizeGenerator_InvalidConfig(t *testing.T) {
	_, err := NewBrainSizeGenerator(BrainSizeConfig{Rows: 0}).Records()
	assert.Error(t, err)

	_, err = NewBrainSizeGenerator(BrainSizeConfig{Rows: 2, MissingWeight: 3}).Records()
	assert.Error(t, err)
}

func TestBrainSizeGenerator_WriteDelimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBrainSizeGenerator(DefaultBrainSizeConfig()).WriteDelimited(&buf, ';'))

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 41)
	assert.Equal(t, "Gender", records[0][1])
}

func TestBrainSizeGenerator_ReadBackThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brainsize.csv")
	require.NoError(t, NewBrainSizeGenerator(DefaultBrainSizeConfig()).WriteFile(path, ';'))
	_, err := os.Stat(path)
	require.NoError(t, err)

	reader := excel.NewDataReader(excel.ReaderConfig{FilePath: path, Delimiter: ';'}, nil)
	tbl, err := reader.ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, tbl.Rows())
	assert.True(t, tbl.Has("Unnamed: 0"))
}

func TestTestKit_BaseTable(t *testing.T) {
	kit := NewTestKit(42)
	base, err := kit.BaseTable(context.Background())
	require.NoError(t, err)

	assert.False(t, base.Has("Unnamed: 0"))
	assert.Equal(t, []string{"FSIQ", "VIQ", "PIQ", "Weight", "Height", "MRI_Count"}, base.NumericNames())

	missing, err := base.MissingCount("Weight")
	require.NoError(t, err)
	assert.Equal(t, 2, missing)
}

func TestTestKit_SweepRunsOnSyntheticData(t *testing.T) {
	ctx := context.Background()
	kit := NewTestKit(42)
	base, err := kit.BaseTable(ctx)
	require.NoError(t, err)

	// Six data columns plus the noise column itself; every |r| <= 1.
	pass := search.Pass{
		Target:    "partY",
		Variant:   "plain",
		Predicate: search.MustParsePredicate("abs<=1"),
		MinCount:  5,
		SeedMax:   3,
	}
	outcome, err := kit.SweepService().RunPass(ctx, base, pass)
	require.NoError(t, err)
	assert.Equal(t, int64(0), outcome.Seed)
	assert.Len(t, outcome.Vector.Entries, 7)
}
