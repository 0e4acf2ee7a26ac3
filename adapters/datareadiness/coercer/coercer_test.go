package coercer

import (
	"errors"
	"math"
	"testing"

	"seedsweep/domain/core"
	"seedsweep/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brainRecords() [][]string {
	return [][]string{
		{"", "Gender", "FSIQ", "Weight", "Height", "MRI_Count"},
		{"1", "Female", "133", "118", "64.5", "816932"},
		{"2", "Male", "140", ".", "72.5", "1001121"},
		{"3", "Male", "139", "143", ".", "1038437"},
		{"4", "Male", "133", "172", "68.8", "965353"},
	}
}

func mustTable(t *testing.T, records [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords(records)
	require.NoError(t, err)
	return tbl
}

func TestClean_DefaultRules(t *testing.T) {
	cleaner := NewCleaner(DefaultCleaningConfig())

	cleaned, err := cleaner.Clean(mustTable(t, brainRecords()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Gender", "FSIQ", "Weight", "Height", "MRI_Count"}, cleaned.Names())
	assert.Equal(t, []string{"FSIQ", "Weight", "Height", "MRI_Count"}, cleaned.NumericNames())

	weight, err := cleaned.Float("Weight")
	require.NoError(t, err)
	assert.Equal(t, 118.0, weight[0])
	assert.True(t, math.IsNaN(weight[1]), "sentinel becomes missing")

	height, err := cleaned.Float("Height")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(height[2]))
	assert.Equal(t, 68.8, height[3])
}

func TestClean_Idempotent(t *testing.T) {
	cleaner := NewCleaner(DefaultCleaningConfig())

	once, err := cleaner.Clean(mustTable(t, brainRecords()))
	require.NoError(t, err)
	twice, err := cleaner.Clean(once)
	require.NoError(t, err)

	assert.True(t, once.Equal(twice), "second clean must not change the table")
}

func TestClean_CoercionFailure(t *testing.T) {
	records := brainRecords()
	records[3][3] = "heavy"

	_, err := NewCleaner(DefaultCleaningConfig()).Clean(mustTable(t, records))
	require.Error(t, err)
	assert.True(t, core.IsCoercionError(err))

	var tce *core.TypeCoercionError
	require.True(t, errors.As(err, &tce))
	assert.Equal(t, "Weight", tce.Column)
	assert.Equal(t, 3, tce.Row)
	assert.Equal(t, "heavy", tce.Value)
}

func TestClean_MissingRequiredColumn(t *testing.T) {
	cfg := DefaultCleaningConfig()
	cfg.NumericColumns = []string{"Weight", "Age"}

	_, err := NewCleaner(cfg).Clean(mustTable(t, brainRecords()))
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}

func TestClean_WithoutInference(t *testing.T) {
	cfg := DefaultCleaningConfig()
	cfg.InferTypes = false

	cleaned, err := NewCleaner(cfg).Clean(mustTable(t, brainRecords()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Weight", "Height"}, cleaned.NumericNames())
}

func TestClean_KeepsCategoricalSentinelsMissing(t *testing.T) {
	records := brainRecords()
	records[1][1] = "."

	cleaner := NewCleaner(DefaultCleaningConfig())
	cleaned, err := cleaner.Clean(mustTable(t, records))
	require.NoError(t, err)

	_, missing, err := cleaned.Strings("Gender")
	require.NoError(t, err)
	assert.True(t, missing[0])
	assert.False(t, cleaned.IsNumeric("Gender"))
}

func TestClean_BlankCellsAreMissing(t *testing.T) {
	records := [][]string{
		{"", "Gender", "Weight", "Height"},
		{"0", "Female", "118", "64.5"},
		{"1", "Male", "", "72.5"},
		{"2", "Male", "143", "  "},
	}

	cleaned, err := NewCleaner(DefaultCleaningConfig()).Clean(mustTable(t, records))
	require.NoError(t, err)

	weight, err := cleaned.Float("Weight")
	require.NoError(t, err)
	assert.Equal(t, 118.0, weight[0])
	assert.True(t, math.IsNaN(weight[1]))

	height, err := cleaned.Float("Height")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(height[2]))
}

func TestClean_BlankCellsWithoutSentinels(t *testing.T) {
	cfg := DefaultCleaningConfig()
	cfg.MissingSentinels = nil
	records := [][]string{
		{"Weight", "Height"},
		{"", "72.5"},
		{"150", "70"},
	}

	cleaned, err := NewCleaner(cfg).Clean(mustTable(t, records))
	require.NoError(t, err)

	missing, err := cleaned.MissingCount("Weight")
	require.NoError(t, err)
	assert.Equal(t, 1, missing)
}
