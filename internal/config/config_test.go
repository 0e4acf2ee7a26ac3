package config

import (
	"os"
	"path/filepath"
	"testing"

	"seedsweep/domain/core"
	"seedsweep/domain/stats"
	"seedsweep/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SEEDSWEEP_DATA_FILE", "SEEDSWEEP_DELIMITER", "SEEDSWEEP_SHEET",
	"SEEDSWEEP_MISSING_SENTINEL", "SEEDSWEEP_INDEX_COLUMN", "SEEDSWEEP_NUMERIC_COLUMNS",
	"SEEDSWEEP_SEED_MAX", "SEEDSWEEP_PLAN_FILE", "SEEDSWEEP_OUTPUT", "SEEDSWEEP_PLOT_FILE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./brainsize.csv", cfg.Data.FilePath)
	assert.Equal(t, ';', cfg.Data.Delimiter)
	assert.Equal(t, []string{"."}, cfg.Cleaning.MissingSentinels)
	assert.Equal(t, "Unnamed: 0", cfg.Cleaning.IndexColumn)
	assert.Equal(t, []string{"Weight", "Height"}, cfg.Cleaning.NumericColumns)
	assert.Equal(t, int64(DefaultSeedMax), cfg.Search.SeedMax)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEEDSWEEP_DATA_FILE", "/data/brain.xlsx")
	t.Setenv("SEEDSWEEP_DELIMITER", `\t`)
	t.Setenv("SEEDSWEEP_NUMERIC_COLUMNS", "FSIQ, VIQ ,PIQ")
	t.Setenv("SEEDSWEEP_MISSING_SENTINEL", "-")
	t.Setenv("SEEDSWEEP_SEED_MAX", "250")
	t.Setenv("SEEDSWEEP_OUTPUT", "YAML")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/brain.xlsx", cfg.Data.FilePath)
	assert.Equal(t, '\t', cfg.Data.Delimiter)
	assert.Equal(t, []string{"FSIQ", "VIQ", "PIQ"}, cfg.Cleaning.NumericColumns)
	assert.Nil(t, cfg.Cleaning.MissingSentinels)
	assert.Equal(t, int64(250), cfg.Search.SeedMax)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"multi-char delimiter", "SEEDSWEEP_DELIMITER", ";;"},
		{"negative seed max", "SEEDSWEEP_SEED_MAX", "-1"},
		{"unknown format", "SEEDSWEEP_OUTPUT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestParsePlan(t *testing.T) {
	data := []byte(`
seed_max: 500
passes:
  - target: partY
    variant: plain
    predicate: abs<0.05
    min_count: 5
  - target: partY2
    variant: significance
    predicate: ">=0.05"
    min_count: 6
    seed_max: 50
`)

	passes, err := ParsePlan(data, 10)
	require.NoError(t, err)
	require.Len(t, passes, 2)

	assert.Equal(t, "partY", passes[0].Target)
	assert.Equal(t, stats.VariantPlain, passes[0].Variant)
	assert.Equal(t, "abs<0.05", passes[0].Predicate.String())
	assert.Equal(t, 5, passes[0].MinCount)
	assert.Equal(t, int64(500), passes[0].SeedMax)

	assert.Equal(t, stats.VariantSignificance, passes[1].Variant)
	assert.Equal(t, int64(50), passes[1].SeedMax)
}

func TestParsePlan_Errors(t *testing.T) {
	_, err := ParsePlan([]byte("passes: []\n"), 10)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = ParsePlan([]byte("passes:\n  - target: partY\n    variant: plain\n    predicate: abs<0.05\n    threshold: 3\n"), 10)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err), "unknown keys are rejected")

	_, err = ParsePlan([]byte("passes:\n  - target: partY\n    variant: plain\n    predicate: nearly zero\n"), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidPredicate)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = ParsePlan([]byte("passes:\n  - target: partY\n    variant: spearman\n    predicate: abs<0.05\n"), 10)
	assert.ErrorIs(t, err, core.ErrInvalidPass)
}

func TestLoadPlan_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	passes, err := ParsePlan([]byte("passes:\n  - target: partY\n    variant: plain\n    predicate: abs<0.05\n    min_count: 5\n"), 42)
	require.NoError(t, err)

	data, err := MarshalPlan(passes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadPlan(path, 7)
	require.NoError(t, err)
	assert.Equal(t, passes, loaded)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"), 7)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}
