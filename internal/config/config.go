package config

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"seedsweep/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Cleaning CleaningConfig
	Search   SearchConfig
	Output   OutputConfig
	LogLevel string
}

// DataConfig holds input file settings
type DataConfig struct {
	FilePath  string
	Delimiter rune
	SheetName string
}

// CleaningConfig holds the missing-value and coercion rules
type CleaningConfig struct {
	MissingSentinels []string
	IndexColumn      string
	NumericColumns   []string
}

// SearchConfig holds seed search settings
type SearchConfig struct {
	SeedMax  int64
	PlanFile string
}

// OutputConfig holds reporting settings
type OutputConfig struct {
	Format   string
	PlotFile string
}

// Output formats accepted by the reporter.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultSeedMax is the seed budget used when none is configured.
const DefaultSeedMax = 100000

// Load reads configuration from environment variables and validates it.
// Callers load .env files beforehand.
func Load() (*Config, error) {
	config := &Config{
		Data:     loadDataConfig(),
		Cleaning: loadCleaningConfig(),
		Search:   loadSearchConfig(),
		Output:   loadOutputConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() DataConfig {
	return DataConfig{
		FilePath:  getEnvOrDefault("SEEDSWEEP_DATA_FILE", "./brainsize.csv"),
		Delimiter: getEnvRuneOrDefault("SEEDSWEEP_DELIMITER", ';'),
		SheetName: getEnvOrDefault("SEEDSWEEP_SHEET", ""),
	}
}

func loadCleaningConfig() CleaningConfig {
	return CleaningConfig{
		MissingSentinels: getEnvListOrDefault("SEEDSWEEP_MISSING_SENTINEL", []string{"."}),
		IndexColumn:      getEnvOrDefault("SEEDSWEEP_INDEX_COLUMN", "Unnamed: 0"),
		NumericColumns:   getEnvListOrDefault("SEEDSWEEP_NUMERIC_COLUMNS", []string{"Weight", "Height"}),
	}
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		SeedMax:  getEnvInt64OrDefault("SEEDSWEEP_SEED_MAX", DefaultSeedMax),
		PlanFile: getEnvOrDefault("SEEDSWEEP_PLAN_FILE", ""),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		Format:   strings.ToLower(getEnvOrDefault("SEEDSWEEP_OUTPUT", FormatText)),
		PlotFile: getEnvOrDefault("SEEDSWEEP_PLOT_FILE", ""),
	}
}

// Validate re-checks a config after flag overrides have been applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(config *Config) error {
	if config.Data.FilePath == "" {
		return errors.ConfigInvalid("data file is required")
	}
	if config.Data.Delimiter == 0 || config.Data.Delimiter == '\n' || config.Data.Delimiter == '"' {
		return errors.ConfigInvalid("delimiter must be a single printable character")
	}
	if config.Search.SeedMax < 0 {
		return errors.ConfigInvalid("seed max must be >= 0")
	}
	switch config.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.ConfigInvalid("output format must be text, json or yaml, got " + strconv.Quote(config.Output.Format))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvRuneOrDefault(key string, defaultValue rune) rune {
	if value := os.Getenv(key); value != "" {
		if value == `\t` {
			return '\t'
		}
		if utf8.RuneCountInString(value) == 1 {
			r, _ := utf8.DecodeRuneInString(value)
			return r
		}
		return 0 // rejected by validateConfig
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated value. An explicitly empty list is
// written as "-".
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	if value == "-" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
