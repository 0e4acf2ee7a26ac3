package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"seedsweep/adapters/datareadiness"
	"seedsweep/adapters/datareadiness/coercer"
	"seedsweep/adapters/excel"
	"seedsweep/adapters/noise"
	"seedsweep/adapters/render"
	"seedsweep/adapters/rng"
	"seedsweep/adapters/stats/correlation"
	"seedsweep/app"
	"seedsweep/domain/core"
	"seedsweep/internal"
	"seedsweep/internal/config"
	"seedsweep/internal/errors"
	"seedsweep/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitExhausted = 2
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "seedsweep: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case core.IsExhaustedError(err):
		return exitExhausted
	default:
		return exitFailure
	}
}

// cli holds state shared by all subcommands
type cli struct {
	cfg    *config.Config
	logger *internal.Logger

	file      string
	delimiter string
	sheet     string
	output    string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "seedsweep",
		Short: "Brute-force random seeds until injected noise correlates the way you want",
		Long: `seedsweep loads a tabular dataset, adds a column of seeded standard normal
noise, and scans seeds until the correlation vector against that column
satisfies a threshold predicate. It demonstrates how easily a "finding"
can be manufactured by searching over randomness.

Configuration is read from the environment (and .env), then overridden by flags:
  SEEDSWEEP_DATA_FILE, SEEDSWEEP_DELIMITER, SEEDSWEEP_SHEET,
  SEEDSWEEP_MISSING_SENTINEL, SEEDSWEEP_INDEX_COLUMN, SEEDSWEEP_NUMERIC_COLUMNS,
  SEEDSWEEP_SEED_MAX, SEEDSWEEP_PLAN_FILE, SEEDSWEEP_OUTPUT, SEEDSWEEP_PLOT_FILE, LOG_LEVEL`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				c.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.file, "file", "", "Input file (.csv or .xlsx)")
	flags.StringVar(&c.delimiter, "delimiter", "", "Field delimiter for delimited text input")
	flags.StringVar(&c.sheet, "sheet", "", "Worksheet name for .xlsx input (default: first sheet)")
	flags.StringVarP(&c.output, "output", "o", "", "Output format: text|json|yaml")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newSweepCmd(c),
		newInspectCmd(c),
		newSynthCmd(c),
		newDescribeCmd(c),
	)
	return rootCmd
}

// load reads the environment and applies any flags that were set explicitly.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Data.FilePath = c.file
	}
	if flags.Changed("delimiter") {
		runes := []rune(c.delimiter)
		if c.delimiter == `\t` {
			runes = []rune{'\t'}
		}
		if len(runes) != 1 {
			return errors.ConfigInvalid("delimiter must be a single character")
		}
		cfg.Data.Delimiter = runes[0]
	}
	if flags.Changed("sheet") {
		cfg.Data.SheetName = c.sheet
	}
	if flags.Changed("output") {
		cfg.Output.Format = strings.ToLower(c.output)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return nil
}

func (c *cli) readerConfig() excel.ReaderConfig {
	return excel.ReaderConfig{
		FilePath:  c.cfg.Data.FilePath,
		Delimiter: c.cfg.Data.Delimiter,
		SheetName: c.cfg.Data.SheetName,
	}
}

func (c *cli) cleaningConfig() coercer.CleaningConfig {
	cleaning := coercer.DefaultCleaningConfig()
	cleaning.MissingSentinels = c.cfg.Cleaning.MissingSentinels
	cleaning.IndexColumn = c.cfg.Cleaning.IndexColumn
	cleaning.NumericColumns = c.cfg.Cleaning.NumericColumns
	return cleaning
}

// services wires the adapters for one invocation.
func (c *cli) services() (*app.DatasetService, *app.SweepService, *correlation.Evaluator) {
	source := excel.NewDataReader(c.readerConfig(), c.logger)
	datasets := app.NewDatasetService(source, coercer.NewCleaner(c.cleaningConfig()), c.logger)

	evaluator := correlation.NewEvaluator()
	seeded := rng.NewSeededAdapter()
	sweeps := app.NewSweepService(noise.NewInjector(seeded), evaluator, seeded, c.logger)
	return datasets, sweeps, evaluator
}

func (c *cli) renderer() ports.MatrixRendererPort {
	return render.NewHeatmapRenderer()
}

func (c *cli) profiler() ports.ProfilerPort {
	return datareadiness.NewProfilerAdapter()
}
