package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"seedsweep/adapters/excel"
	"seedsweep/app"
	"seedsweep/domain/search"
	"seedsweep/domain/stats"
	"seedsweep/internal/config"
	"seedsweep/internal/report"
	"seedsweep/internal/testkit"

	"github.com/spf13/cobra"
)

type sweepOptions struct {
	seedMax   int64
	planFile  string
	target    string
	variant   string
	predicate string
	minCount  int
	plotFile  string
}

func newSweepCmd(c *cli) *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Search seeds until the noise column's correlation vector meets the predicate",
		Long: `Run the seed search. Without --plan or --target the default two-pass plan runs:

  1. partY,  plain correlations,   abs<0.05, more than 5 matching entries
  2. partY2, significance p-values, >=0.05,  more than 6 matching entries

The second pass starts from the table that won the first. Passing --target runs a
single pass built from --variant, --predicate and --min-count instead.

Exit status is 2 when a pass exhausts its seed budget and 1 on any other error.

Example: seedsweep sweep --file brainsize.csv --seed-max 5000 --plot corr.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, c, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seedMax, "seed-max", 0, "Seed budget per pass (default from SEEDSWEEP_SEED_MAX)")
	cmd.Flags().StringVar(&opts.planFile, "plan", "", "YAML plan file (default from SEEDSWEEP_PLAN_FILE)")
	cmd.Flags().StringVar(&opts.target, "target", "", "Noise column name for a single-pass search")
	cmd.Flags().StringVar(&opts.variant, "variant", "plain", "Correlation variant: plain|significance")
	cmd.Flags().StringVar(&opts.predicate, "predicate", "abs<0.05", "Entry predicate, e.g. abs<0.05 or >=0.05")
	cmd.Flags().IntVar(&opts.minCount, "min-count", 5, "Succeed when more than this many entries match")
	cmd.Flags().StringVar(&opts.plotFile, "plot", "", "Write a correlation heatmap PNG on success")
	return cmd
}

func runSweep(cmd *cobra.Command, c *cli, opts *sweepOptions) error {
	ctx := cmd.Context()

	seedMax := c.cfg.Search.SeedMax
	if cmd.Flags().Changed("seed-max") {
		seedMax = opts.seedMax
	}
	plan, err := buildPlan(c.cfg, opts, seedMax, cmd.Flags().Changed("plan"))
	if err != nil {
		return err
	}

	datasets, sweeps, evaluator := c.services()
	base, err := datasets.Prepare(ctx)
	if err != nil {
		return err
	}

	result, runErr := sweeps.Run(ctx, app.SweepRequest{Base: base, Plan: plan})
	if err := report.NewReporter(cmd.OutOrStdout(), c.cfg.Output.Format).WriteSweep(result, runErr); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	plotFile := c.cfg.Output.PlotFile
	if opts.plotFile != "" {
		plotFile = opts.plotFile
	}
	if plotFile == "" {
		return nil
	}

	matrix, err := evaluator.Matrix(ctx, result.Final().Table)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Pearson correlations, seed %d", result.Final().Seed)
	if err := c.renderer().Render(ctx, matrix, title, plotFile); err != nil {
		return err
	}
	c.logger.Info("wrote correlation heatmap to %s", plotFile)
	return nil
}

// buildPlan picks, in order: a single pass from --target, a plan file, or the default plan.
func buildPlan(cfg *config.Config, opts *sweepOptions, seedMax int64, planFlag bool) ([]search.Pass, error) {
	if opts.target != "" {
		variant, err := stats.ParseVariant(opts.variant)
		if err != nil {
			return nil, err
		}
		predicate, err := search.ParsePredicate(opts.predicate)
		if err != nil {
			return nil, err
		}
		pass := search.Pass{
			Target:    opts.target,
			Variant:   variant,
			Predicate: predicate,
			MinCount:  opts.minCount,
			SeedMax:   seedMax,
		}
		if err := pass.Validate(); err != nil {
			return nil, err
		}
		return []search.Pass{pass}, nil
	}

	planFile := cfg.Search.PlanFile
	if planFlag {
		planFile = opts.planFile
	}
	if planFile != "" {
		return config.LoadPlan(planFile, seedMax)
	}
	return search.DefaultPlan(seedMax), nil
}

type inspectOptions struct {
	target   string
	seed     int64
	variant  string
	plotFile string
}

func newInspectCmd(c *cli) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inject one fixed seed and print the absolute correlation vector",
		Long: `Inject a single noise column with a fixed seed and print the absolute
value of every entry of its correlation vector. No search is performed.

Example: seedsweep inspect --target partY --seed 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			variant, err := stats.ParseVariant(opts.variant)
			if err != nil {
				return err
			}

			datasets, sweeps, evaluator := c.services()
			base, err := datasets.Prepare(ctx)
			if err != nil {
				return err
			}

			vector, tbl, err := sweeps.Inspect(ctx, base, opts.target, opts.seed, variant)
			if err != nil {
				return err
			}
			if err := report.NewReporter(cmd.OutOrStdout(), c.cfg.Output.Format).WriteInspect(vector, opts.seed); err != nil {
				return err
			}

			if opts.plotFile == "" {
				return nil
			}
			matrix, err := evaluator.Matrix(ctx, tbl)
			if err != nil {
				return err
			}
			return c.renderer().Render(ctx, matrix, fmt.Sprintf("Pearson correlations, seed %d", opts.seed), opts.plotFile)
		},
	}

	cmd.Flags().StringVar(&opts.target, "target", "partY", "Noise column name")
	cmd.Flags().Int64Var(&opts.seed, "seed", 8, "Seed for the noise column")
	cmd.Flags().StringVar(&opts.variant, "variant", "plain", "Correlation variant: plain|significance")
	cmd.Flags().StringVar(&opts.plotFile, "plot", "", "Write a correlation heatmap PNG")
	return cmd
}

type synthOptions struct {
	out  string
	rows int
	seed int64
}

func newSynthCmd(c *cli) *cobra.Command {
	opts := &synthOptions{}

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic brain-size dataset",
		Long: `Write a synthetic dataset shaped like the brain-size study: an index column,
Gender, FSIQ, VIQ, PIQ, Weight, Height and MRI_Count, with "." marking missing cells.
A .xlsx output path writes a workbook (sheet from --sheet) instead of delimited text.

Example: seedsweep synth --out brainsize.csv --rows 40 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genConfig := testkit.DefaultBrainSizeConfig()
			genConfig.Rows = opts.rows
			genConfig.Seed = opts.seed
			generator := testkit.NewBrainSizeGenerator(genConfig)

			if strings.EqualFold(filepath.Ext(opts.out), ".xlsx") {
				records, err := generator.Records()
				if err != nil {
					return err
				}
				if err := excel.WriteWorkbook(opts.out, c.cfg.Data.SheetName, records); err != nil {
					return err
				}
			} else if err := generator.WriteFile(opts.out, c.cfg.Data.Delimiter); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", opts.rows, opts.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "./brainsize.csv", "Output path (.csv or .xlsx)")
	cmd.Flags().IntVar(&opts.rows, "rows", 40, "Number of subjects")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "Generator seed")
	return cmd
}

func newDescribeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Load and clean the dataset, then print a per-column profile",
		Long: `Run the loader and cleaner exactly as sweep does and summarize each column:
inferred type, missing cells and basic statistics. Useful for checking the
missing-value sentinel and numeric column settings before searching.

Example: seedsweep describe --file brainsize.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			datasets, _, _ := c.services()
			base, err := datasets.Prepare(ctx)
			if err != nil {
				return err
			}

			profile, err := c.profiler().ProfileTable(ctx, base)
			if err != nil {
				return err
			}
			return report.NewReporter(cmd.OutOrStdout(), c.cfg.Output.Format).WriteProfile(profile)
		},
	}
}
