package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gomeasure/app"
	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal"
	"gomeasure/internal/config"
	"gomeasure/internal/errors"
	"gomeasure/internal/profiling"
)

func main() {
	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gomeasure",
		Short: "Statistical analysis of recorded benchmark runs",
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newCompareCmd(),
		newSuiteCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFile is the on-disk format for recorded benchmark runs.
type runFile struct {
	Runs []recordedRun `json:"runs"`
}

type recordedRun struct {
	Name     string   `json:"name"`
	TimesNS  []uint64 `json:"times_ns"`
	BeforeKB []uint64 `json:"before_kb,omitempty"`
	AfterKB  []uint64 `json:"after_kb,omitempty"`
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [runs-file]",
		Short: "Print the descriptive report for every run in the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := buildService()
			if err != nil {
				return err
			}
			groups, err := loadRuns(args[0], cfg)
			if err != nil {
				return err
			}
			for _, g := range groups {
				summary, err := svc.Summary(cmd.Context(), g)
				if err != nil {
					return errors.Wrapf(err, "summary of %s", g.Name())
				}
				printSummary(summary)
			}
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [runs-file] [name-a] [name-b]",
		Short: "Welch's t-test between two named runs",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := buildService()
			if err != nil {
				return err
			}
			groups, err := loadRuns(args[0], cfg)
			if err != nil {
				return err
			}
			a, err := findRun(groups, args[1])
			if err != nil {
				return err
			}
			b, err := findRun(groups, args[2])
			if err != nil {
				return err
			}

			result, err := svc.Compare(cmd.Context(), a, b)
			if err != nil {
				return errors.Wrap(err, "comparison failed")
			}
			fmt.Printf("%s vs %s\n", a.Name(), b.Name())
			fmt.Printf("  speedup:     %.4fx\n", result.Speedup)
			fmt.Printf("  difference:  %.1f ns\n", result.Difference)
			fmt.Printf("  p-value:     %.6f\n", result.PValue)
			fmt.Printf("  significant: %v\n", result.Significant)
			return nil
		},
	}
}

func newSuiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suite [runs-file]",
		Short: "Full suite analysis with significance testing across all runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := buildService()
			if err != nil {
				return err
			}
			groups, err := loadRuns(args[0], cfg)
			if err != nil {
				return err
			}

			report, err := svc.SuiteReport(cmd.Context(), groups)
			if err != nil {
				return errors.Wrap(err, "suite analysis failed")
			}
			for _, s := range report.Summaries {
				printSummary(s)
			}
			if len(report.Pairwise) > 0 {
				fmt.Println("pairwise significance (Holm-adjusted):")
				for _, c := range report.Pairwise {
					marker := " "
					if c.Significant {
						marker = "*"
					}
					fmt.Printf("  %s %s vs %s: p=%.6f adj=%.6f\n", marker, c.A, c.B, c.PValue, c.PAdjusted)
				}
			}
			for _, c := range report.Clusters {
				fmt.Printf("cluster %d: %v mean=%.1fns n=%d\n", c.ID, c.Members, c.Mean, c.Count)
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [runs-file] [name]",
		Short: "Distribution, trend, and memory profile for one run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			groups, err := loadRuns(args[0], cfg)
			if err != nil {
				return err
			}
			g, err := findRun(groups, args[1])
			if err != nil {
				return err
			}

			dist, err := profiling.Distribution(g, cfg.Profiling.HistogramBins)
			if err != nil {
				return errors.Wrap(err, "distribution failed")
			}
			fmt.Printf("%s distribution (skew %.3f, kurtosis %.3f):\n", g.Name(), dist.Skewness, dist.Kurtosis)
			for i, freq := range dist.Frequencies {
				fmt.Printf("  [%.0f, %.0f): %d\n", dist.BinEdges[i], dist.BinEdges[i+1], freq)
			}

			if cfg.Profiling.TrendEnabled {
				trend := profiling.Trend(g)
				fmt.Printf("trend: slope %.3f ns/iter, correlation %.3f, stable %v\n",
					trend.Slope, trend.Correlation, trend.Stable)
			}

			mem, err := profiling.Memory(g)
			if err != nil {
				return errors.Wrap(err, "memory profile failed")
			}
			fmt.Printf("memory: %.1f KB/op, peak %d KB, gc impact %.3f\n",
				mem.AllocationRate, mem.PeakKB, mem.GCImpact)
			return nil
		},
	}
}

func buildService() (*app.AnalysisService, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return app.NewAnalysisService(logger, cfg.Analysis.Alpha), cfg, nil
}

func loadRuns(path string, cfg *config.Config) ([]*sample.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}

	var file runFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(file.Runs) == 0 {
		return nil, errors.InvalidInput("runs file contains no runs")
	}

	groups := make([]*sample.Aggregate, 0, len(file.Runs))
	for _, run := range file.Runs {
		agg, err := buildAggregate(run, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "run %s", run.Name)
		}
		groups = append(groups, agg)
	}
	return groups, nil
}

func buildAggregate(run recordedRun, cfg *config.Config) (*sample.Aggregate, error) {
	if len(run.TimesNS) == 0 {
		return nil, errors.InvalidInput("run has no timings")
	}
	if len(run.BeforeKB) > 0 && len(run.BeforeKB) != len(run.TimesNS) {
		return nil, errors.InvalidInput("before_kb length does not match times_ns")
	}
	if len(run.AfterKB) > 0 && len(run.AfterKB) != len(run.TimesNS) {
		return nil, errors.InvalidInput("after_kb length does not match times_ns")
	}

	agg, err := sample.New(len(run.TimesNS), cfg.SampleConfig(run.Name))
	if err != nil {
		return nil, err
	}
	for i, t := range run.TimesNS {
		var before, after uint64
		if len(run.BeforeKB) > 0 {
			before = run.BeforeKB[i]
		}
		if len(run.AfterKB) > 0 {
			after = run.AfterKB[i]
		}
		if err := agg.Append(t, before, after); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

func findRun(groups []*sample.Aggregate, name string) (*sample.Aggregate, error) {
	for _, g := range groups {
		if g.Name() == name {
			return g, nil
		}
	}
	return nil, errors.InvalidInput("no run named " + name)
}

func printSummary(s stats.Summary) {
	fmt.Printf("%s (n=%d, quality %s %.0f/100)\n", s.Name, s.SampleCount, s.Quality, s.QualityScore)
	fmt.Printf("  mean %.1fns  stddev %.1f  min %.0f  max %.0f\n", s.Mean, s.StdDev, s.Min, s.Max)
	fmt.Printf("  p50 %.1f  p90 %.1f  p99 %.1f  iqr %.1f\n",
		s.Percentiles.P50, s.Percentiles.P90, s.Percentiles.P99, s.IQR)
	fmt.Printf("  throughput %.0f ops/sec", s.Throughput)
	if s.AllocatedKBPerOp > 0 {
		fmt.Printf("  alloc %.1f KB/op", s.AllocatedKBPerOp)
	}
	fmt.Println()

	ci := s.Interval
	fmt.Printf("  %.0f%% CI [%.1f, %.1f] rciw %.2f%% (%s)", ci.Level, ci.Lower, ci.Upper, ci.RCIW, ci.Quality)
	if !ci.Sufficient() {
		fmt.Printf("  -> resample to %d", ci.ResampleSize)
	}
	fmt.Println()

	if !math.IsNaN(s.OutlierPercent) {
		fmt.Printf("  outliers: %d (%.1f%%)\n", s.OutlierCount, s.OutlierPercent)
	}
}
