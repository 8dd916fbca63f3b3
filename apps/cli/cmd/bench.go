package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpdoc/packages/bench"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench <file|directory>...",
	Short: "Measure parser throughput and latency",
	Long: `Parse request files repeatedly and report latency percentiles and throughput.

The run stops after --duration or --iterations, whichever comes first.
Thresholds fail the command when they are not met.

Examples:
  httpdoc bench api.http
  httpdoc bench ./requests/ -d 10s --workers 4
  httpdoc bench api.http -n 10000 --threshold "p99<1ms,throughput>5000"
  httpdoc bench api.http --rate 100 -o json`,
	Args: minimumArgs(1),
	RunE: benchCommand,
}

var (
	benchDurationFlag   time.Duration
	benchIterationsFlag int64
	benchWorkersFlag    int
	benchRateFlag       float64
	benchThresholdFlag  string
	benchOutputFlag     string
)

func init() {
	benchCmd.Flags().DurationVarP(&benchDurationFlag, "duration", "d", 5*time.Second, "Run duration, 0 to rely on --iterations")
	benchCmd.Flags().Int64VarP(&benchIterationsFlag, "iterations", "n", 0, "Total number of parses, 0 for no limit")
	benchCmd.Flags().IntVar(&benchWorkersFlag, "workers", getEnvInt("HTTPDOC_BENCH_WORKERS", 1), "Concurrent parsing goroutines (env: HTTPDOC_BENCH_WORKERS)")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Parses per second across all workers, 0 for unpaced")
	benchCmd.Flags().StringVar(&benchThresholdFlag, "threshold", "", "Pass/fail thresholds, e.g. \"p95<500us,throughput>1000\"")
	benchCmd.Flags().StringVarP(&benchOutputFlag, "output", "o", "console", "Output format: console, json")
	_ = benchCmd.RegisterFlagCompletionFunc("output", completeValues("console", "json"))

	rootCmd.AddCommand(benchCmd)
}

func benchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format := strings.ToLower(benchOutputFlag)
	if format != "console" && format != "json" {
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", benchOutputFlag))
	}

	thresholds, err := bench.ParseThresholds(benchThresholdFlag)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	config := &bench.Config{
		Duration:   benchDurationFlag,
		Iterations: benchIterationsFlag,
		Workers:    benchWorkersFlag,
		Rate:       benchRateFlag,
		Thresholds: thresholds,
	}
	if err := config.Validate(); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}
	sources, err := bench.LoadSources(files)
	if err != nil {
		return err
	}

	opts, err := cfg.ParserOptions()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	runner, err := bench.NewRunner(config, sources, bench.WithParserOptions(opts...))
	if err != nil {
		return err
	}

	reporter := bench.NewReporter(
		bench.WithWriter(cmd.OutOrStdout()),
		bench.WithNoColor(cfg.GetNoColor()),
		bench.WithVerbose(cfg.GetVerbose()),
	)
	if format == "console" {
		reporter.Header(version, len(sources), config)
	}

	summary := runner.Run(cmd.Context())

	if format == "json" {
		if err := reporter.JSON(summary); err != nil {
			return err
		}
	} else {
		reporter.Summary(summary)
	}

	if !summary.Passed() {
		return fmt.Errorf("thresholds not met")
	}
	return nil
}
