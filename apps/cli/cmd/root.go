package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	noColorFlag bool
	verboseFlag bool
	lenientFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "httpdoc",
	Short: "Parse and check HTTP request files.",
	Long: `httpdoc parses .http request files into a typed document model and
reports malformed entries with their source location. Requests, variable
declarations, comments and script blocks are recognized; a broken entry
never hides the entries that follow it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeOf(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("HTTPDOC_CONFIG", ""), "Path to config file (env: HTTPDOC_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("HTTPDOC_NO_COLOR", false), "Disable colored output (env: HTTPDOC_NO_COLOR)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HTTPDOC_VERBOSE", false), "List every entry and print parser warnings (env: HTTPDOC_VERBOSE)")
	rootCmd.PersistentFlags().BoolVar(&lenientFlag, "lenient-headers", getEnvBool("HTTPDOC_LENIENT_HEADERS", false), "Accept unrecognized header values as raw text (env: HTTPDOC_LENIENT_HEADERS)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig reads the config file and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}

	override := &config.Config{}
	flags := cmd.Flags()
	if flags.Changed("no-color") || noColorFlag {
		override.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("verbose") || verboseFlag {
		override.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("lenient-headers") || lenientFlag {
		override.LenientHeaders = config.BoolPtr(lenientFlag)
	}
	return cfg.Merge(override), nil
}
