package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/config"
	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpdoc/packages/output"
	"github.com/spf13/cobra"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *output.FileResult)
	FormatError(err error)
	FormatHeader(version string)
	Flush() error
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// minimumArgs reports missing arguments as a usage error.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		return nil
	}
}

// collectFiles expands directories into the request files they contain.
// Explicit file arguments are kept whatever their extension.
func collectFiles(args []string, cfg *config.Config) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && cfg.IsRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return nil, withExitCode(ExitUsageError,
			fmt.Errorf("no request files (%s) found", strings.Join(cfg.Extensions, ", ")))
	}
	return files, nil
}

// parseFile reads and parses one file with the configured parser options.
// Warnings go to warn when it is not nil.
func parseFile(path string, cfg *config.Config, warn parser.WarnFunc) *output.FileResult {
	result := &output.FileResult{File: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Source = string(content)

	opts, err := cfg.ParserOptions()
	if err != nil {
		result.Err = err
		return result
	}
	if warn != nil {
		opts = append(opts, parser.WithWarnFunc(warn))
	}

	result.Document, result.Err = parser.Parse(result.Source, path, opts...)
	return result
}

// newFormatter builds the formatter for an output format name.
func newFormatter(format string, w io.Writer, cfg *config.Config) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), nil
	case "yaml":
		return output.NewYAMLFormatter(output.YAMLWithWriter(w)), nil
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w)), nil
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w)), nil
	case "", "console":
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		), nil
	}
	return nil, withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", format))
}

// errDiagnostics marks a run where at least one file failed to parse cleanly.
var errDiagnostics = errors.New("validation failed")
