package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/config"
	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpdoc/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Parse request files and report diagnostics",
	Long: `Parse request files and report every malformed entry with its location.

Directories are searched recursively for files with a configured extension.
The command exits with status 2 when any file has diagnostics.

Examples:
  httpdoc validate api.http
  httpdoc validate ./requests/
  httpdoc validate ./requests/ -o junit --output-file report.xml
  httpdoc validate api.http --watch`,
	Args: minimumArgs(1),
	RunE: validateCommand,
}

const (
	// WatchDebounceDelay is the default debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
	debounceFlag   int
)

func init() {
	validateCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HTTPDOC_OUTPUT", ""), "Output format: console, json, yaml, junit, tap (env: HTTPDOC_OUTPUT)")
	_ = validateCmd.RegisterFlagCompletionFunc("output", completeValues(config.OutputFormats...))
	validateCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write the report to a file instead of stdout")
	validateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and validate again")
	validateCmd.Flags().IntVar(&debounceFlag, "debounce", getEnvInt("HTTPDOC_WATCH_DEBOUNCE", int(WatchDebounceDelay/time.Millisecond)), "Watch debounce delay in milliseconds (env: HTTPDOC_WATCH_DEBOUNCE)")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format := cfg.Output
	if outputFlag != "" {
		format = outputFlag
	}
	// Reject a bad format before touching any files.
	if _, err := newFormatter(format, io.Discard, cfg); err != nil {
		return err
	}

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}

	var warn parser.WarnFunc
	if cfg.GetVerbose() {
		notices := output.NewConsoleFormatter(
			output.WithWriter(cmd.ErrOrStderr()),
			output.WithNoColor(cfg.GetNoColor()),
		)
		warn = notices.FormatWarning
	}

	failed, err := runValidation(cmd, files, format, cfg, warn)
	if err != nil {
		return err
	}

	if !watchFlag {
		if failed {
			return withExitCode(ExitParseError, errDiagnostics)
		}
		return nil
	}

	return watchFiles(cmd, args, cfg, func() {
		// Pick up files created since the last run.
		if latest, err := collectFiles(args, cfg); err == nil {
			files = latest
		}
		if _, err := runValidation(cmd, files, format, cfg, warn); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

// runValidation parses every file into a fresh formatter and reports
// whether any of them failed.
func runValidation(cmd *cobra.Command, files []string, format string, cfg *config.Config, warn parser.WarnFunc) (bool, error) {
	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return false, err
	}
	defer closeFn()

	formatter, err := newFormatter(format, w, cfg)
	if err != nil {
		return false, err
	}
	formatter.FormatHeader(version)

	failed := false
	for _, file := range files {
		result := parseFile(file, cfg, warn)
		if !result.Valid() {
			failed = true
		}
		formatter.FormatResult(result)
	}

	if err := formatter.Flush(); err != nil {
		return failed, fmt.Errorf("failed to write report: %w", err)
	}
	return failed, nil
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if outputFileFlag == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(outputFileFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// watchFiles calls rerun after request files under the watched paths change,
// until the process is interrupted.
func watchFiles(cmd *cobra.Command, args []string, cfg *config.Config, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			dir := filepath.Dir(arg)
			if !watchedDirs[dir] {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("failed to watch %s: %w", dir, err)
				}
				watchedDirs[dir] = true
			}
			continue
		}
		_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !watchedDirs[path] {
				_ = watcher.Add(path)
				watchedDirs[path] = true
			}
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	delay := time.Duration(debounceFlag) * time.Millisecond
	changed := make(chan string, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !cfg.IsRequestFile(event.Name) {
				continue
			}
			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(delay, func() {
				select {
				case changed <- name:
				default:
				}
			})

		case name := <-changed:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\n\n", name)
			rerun()
			fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
