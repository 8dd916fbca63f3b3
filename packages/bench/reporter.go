package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Reporter prints benchmark results
type Reporter struct {
	writer  io.Writer
	noColor bool
	verbose bool

	green *color.Color
	red   *color.Color
	cyan  *color.Color
	bold  *color.Color
}

// ReporterOption configures the reporter
type ReporterOption func(*Reporter)

// WithWriter sets the output writer
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.writer = w
	}
}

// WithNoColor disables colored output
func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) {
		r.noColor = noColor
	}
}

// WithVerbose adds the per-file breakdown
func WithVerbose(verbose bool) ReporterOption {
	return func(r *Reporter) {
		r.verbose = verbose
	}
}

// NewReporter creates a new reporter
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		writer: os.Stdout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.noColor {
		color.NoColor = true
	}
	r.green = color.New(color.FgGreen)
	r.red = color.New(color.FgRed)
	r.cyan = color.New(color.FgCyan)
	r.bold = color.New(color.Bold)

	return r
}

// Header prints the run header
func (r *Reporter) Header(version string, files int, config *Config) {
	r.bold.Fprintf(r.writer, "httpdoc bench %s\n\n", version)

	details := []string{fmt.Sprintf("Files: %d", files), fmt.Sprintf("Workers: %d", config.Workers)}
	if config.Duration > 0 {
		details = append(details, fmt.Sprintf("Duration: %s", config.Duration))
	}
	if config.Iterations > 0 {
		details = append(details, fmt.Sprintf("Iterations: %s", formatNumber(config.Iterations)))
	}
	if config.Rate > 0 {
		details = append(details, fmt.Sprintf("Rate: %s/s", formatFloat(config.Rate)))
	}
	fmt.Fprintf(r.writer, "%s\n", strings.Join(details, " | "))
}

// Summary prints the final summary
func (r *Reporter) Summary(summary *Summary) {
	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "PARSE BENCHMARK SUMMARY")
	fmt.Fprintln(r.writer, strings.Repeat("─", 40))

	fmt.Fprintf(r.writer, "Run:        %s\n", summary.RunID)
	fmt.Fprintf(r.writer, "Duration:   %s\n", formatDuration(summary.Duration))
	fmt.Fprintf(r.writer, "Parses:     ")
	r.bold.Fprintf(r.writer, "%s", formatNumber(summary.Parses))
	fmt.Fprintf(r.writer, " (")
	r.cyan.Fprintf(r.writer, "%.1f/s", summary.Throughput)
	fmt.Fprintf(r.writer, ", %.2f MB/s)\n", summary.MBPerSec)

	if summary.Failures > 0 {
		fmt.Fprintf(r.writer, "Failures:   ")
		r.red.Fprintf(r.writer, "%s\n", formatNumber(summary.Failures))
	}

	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "LATENCY")
	fmt.Fprintf(r.writer, "  p50: %-8s | p95: %-8s | p99: %-8s | max: %s\n",
		formatLatency(summary.P50),
		formatLatency(summary.P95),
		formatLatency(summary.P99),
		formatLatency(summary.Max))
	fmt.Fprintf(r.writer, "  min: %-8s | mean: %-7s | stddev: %s\n",
		formatLatency(summary.Min),
		formatLatency(summary.Mean),
		formatLatency(summary.StdDev))

	if r.verbose && len(summary.Files) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "PER-FILE BREAKDOWN")
		for _, fs := range summary.Files {
			fmt.Fprintf(r.writer, "  %s (%d bytes, %d diagnostics):\n", fs.Name, fs.Size, fs.Diagnostics)
			fmt.Fprintf(r.writer, "    Parses: %s | p50: %s | p99: %s | mean: %s\n",
				formatNumber(fs.Parses), formatLatency(fs.P50), formatLatency(fs.P99), formatLatency(fs.Mean))
		}
	}

	if len(summary.Thresholds) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "THRESHOLDS")
		for _, tr := range summary.Thresholds {
			if tr.Passed {
				r.green.Fprintf(r.writer, "  ✓ ")
			} else {
				r.red.Fprintf(r.writer, "  ✗ ")
			}
			fmt.Fprintf(r.writer, "%s %s    (actual: %s)\n", tr.Name, tr.Expected, tr.Actual)
		}

		fmt.Fprintln(r.writer)
		if summary.Passed() {
			r.green.Fprintln(r.writer, "All thresholds passed!")
		} else {
			r.red.Fprintln(r.writer, "Some thresholds failed!")
		}
	}
}

// JSON writes the summary as indented JSON
func (r *Reporter) JSON(summary *Summary) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

// formatLatency picks the largest unit that keeps the value above one
func formatLatency(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1e3)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// formatNumber formats a number with commas
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}

	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	start := len(s) % 3
	if start == 0 {
		start = 3
	}
	result = append(result, s[:start]...)
	for i := start; i < len(s); i += 3 {
		result = append(result, ',')
		result = append(result, s[i:i+3]...)
	}
	return string(result)
}
