package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	valid   int
	invalid int
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *FileResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if result.Err != nil {
		f.invalid++
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), result.File, red(fmt.Sprintf("(%v)", result.Err)))
		return
	}

	doc := result.Document
	if result.Valid() {
		f.valid++
		fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), result.File,
			cyan(fmt.Sprintf("(%d entries, %d requests)", len(doc.Entries), len(doc.Requests()))))
	} else {
		f.invalid++
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), result.File,
			red(fmt.Sprintf("(%d diagnostics)", len(doc.Diagnostics))))
	}

	if f.verbose {
		for _, e := range doc.Entries {
			span := e.Span()
			fmt.Fprintf(f.writer, "    %-11s %s %s\n", e.EntryKind(), EntryLabel(e),
				cyan(fmt.Sprintf("(line %d)", span.Start.Line)))
		}
	}

	if len(doc.Diagnostics) > 0 {
		reporter := NewDiagnosticReporter(result.File, result.Source)
		fmt.Fprintln(f.writer)
		for _, d := range doc.Diagnostics {
			fmt.Fprintln(f.writer, reporter.Format(d))
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatWarning prints a non-fatal parser notice.
func (f *ConsoleFormatter) FormatWarning(format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n\n", bold("httpdoc"), version)
}

// Flush prints the file totals and resets them.
func (f *ConsoleFormatter) Flush() error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\nFiles: ")
	if f.valid > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d valid", f.valid)))
	}
	if f.invalid > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d invalid", f.invalid)))
	}
	fmt.Fprintf(f.writer, "%d total\n", f.valid+f.invalid)
	f.valid, f.invalid = 0, 0
	return nil
}

// DiagnosticReporter renders parse diagnostics against their source with a
// line-number gutter and a caret marker.
type DiagnosticReporter struct {
	filename string
	lines    []string
}

func NewDiagnosticReporter(filename, source string) *DiagnosticReporter {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return &DiagnosticReporter{
		filename: filename,
		lines:    lines,
	}
}

// Format renders one diagnostic:
//
//	error[MalformedHeader]: message
//	 --> file:line:col
//	  │
//	2 │ Accept: text/html, */*
//	  │         ^^^^^^^^^^^^^^
func (r *DiagnosticReporter) Format(d *parser.ParseError) string {
	var b strings.Builder

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(&b, "%s: %s\n", red(fmt.Sprintf("error[%s]", d.Kind)), bold(d.Message))

	line := d.Pos.Line
	width := len(fmt.Sprintf("%d", line+1))
	indent := strings.Repeat(" ", width)

	name := r.filename
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), name, line, d.Pos.Column)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

	if line > 1 && line-2 < len(r.lines) && strings.TrimSpace(r.lines[line-2]) != "" {
		fmt.Fprintf(&b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), r.lines[line-2])
	}
	if line > 0 && line <= len(r.lines) {
		content := r.lines[line-1]
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), content)
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), red(marker(content, d.Pos.Column)))
	}

	return b.String()
}

// marker underlines from column to the end of the line's text, or a single
// caret when the column is past it.
func marker(content string, column int) string {
	if column < 1 {
		column = 1
	}
	pad := make([]byte, 0, column)
	for i := 0; i < column-1; i++ {
		if i < len(content) && content[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	length := len(strings.TrimRight(content, " \t")) - (column - 1)
	if length < 1 {
		length = 1
	}
	return string(pad) + strings.Repeat("^", length)
}
