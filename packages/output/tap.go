package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TAPFormatter reports one TAP test point per file, with diagnostics in the
// YAML block of failing points
type TAPFormatter struct {
	writer  io.Writer
	results []tapResult
}

type tapResult struct {
	name        string
	err         string
	diagnostics []tapDiagnostic
}

type tapDiagnostic struct {
	Kind    string `yaml:"kind"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *FileResult) {
	tr := tapResult{name: result.File}
	if result.Err != nil {
		tr.err = result.Err.Error()
	} else if result.Document != nil {
		for _, d := range result.Document.Diagnostics {
			tr.diagnostics = append(tr.diagnostics, tapDiagnostic{
				Kind:    d.Kind.String(),
				Line:    d.Pos.Line,
				Column:  d.Pos.Column,
				Message: d.Message,
			})
		}
	}
	f.results = append(f.results, tr)
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush() error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(f.results))

	for i, r := range f.results {
		number := i + 1
		if r.err == "" && len(r.diagnostics) == 0 {
			fmt.Fprintf(f.writer, "ok %d - %s\n", number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", number, r.name)
		block := map[string]any{"severity": "error"}
		if r.err != "" {
			block["message"] = r.err
		} else {
			block["diagnostics"] = r.diagnostics
		}
		if err := f.writeYAMLBlock(block); err != nil {
			return err
		}
	}

	f.results = make([]tapResult, 0)
	return nil
}

func (f *TAPFormatter) writeYAMLBlock(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(f.writer, "  ---\n")
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Fprintf(f.writer, "  %s\n", line)
	}
	fmt.Fprintf(f.writer, "  ...\n")
	return nil
}
