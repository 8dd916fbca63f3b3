package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary JSONSummary    `json:"summary"`
	Files   []DocumentView `json:"files"`
	Time    string         `json:"time"`
}

// JSONSummary represents the totals across all files
type JSONSummary struct {
	Files       int `json:"files"`
	Invalid     int `json:"invalid"`
	Entries     int `json:"entries"`
	Requests    int `json:"requests"`
	Diagnostics int `json:"diagnostics"`
}

// JSONFormatter formats parse results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []DocumentView
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]DocumentView, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *FileResult) {
	f.results = append(f.results, NewDocumentView(result))
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual file results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	output := JSONOutput{
		Summary: summarize(f.results),
		Files:   f.results,
		Time:    time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(output)
	f.results = make([]DocumentView, 0)
	return err
}

func summarize(views []DocumentView) JSONSummary {
	summary := JSONSummary{Files: len(views)}
	for _, v := range views {
		if v.Error != "" || len(v.Diagnostics) > 0 {
			summary.Invalid++
		}
		summary.Entries += len(v.Entries)
		summary.Diagnostics += len(v.Diagnostics)
		for _, e := range v.Entries {
			if e.Request != nil {
				summary.Requests++
			}
		}
	}
	return summary
}

// MarshalDocument encodes a single parse result as indented JSON.
func MarshalDocument(result *FileResult) ([]byte, error) {
	return json.MarshalIndent(NewDocumentView(result), "", "  ")
}
