package output

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats parse results as a YAML list of documents
type YAMLFormatter struct {
	writer  io.Writer
	results []DocumentView
}

type YAMLOption func(*YAMLFormatter)

func NewYAMLFormatter(opts ...YAMLOption) *YAMLFormatter {
	f := &YAMLFormatter{
		writer:  os.Stdout,
		results: make([]DocumentView, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func YAMLWithWriter(w io.Writer) YAMLOption {
	return func(f *YAMLFormatter) {
		f.writer = w
	}
}

func (f *YAMLFormatter) FormatResult(result *FileResult) {
	f.results = append(f.results, NewDocumentView(result))
}

func (f *YAMLFormatter) FormatError(err error) {}

func (f *YAMLFormatter) FormatHeader(version string) {}

// Flush writes the accumulated documents
func (f *YAMLFormatter) Flush() error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	err := encoder.Encode(f.results)
	if closeErr := encoder.Close(); err == nil {
		err = closeErr
	}
	f.results = make([]DocumentView, 0)
	return err
}
