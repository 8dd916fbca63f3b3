package output

import (
	"fmt"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
)

// FileResult is the outcome of parsing one request file.
type FileResult struct {
	File     string
	Source   string
	Document *parser.Document
	Err      error // read failure or invalid UTF-8; Document is nil
}

// Valid reports whether the file parsed without error or diagnostics.
func (r *FileResult) Valid() bool {
	return r.Err == nil && r.Document != nil && !r.Document.HasErrors()
}

// DocumentView is the serializable form of a parsed document
type DocumentView struct {
	File        string           `json:"file" yaml:"file"`
	Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
	Entries     []EntryView      `json:"entries" yaml:"entries"`
	Diagnostics []DiagnosticView `json:"diagnostics" yaml:"diagnostics"`
}

// EntryView represents one top-level entry
type EntryView struct {
	Kind    string       `json:"kind" yaml:"kind"`
	Line    int          `json:"line" yaml:"line"`
	EndLine int          `json:"endLine" yaml:"endLine"`
	Text    string       `json:"text,omitempty" yaml:"text,omitempty"`
	Name    string       `json:"name,omitempty" yaml:"name,omitempty"`
	Value   any          `json:"value,omitempty" yaml:"value,omitempty"`
	Request *RequestView `json:"request,omitempty" yaml:"request,omitempty"`
}

// RequestView represents request details
type RequestView struct {
	Method      string       `json:"method" yaml:"method"`
	Vendor      bool         `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Target      TargetView   `json:"target" yaml:"target"`
	HTTPVersion string       `json:"httpVersion,omitempty" yaml:"httpVersion,omitempty"`
	Headers     []HeaderView `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        *BodyView    `json:"body,omitempty" yaml:"body,omitempty"`
}

// TargetView represents a resolved request target
type TargetView struct {
	Form   string      `json:"form" yaml:"form"`
	Raw    string      `json:"raw" yaml:"raw"`
	Scheme string      `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	User   string      `json:"user,omitempty" yaml:"user,omitempty"`
	Host   string      `json:"host,omitempty" yaml:"host,omitempty"`
	Port   string      `json:"port,omitempty" yaml:"port,omitempty"`
	Base   string      `json:"base,omitempty" yaml:"base,omitempty"`
	Path   string      `json:"path,omitempty" yaml:"path,omitempty"`
	Query  []QueryView `json:"query,omitempty" yaml:"query,omitempty"`
}

type QueryView struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type HeaderView struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Value    string `json:"value" yaml:"value"`
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

type BodyView struct {
	Dialect  string      `json:"dialect" yaml:"dialect"`
	Content  string      `json:"content,omitempty" yaml:"content,omitempty"`
	Path     string      `json:"path,omitempty" yaml:"path,omitempty"`
	Encoding string      `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Fields   []FieldView `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type FieldView struct {
	Name  string `json:"name" yaml:"name"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// DiagnosticView represents a parse diagnostic
type DiagnosticView struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	EndLine int    `json:"endLine" yaml:"endLine"`
}

// NewDocumentView converts a parse result into its serializable form.
func NewDocumentView(result *FileResult) DocumentView {
	view := DocumentView{
		File:        result.File,
		Entries:     make([]EntryView, 0),
		Diagnostics: make([]DiagnosticView, 0),
	}
	if result.Err != nil {
		view.Error = result.Err.Error()
		return view
	}
	if result.Document == nil {
		return view
	}

	for _, e := range result.Document.Entries {
		view.Entries = append(view.Entries, newEntryView(e))
	}
	for _, d := range result.Document.Diagnostics {
		view.Diagnostics = append(view.Diagnostics, DiagnosticView{
			Kind:    d.Kind.String(),
			Message: d.Message,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			EndLine: d.Span.End.Line,
		})
	}
	return view
}

func newEntryView(e parser.Entry) EntryView {
	span := e.Span()
	view := EntryView{
		Kind:    e.EntryKind().String(),
		Line:    span.Start.Line,
		EndLine: span.End.Line,
	}
	switch v := e.(type) {
	case *parser.Comment:
		view.Text = v.Text
	case *parser.VariableDeclaration:
		view.Name = v.Name
		view.Value = v.Value.Value()
	case *parser.ScriptBlock:
		view.Text = v.Content
	case *parser.Variable:
		view.Name = v.Name
	case *parser.Request:
		view.Request = newRequestView(v)
	}
	return view
}

func newRequestView(r *parser.Request) *RequestView {
	view := &RequestView{
		Method:      r.Method.Name,
		Vendor:      r.Method.Vendor,
		Target:      newTargetView(r.Target),
		HTTPVersion: r.HTTPVersion,
	}
	for _, h := range r.Headers {
		hv := HeaderView{
			Name:  h.Name,
			Kind:  h.Value.Kind.String(),
			Value: h.Value.Raw,
		}
		if h.Value.Variable != nil {
			hv.Variable = h.Value.Variable.Name
		}
		view.Headers = append(view.Headers, hv)
	}
	if r.Body != nil {
		view.Body = newBodyView(r.Body)
	}
	return view
}

func newTargetView(t *parser.Target) TargetView {
	if t == nil {
		return TargetView{}
	}
	view := TargetView{
		Form:   t.Form.String(),
		Raw:    t.Raw,
		Scheme: t.Scheme,
	}
	if t.Authority != nil {
		view.User = t.Authority.User
	}
	if t.Host != nil {
		view.Host = t.Host.Name
		view.Port = t.Host.Port
	}
	if t.Base != nil {
		view.Base = t.Base.Name
	}
	if t.Path != nil {
		view.Path = t.Path.Raw
	}
	for _, q := range t.Query {
		view.Query = append(view.Query, QueryView{Key: q.Key, Value: q.Value})
	}
	return view
}

func newBodyView(b *parser.Body) *BodyView {
	view := &BodyView{
		Dialect:  b.Dialect.String(),
		Content:  b.Content,
		Path:     b.Path,
		Encoding: b.Encoding,
	}
	for _, f := range b.Fields {
		view.Fields = append(view.Fields, FieldView{
			Name:  f.Name,
			Kind:  f.Value.Kind.String(),
			Value: f.Value.Raw,
		})
	}
	if len(view.Fields) > 0 {
		view.Content = ""
	}
	return view
}

// EntryLabel returns a one-line description of an entry for listings.
func EntryLabel(e parser.Entry) string {
	switch v := e.(type) {
	case *parser.Request:
		return fmt.Sprintf("%s %s", v.Method.Name, v.Target.Raw)
	case *parser.VariableDeclaration:
		return fmt.Sprintf("@%s = %s", v.Name, v.Value.Raw)
	case *parser.Comment:
		return "# " + v.Text
	case *parser.Variable:
		return v.String()
	case *parser.ScriptBlock:
		return "script block"
	}
	return e.EntryKind().String()
}
