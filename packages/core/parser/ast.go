package parser

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is a half-open byte range [Start, End) of the source.
type Span struct {
	Start Position
	End   Position
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

func (s Span) Overlaps(other Span) bool {
	return s.Start.Offset < other.End.Offset && other.Start.Offset < s.End.Offset
}

// Text returns the source text the span covers.
func (s Span) Text(input string) string {
	if s.End.Offset > len(input) || s.Start.Offset > s.End.Offset {
		return ""
	}
	return input[s.Start.Offset:s.End.Offset]
}

type Document struct {
	File        string
	Entries     []Entry
	Diagnostics []*ParseError
}

func (d *Document) Requests() []*Request {
	var requests []*Request
	for _, e := range d.Entries {
		if r, ok := e.(*Request); ok {
			requests = append(requests, r)
		}
	}
	return requests
}

func (d *Document) Declarations() []*VariableDeclaration {
	var decls []*VariableDeclaration
	for _, e := range d.Entries {
		if v, ok := e.(*VariableDeclaration); ok {
			decls = append(decls, v)
		}
	}
	return decls
}

func (d *Document) HasErrors() bool {
	return len(d.Diagnostics) > 0
}

// EntryAt returns the entry whose span contains offset.
func (d *Document) EntryAt(offset int) Entry {
	for _, e := range d.Entries {
		if e.Span().Contains(offset) {
			return e
		}
	}
	return nil
}

// Entry is one top-level unit of a document.
type Entry interface {
	Span() Span
	EntryKind() EntryKind
	entry()
}

type EntryKind int

const (
	EntryComment EntryKind = iota
	EntryDeclaration
	EntryScript
	EntryVariable
	EntryRequest
)

func (k EntryKind) String() string {
	switch k {
	case EntryComment:
		return "comment"
	case EntryDeclaration:
		return "declaration"
	case EntryScript:
		return "script"
	case EntryVariable:
		return "variable"
	case EntryRequest:
		return "request"
	default:
		return "unknown"
	}
}

type Comment struct {
	Text string
	Loc  Span
}

type VariableDeclaration struct {
	Name  string
	Value Literal
	Loc   Span
}

// ScriptBlock holds the verbatim text between the script markers.
type ScriptBlock struct {
	Content string
	Loc     Span
}

// Variable is a {{ name }} interpolation reference.
type Variable struct {
	Name string
	Loc  Span
}

func (v *Variable) String() string {
	return "{{" + v.Name + "}}"
}

func (c *Comment) Span() Span             { return c.Loc }
func (v *VariableDeclaration) Span() Span { return v.Loc }
func (s *ScriptBlock) Span() Span         { return s.Loc }
func (v *Variable) Span() Span            { return v.Loc }
func (r *Request) Span() Span             { return r.Loc }

func (*Comment) EntryKind() EntryKind             { return EntryComment }
func (*VariableDeclaration) EntryKind() EntryKind { return EntryDeclaration }
func (*ScriptBlock) EntryKind() EntryKind         { return EntryScript }
func (*Variable) EntryKind() EntryKind            { return EntryVariable }
func (*Request) EntryKind() EntryKind             { return EntryRequest }

func (*Comment) entry()             {}
func (*VariableDeclaration) entry() {}
func (*ScriptBlock) entry()         {}
func (*Variable) entry()            {}
func (*Request) entry()             {}

type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralBoolean
	LiteralString
	LiteralIdentifier
	LiteralVariable
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralBoolean:
		return "boolean"
	case LiteralString:
		return "string"
	case LiteralIdentifier:
		return "identifier"
	case LiteralVariable:
		return "variable"
	default:
		return "unknown"
	}
}

type Literal struct {
	Kind     LiteralKind
	Raw      string
	Variable *Variable
	Loc      Span
}

// Value returns the decoded literal: int64 for numbers that fit, bool,
// the unquoted string, or the raw text otherwise.
func (l Literal) Value() any {
	switch l.Kind {
	case LiteralNumber:
		if n, err := strconv.ParseInt(l.Raw, 10, 64); err == nil {
			return n
		}
		return l.Raw
	case LiteralBoolean:
		return l.Raw == "true"
	case LiteralString:
		return strings.TrimSuffix(strings.TrimPrefix(l.Raw, `"`), `"`)
	default:
		return l.Raw
	}
}

type Request struct {
	Method      Method
	Target      *Target
	HTTPVersion string
	Headers     []*Header
	Body        *Body
	Loc         Span
}

// Header returns the first header with the given name, compared case-insensitively.
func (r *Request) Header(name string) *Header {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h
		}
	}
	return nil
}

type Method struct {
	Name   string
	Vendor bool
	Loc    Span
}

type TargetForm int

const (
	TargetPath TargetForm = iota
	TargetAbsolute
	TargetVariable
)

func (f TargetForm) String() string {
	switch f {
	case TargetPath:
		return "path"
	case TargetAbsolute:
		return "absolute"
	case TargetVariable:
		return "variable"
	default:
		return "unknown"
	}
}

type Target struct {
	Form      TargetForm
	Raw       string
	Scheme    string
	Authority *Authority
	Base      *Variable
	Host      *Host
	Path      *Path
	Query     []*QueryParam
	Loc       Span
}

type Authority struct {
	User     string
	Password string
	Loc      Span
}

type Host struct {
	Name string
	Port string
	Loc  Span
}

type Path struct {
	Raw      string
	Segments []*PathSegment
	Loc      Span
}

// PathSegment is either literal text ("/", "/users") or a variable.
type PathSegment struct {
	Text     string
	Variable *Variable
	Loc      Span
}

type QueryParam struct {
	Key   string
	Value string
	Loc   Span
}

type Header struct {
	Name  string
	Value HeaderValue
	Loc   Span
}

type HeaderValueKind int

const (
	HeaderValueVariable HeaderValueKind = iota
	HeaderValueRaw
	HeaderValueMixed
)

func (k HeaderValueKind) String() string {
	switch k {
	case HeaderValueVariable:
		return "variable"
	case HeaderValueRaw:
		return "raw"
	case HeaderValueMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

type HeaderValue struct {
	Kind     HeaderValueKind
	Raw      string
	Prefix   string
	Variable *Variable
	URL      *HostURL
	Loc      Span
}

// HostURL is the scheme/authority/host shape a raw header value may take.
type HostURL struct {
	Scheme    string
	Authority *Authority
	Host      *Host
}

type BodyDialect int

const (
	BodyFormData BodyDialect = iota
	BodyExternal
	BodyXML
	BodyJSON
	BodyGraphQL
	BodyParams
)

func (d BodyDialect) String() string {
	switch d {
	case BodyFormData:
		return "form"
	case BodyExternal:
		return "external"
	case BodyXML:
		return "xml"
	case BodyJSON:
		return "json"
	case BodyGraphQL:
		return "graphql"
	case BodyParams:
		return "params"
	default:
		return "unknown"
	}
}

// Body is a request body. Raw covers opener through terminator; Content is
// the interior only.
type Body struct {
	Dialect  BodyDialect
	Raw      string
	Content  string
	Path     string
	Encoding string
	Fields   []*FormField
	Loc      Span
}

type FormField struct {
	Name  string
	Value Literal
	Loc   Span
}

type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrUnterminatedBlock
	ErrMalformedTarget
	ErrMalformedHeader
	ErrInvalidMethod
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "UnexpectedToken"
	case ErrUnterminatedBlock:
		return "UnterminatedBlock"
	case ErrMalformedTarget:
		return "MalformedTarget"
	case ErrMalformedHeader:
		return "MalformedHeader"
	case ErrInvalidMethod:
		return "InvalidMethod"
	default:
		return "Unknown"
	}
}

// ParseError is an entry-level diagnostic. Pos is where the failure was
// detected; Span is the source range skipped while recovering.
type ParseError struct {
	File    string
	Kind    ErrorKind
	Message string
	Pos     Position
	Span    Span
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Pos.Line, e.Kind, e.Message)
}
