package parser

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned before any entry is produced when the input is
// not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// WarnFunc receives non-fatal notices such as vendor-specific methods.
type WarnFunc func(format string, args ...any)

type Options struct {
	Extras         Extras
	LenientHeaders bool
	Warn           WarnFunc
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{Extras: DefaultExtras}
}

// WithExtras sets which tokens are skipped between structural tokens.
func WithExtras(e Extras) Option {
	return func(o *Options) {
		o.Extras = e
	}
}

// WithLenientHeaders accepts any header value text as a raw value when none
// of the header value forms match.
func WithLenientHeaders(lenient bool) Option {
	return func(o *Options) {
		o.LenientHeaders = lenient
	}
}

func WithWarnFunc(fn WarnFunc) Option {
	return func(o *Options) {
		o.Warn = fn
	}
}

type Parser struct {
	lex  *Lexer
	file string
	opts Options
}

func NewParser(input string, opts ...Option) *Parser {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{
		lex:  NewLexer(input, LexerConfig{Extras: options.Extras}),
		opts: options,
	}
}

func ParseFile(path string, opts ...Option) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path, opts...)
}

// Parse parses a request file. Entry failures are reported in
// Document.Diagnostics; the returned error is only set for invalid input.
func Parse(input, filename string, opts ...Option) (*Document, error) {
	p := NewParser(input, opts...)
	p.file = filename
	return p.ParseDocument()
}

func (p *Parser) warn(offset int, format string, args ...any) {
	if p.opts.Warn == nil {
		return
	}
	pos := p.lex.PositionAt(offset)
	msg := fmt.Sprintf(format, args...)
	if p.file != "" {
		p.opts.Warn("%s:%d:%d: %s", p.file, pos.Line, pos.Column, msg)
		return
	}
	p.opts.Warn("line %d: %s", pos.Line, msg)
}

func (p *Parser) errorAt(kind ErrorKind, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		File:    p.file,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     p.lex.PositionAt(offset),
	}
}

func validUTF8(input string) bool {
	return utf8.ValidString(input)
}
