package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	scriptOpen  = "--{%"
	scriptClose = "--%}"
)

// ParseDocument parses every top-level entry in source order. A failing entry
// is recorded as a diagnostic and parsing resumes at the next line that
// starts a recognizable entry. For an unclosed block that search begins on
// the line after the block's opener.
func (p *Parser) ParseDocument() (*Document, error) {
	if !validUTF8(p.lex.Input()) {
		if p.file != "" {
			return nil, fmt.Errorf("%s: %w", p.file, ErrInvalidUTF8)
		}
		return nil, ErrInvalidUTF8
	}

	doc := &Document{File: p.file}
	for {
		p.lex.SkipLineBreaks()
		if p.lex.AtEOF() {
			break
		}
		start := p.lex.Offset()
		entry, err := p.parseEntry()
		if err == nil {
			doc.Entries = append(doc.Entries, entry)
			continue
		}

		var perr *ParseError
		if !errors.As(err, &perr) {
			perr = p.errorAt(ErrUnexpectedToken, start, "%v", err)
		}
		failAt := perr.Pos.Offset
		if perr.Kind == ErrUnterminatedBlock {
			// Unclosed blocks report their opener; entries after it are
			// still recoverable.
			failAt = p.lex.NextLineStart(failAt)
		}
		resume := p.resync(start, failAt)
		perr.Span = p.spanTo(start, resume)
		doc.Diagnostics = append(doc.Diagnostics, perr)
		p.lex.Reset(resume)
	}
	return doc, nil
}

func (p *Parser) parseEntry() (Entry, error) {
	start := p.lex.Offset()
	switch {
	case p.atScriptOpen():
		return p.parseScriptBlock()
	case p.lex.HasPrefix("#"):
		return p.parseComment(), nil
	case p.lex.HasPrefix("@"):
		return p.parseDeclaration()
	case p.lex.HasPrefix("{{"):
		v, ok := p.parseVariable()
		if !ok {
			return nil, p.errorAt(ErrUnexpectedToken, start, "malformed variable reference %q", p.lex.Line())
		}
		return v, nil
	}
	if r := p.lex.PeekRune(); unicode.IsLetter(r) {
		return p.parseRequest()
	}
	return nil, p.errorAt(ErrUnexpectedToken, start, "unexpected %q at start of entry", p.lex.Line())
}

func (p *Parser) parseComment() *Comment {
	start := p.lex.Offset()
	line := p.lex.ReadLine()
	return &Comment{
		Text: strings.TrimSpace(strings.TrimPrefix(line, "#")),
		Loc:  p.spanTo(start, p.lex.Offset()),
	}
}

// parseDeclaration matches "@" name [ws] "=" [ws] (number | boolean | string).
// The optional whitespace is only accepted when it is a configured extra.
func (p *Parser) parseDeclaration() (*VariableDeclaration, error) {
	start := p.lex.Offset()
	p.lex.Advance(1)
	name, ok := p.word()
	if !ok {
		return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(), "expected variable name after \"@\", got %q", p.lex.Line())
	}
	if eq := p.lex.Next(); eq.Type != TokenEquals {
		return nil, p.errorAt(ErrUnexpectedToken, eq.Span.Start.Offset, "expected \"=\" after variable %s", name.Value)
	}

	tok := p.lex.Next()
	value := Literal{Raw: tok.Value, Loc: tok.Span}
	switch tok.Type {
	case TokenNumber:
		value.Kind = LiteralNumber
	case TokenBoolean:
		value.Kind = LiteralBoolean
	case TokenString:
		value.Kind = LiteralString
	default:
		return nil, p.errorAt(ErrUnexpectedToken, tok.Span.Start.Offset,
			"variable %s: value must be a number, boolean or quoted string, got %q", name.Value, p.lex.LineAt(tok.Span.Start.Offset))
	}
	if !p.endOfLine() {
		return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(),
			"unexpected %q after value of variable %s", p.lex.Line(), name.Value)
	}
	return &VariableDeclaration{
		Name:  name.Value,
		Value: value,
		Loc:   p.spanTo(start, p.lex.Offset()),
	}, nil
}

func (p *Parser) atScriptOpen() bool {
	line := p.lex.Line()
	return strings.HasPrefix(line, scriptOpen) && strings.TrimSpace(line[len(scriptOpen):]) == ""
}

func (p *Parser) parseScriptBlock() (*ScriptBlock, error) {
	start := p.lex.Offset()
	p.lex.ReadLine()
	if !p.lex.ConsumeLineBreak() {
		return nil, p.errorAt(ErrUnterminatedBlock, start, "unterminated script block: expected %q", scriptClose)
	}
	content, ok := NewScanner(p.lex).ScanBlock(exactLine(scriptClose), p.startsUnambiguousEntry)
	if !ok {
		return nil, p.errorAt(ErrUnterminatedBlock, start, "unterminated script block: expected %q", scriptClose)
	}
	return &ScriptBlock{
		Content: content,
		Loc:     p.spanTo(start, p.lex.Offset()),
	}, nil
}

// resync returns the offset of the first line after the failure that starts
// a recognizable entry, or the end of input. It always moves past start.
func (p *Parser) resync(start, failAt int) int {
	from := failAt
	if from <= start || !p.lex.IsLineStart(from) {
		from = p.lex.NextLineStart(max(from, start))
	}
	input := p.lex.Input()
	for from < len(input) {
		if startsEntry(p.lex.LineAt(from)) {
			return from
		}
		from = p.lex.NextLineStart(from)
	}
	return len(input)
}

// startsEntry reports whether line begins a top-level entry: a method token
// followed by whitespace, "@", "#", "{{" or the script marker.
func startsEntry(line string) bool {
	line = strings.TrimLeft(line, " \t\v")
	for _, prefix := range []string{"#", "@", "{{", scriptOpen} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	method, ok := leadingMethod(line)
	return ok && (IsStandardMethod(method) || IsVendorMethod(method))
}

// startsUnambiguousEntry reports whether a line inside an open block can only
// be the start of a new entry: a standard method and whitespace at column 1,
// or the script marker.
func (p *Parser) startsUnambiguousEntry(line string) bool {
	if strings.HasPrefix(line, scriptOpen) {
		return true
	}
	method, ok := leadingMethod(line)
	return ok && IsStandardMethod(method)
}

// leadingMethod returns the identifier run at the start of line when it is
// followed by horizontal whitespace.
func leadingMethod(line string) (string, bool) {
	end := 0
	for end < len(line) {
		r, width := utf8.DecodeRuneInString(line[end:])
		if !isIdentRune(r) {
			break
		}
		end += width
	}
	if end == 0 || end >= len(line) || !isHorizontalSpace(line[end]) {
		return "", false
	}
	return line[:end], true
}
