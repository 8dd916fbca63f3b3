package parser

import "strings"

// parseHeaders reads header lines until the first line that is not a header.
// Blank lines and skippable comment lines are only consumed when a header
// follows them, so trailing comments stay top-level entries.
func (p *Parser) parseHeaders() ([]*Header, error) {
	var headers []*Header
	for {
		mark := p.lex.Offset()
		p.skipHeaderSeparators()
		if !p.atHeaderStart() {
			p.lex.Reset(mark)
			return headers, nil
		}
		header, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
	}
}

func (p *Parser) skipHeaderSeparators() {
	for {
		p.lex.SkipLineBreaks()
		if !p.lex.Config().Extras.Has(ExtraComments) || p.lex.PeekRaw().Type != TokenComment {
			return
		}
		p.lex.ReadLine()
	}
}

// atHeaderStart reports whether the cursor is at "name [ws] :".
func (p *Parser) atHeaderStart() bool {
	start := p.lex.Offset()
	defer p.lex.Reset(start)
	if _, ok := p.word(); !ok {
		return false
	}
	p.lex.SkipExtras()
	return p.lex.HasPrefix(":")
}

func (p *Parser) parseHeader() (*Header, error) {
	start := p.lex.Offset()
	name, _ := p.word()
	p.lex.SkipExtras()
	p.lex.Advance(1) // ":"
	p.lex.SkipHorizontal()

	valueStart := p.lex.Offset()
	value, ok := choose[*HeaderValue](p.lex,
		p.variableHeaderValue,
		p.rawHeaderValue,
		p.mixedHeaderValue,
	)
	if !ok {
		if !p.opts.LenientHeaders {
			return nil, p.errorAt(ErrMalformedHeader, valueStart,
				"header %q: value %q matches no header value form", name.Value, p.lex.Line())
		}
		p.warn(valueStart, "header %q: accepting value %q leniently", name.Value, p.lex.Line())
		value = p.lenientHeaderValue()
	}
	value.Loc = p.lex.SpanOf(valueStart, valueStart+len(value.Raw))

	return &Header{
		Name:  name.Value,
		Value: *value,
		Loc:   p.spanTo(start, p.lex.Offset()),
	}, nil
}

func (p *Parser) variableHeaderValue() (*HeaderValue, bool) {
	start := p.lex.Offset()
	v, ok := p.parseVariable()
	if !ok {
		return nil, false
	}
	raw := p.lex.Input()[start:p.lex.Offset()]
	if !p.endOfLine() {
		return nil, false
	}
	return &HeaderValue{Kind: HeaderValueVariable, Raw: raw, Variable: v}, true
}

// rawHeaderValue matches a run of [A-Za-z0-9_-/] and horizontal whitespace,
// or a host URL, either one owning its line break.
func (p *Parser) rawHeaderValue() (*HeaderValue, bool) {
	return choose[*HeaderValue](p.lex, p.rawLineValue, p.hostURLValue)
}

func (p *Parser) rawLineValue() (*HeaderValue, bool) {
	start := p.lex.Offset()
	for !p.lex.AtEOF() {
		ch := p.lex.Input()[p.lex.Offset()]
		if !isRawValueByte(ch) && !isHorizontalSpace(ch) {
			break
		}
		p.lex.Advance(1)
	}
	raw := strings.TrimRight(p.lex.Input()[start:p.lex.Offset()], " \t\v")
	if raw == "" || !p.endOfLine() {
		return nil, false
	}
	return &HeaderValue{Kind: HeaderValueRaw, Raw: raw}, true
}

func (p *Parser) hostURLValue() (*HeaderValue, bool) {
	start := p.lex.Offset()
	url, ok := p.parseHostURL()
	if !ok {
		return nil, false
	}
	raw := p.lex.Input()[start:p.lex.Offset()]
	if !p.endOfLine() {
		return nil, false
	}
	return &HeaderValue{Kind: HeaderValueRaw, Raw: raw, URL: url}, true
}

// mixedHeaderValue matches a literal prefix, whitespace, then a variable.
func (p *Parser) mixedHeaderValue() (*HeaderValue, bool) {
	start := p.lex.Offset()
	for !p.lex.AtEOF() && isRawValueByte(p.lex.Input()[p.lex.Offset()]) {
		p.lex.Advance(1)
	}
	prefix := p.lex.Input()[start:p.lex.Offset()]
	if prefix == "" || !p.lex.SkipHorizontal() {
		return nil, false
	}
	v, ok := p.parseVariable()
	if !ok {
		return nil, false
	}
	raw := p.lex.Input()[start:p.lex.Offset()]
	if !p.endOfLine() {
		return nil, false
	}
	return &HeaderValue{Kind: HeaderValueMixed, Raw: raw, Prefix: prefix, Variable: v}, true
}

func (p *Parser) lenientHeaderValue() *HeaderValue {
	raw := strings.TrimRight(p.lex.ReadLine(), " \t\v")
	p.lex.ConsumeLineBreak()
	return &HeaderValue{Kind: HeaderValueRaw, Raw: raw}
}

func isRawValueByte(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return ch == '_' || ch == '-' || ch == '/'
}
