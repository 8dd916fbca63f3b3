package parser

// standardMethods are the verbs accepted without the vendor pattern.
var standardMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
	"TRACE":   true,
	"CONNECT": true,
}

func IsStandardMethod(name string) bool {
	return standardMethods[name]
}

// IsVendorMethod reports whether name matches [A-Z][A-Z0-9_]+.
func IsVendorMethod(name string) bool {
	if len(name) < 2 || !isUpper(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if ch := name[i]; !isUpper(ch) && !isDigit(ch) && ch != '_' {
			return false
		}
	}
	return true
}

func (p *Parser) parseRequest() (*Request, error) {
	start := p.lex.Offset()
	method, err := p.parseMethod()
	if err != nil {
		return nil, err
	}
	req := &Request{Method: method}

	if !p.lex.SkipHorizontal() {
		if p.lex.AtLineEnd() {
			return nil, p.errorAt(ErrMalformedTarget, p.lex.Offset(), "missing request target after %s", method.Name)
		}
		return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(),
			"expected whitespace after method %s, got %q", method.Name, p.lex.Line())
	}

	if req.Target, err = p.parseTarget(); err != nil {
		return nil, err
	}
	if req.HTTPVersion, err = p.parseHTTPVersion(); err != nil {
		return nil, err
	}
	if !p.endOfLine() {
		return nil, p.errorAt(ErrMalformedTarget, p.lex.Offset(),
			"unexpected %q after request target %q", p.lex.Line(), req.Target.Raw)
	}

	if req.Headers, err = p.parseHeaders(); err != nil {
		return nil, err
	}
	if req.Body, err = p.parseBody(); err != nil {
		return nil, err
	}

	req.Loc = p.spanTo(start, p.lex.Offset())
	return req, nil
}

func (p *Parser) parseMethod() (Method, error) {
	tok, _ := p.word()
	method := Method{Name: tok.Value, Loc: tok.Span}
	switch {
	case standardMethods[tok.Value]:
	case IsVendorMethod(tok.Value):
		method.Vendor = true
		p.warn(tok.Span.Start.Offset, "vendor-specific method %s", tok.Value)
	default:
		return Method{}, p.errorAt(ErrInvalidMethod, tok.Span.Start.Offset,
			"%q is neither a standard nor a vendor method", tok.Value)
	}
	return method, nil
}

// parseHTTPVersion matches an optional ws "HTTP/" [0-9.]+ suffix.
func (p *Parser) parseHTTPVersion() (string, error) {
	mark := p.lex.Offset()
	if !p.lex.SkipHorizontal() || !p.lex.HasPrefix("HTTP/") {
		p.lex.Reset(mark)
		return "", nil
	}
	p.lex.Advance(len("HTTP/"))
	start := p.lex.Offset()
	for !p.lex.AtEOF() {
		ch := p.lex.Input()[p.lex.Offset()]
		if !isDigit(ch) && ch != '.' {
			break
		}
		p.lex.Advance(1)
	}
	if p.lex.Offset() == start {
		return "", p.errorAt(ErrMalformedTarget, start, "invalid HTTP version %q", p.lex.Line())
	}
	return p.lex.Input()[start:p.lex.Offset()], nil
}
