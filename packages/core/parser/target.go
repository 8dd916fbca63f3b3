package parser

import (
	"sort"
	"unicode/utf8"
)

// schemes is the registered URI scheme list accepted before "://".
var schemes = []string{
	"about", "acct", "arcp", "cap", "cid", "coap+tcp", "coap+ws", "coaps+tcp",
	"coaps+ws", "data", "dns", "example", "file", "ftp", "geo", "h323", "http",
	"https", "im", "info", "ipp", "mailto", "mid", "ni", "nih", "payto", "pkcs11",
	"pres", "reload", "secret-token", "session", "sms", "tag", "telnet", "urn",
	"ws", "wss",
}

func init() {
	// Longest first so "https" wins over "http" and "coaps+ws" over "coap+ws".
	sort.SliceStable(schemes, func(i, j int) bool {
		return len(schemes[i]) > len(schemes[j])
	})
}

// parseTarget resolves the request target. Forms are declared in priority
// order: path-first, absolute, variable-prefixed. The path form is only
// tried on a leading "/" and the variable form only on a leading "{{".
func (p *Parser) parseTarget() (*Target, error) {
	start := p.lex.Offset()
	target, ok := choose[*Target](p.lex,
		guarded[*Target](p.lex, "/", p.pathTarget),
		p.absoluteTarget,
		guarded[*Target](p.lex, "{{", p.variableTarget),
	)
	if !ok {
		return nil, p.errorAt(ErrMalformedTarget, start, "expected request target, got %q", p.lex.Line())
	}
	target.Raw = p.lex.Input()[start:p.lex.Offset()]
	target.Loc = p.lex.SpanOf(start, p.lex.Offset())
	return target, nil
}

func (p *Parser) pathTarget() (*Target, bool) {
	path, ok := p.parsePath()
	if !ok {
		return nil, false
	}
	t := &Target{Form: TargetPath, Path: path}
	if query, ok := p.parseQuery(); ok {
		t.Query = query
	}
	return t, true
}

func (p *Parser) absoluteTarget() (*Target, bool) {
	if p.lex.HasPrefix("/") || p.lex.HasPrefix("{{") {
		return nil, false
	}
	url, ok := p.parseHostURL()
	if !ok {
		return nil, false
	}
	t := &Target{
		Form:      TargetAbsolute,
		Scheme:    url.Scheme,
		Authority: url.Authority,
		Host:      url.Host,
	}
	p.parseTargetTail(t)
	return t, true
}

func (p *Parser) variableTarget() (*Target, bool) {
	base, ok := p.parseVariable()
	if !ok {
		return nil, false
	}
	t := &Target{Form: TargetVariable, Base: base}
	if auth, ok := p.parseAuthority(); ok {
		t.Authority = auth
	}
	p.parseTargetTail(t)
	return t, true
}

// parseTargetTail parses the optional path and "?query" after a host or base.
func (p *Parser) parseTargetTail(t *Target) {
	if path, ok := p.parsePath(); ok {
		t.Path = path
	}
	if query, ok := p.parseQuery(); ok {
		t.Query = query
	}
}

// parseHostURL matches [scheme "://"] [authority] host.
func (p *Parser) parseHostURL() (*HostURL, bool) {
	start := p.lex.Offset()
	url := &HostURL{Scheme: p.parseScheme()}
	if auth, ok := p.parseAuthority(); ok {
		url.Authority = auth
	}
	host, ok := p.parseHost()
	if !ok {
		p.lex.Reset(start)
		return nil, false
	}
	url.Host = host
	return url, true
}

func (p *Parser) parseScheme() string {
	for _, scheme := range schemes {
		if p.lex.HasPrefix(scheme + "://") {
			p.lex.Advance(len(scheme) + 3)
			return scheme
		}
	}
	return ""
}

// parseAuthority matches [user [":" password]] "@".
func (p *Parser) parseAuthority() (*Authority, bool) {
	start := p.lex.Offset()
	auth := &Authority{}
	if user, ok := p.word(); ok {
		auth.User = user.Value
		if p.lex.HasPrefix(":") {
			p.lex.Advance(1)
			pass, ok := p.word()
			if !ok {
				p.lex.Reset(start)
				return nil, false
			}
			auth.Password = pass.Value
		}
	}
	if !p.lex.HasPrefix("@") {
		p.lex.Reset(start)
		return nil, false
	}
	p.lex.Advance(1)
	auth.Loc = p.lex.SpanOf(start, p.lex.Offset())
	return auth, true
}

func (p *Parser) parseHost() (*Host, bool) {
	start := p.lex.Offset()
	name, ok := p.word()
	if !ok {
		return nil, false
	}
	host := &Host{Name: name.Value}
	mark := p.lex.Offset()
	if p.lex.HasPrefix(":") {
		p.lex.Advance(1)
		if port := p.lex.NextRaw(); port.Type == TokenNumber {
			host.Port = port.Value
		} else {
			p.lex.Reset(mark)
		}
	}
	host.Loc = p.lex.SpanOf(start, p.lex.Offset())
	return host, true
}

// parsePath matches one or more of "/", "/segment" and "{{var}}".
func (p *Parser) parsePath() (*Path, bool) {
	start := p.lex.Offset()
	var segments []*PathSegment
	for {
		segStart := p.lex.Offset()
		if p.lex.HasPrefix("/") {
			p.lex.Advance(1)
			p.word()
			segments = append(segments, &PathSegment{
				Text: p.lex.Input()[segStart:p.lex.Offset()],
				Loc:  p.lex.SpanOf(segStart, p.lex.Offset()),
			})
			continue
		}
		if v, ok := p.parseVariable(); ok {
			segments = append(segments, &PathSegment{Variable: v, Loc: v.Loc})
			continue
		}
		break
	}
	if len(segments) == 0 {
		return nil, false
	}
	return &Path{
		Raw:      p.lex.Input()[start:p.lex.Offset()],
		Segments: segments,
		Loc:      p.lex.SpanOf(start, p.lex.Offset()),
	}, true
}

// parseQuery matches "?" followed by one or more [&]key=value pairs, where
// "&" is optional only on the first pair.
func (p *Parser) parseQuery() ([]*QueryParam, bool) {
	start := p.lex.Offset()
	if !p.lex.HasPrefix("?") {
		return nil, false
	}
	p.lex.Advance(1)

	var params []*QueryParam
	for {
		mark := p.lex.Offset()
		if p.lex.HasPrefix("&") {
			p.lex.Advance(1)
		} else if len(params) > 0 {
			break
		}
		param, ok := p.parseQueryParam()
		if !ok {
			p.lex.Reset(mark)
			break
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		p.lex.Reset(start)
		return nil, false
	}
	return params, true
}

func (p *Parser) parseQueryParam() (*QueryParam, bool) {
	start := p.lex.Offset()
	key, ok := p.word()
	if !ok || !p.lex.HasPrefix("=") {
		p.lex.Reset(start)
		return nil, false
	}
	p.lex.Advance(1)
	valueStart := p.lex.Offset()
	if !p.scanQueryValue() {
		p.lex.Reset(start)
		return nil, false
	}
	return &QueryParam{
		Key:   key.Value,
		Value: p.lex.Input()[valueStart:p.lex.Offset()],
		Loc:   p.lex.SpanOf(start, p.lex.Offset()),
	}, true
}

// scanQueryValue consumes identifier characters, "%", variables and embedded
// horizontal whitespace. Whitespace is only taken when more value text
// follows it and that text is not an HTTP version.
func (p *Parser) scanQueryValue() bool {
	start := p.lex.Offset()
	for !p.lex.AtEOF() {
		if _, ok := p.parseVariable(); ok {
			continue
		}
		r := p.lex.PeekRune()
		if r == ' ' || r == '\t' || r == '\v' {
			mark := p.lex.Offset()
			p.lex.SkipHorizontal()
			if p.lex.AtLineEnd() || p.lex.HasPrefix("HTTP/") || !isQueryValueStart(p.lex) {
				p.lex.Reset(mark)
				break
			}
			continue
		}
		if r == utf8.RuneError || !(isIdentRune(r) || r == '%') {
			break
		}
		p.lex.AdvanceRune()
	}
	return p.lex.Offset() > start
}

func isQueryValueStart(l *Lexer) bool {
	if l.HasPrefix("{{") {
		return true
	}
	r := l.PeekRune()
	return r != utf8.RuneError && (isIdentRune(r) || r == '%')
}
