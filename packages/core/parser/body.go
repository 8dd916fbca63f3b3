package parser

import "strings"

// bodyDialect pairs an opener test on the first body line with its parser.
type bodyDialect struct {
	dialect BodyDialect
	opens   func(p *Parser, line string) bool
	parse   func(p *Parser) (*Body, error)
}

// bodyDialects is ordered; the first dialect whose opener matches wins.
var bodyDialects = []bodyDialect{
	{BodyFormData, (*Parser).opensFormData, (*Parser).parseFormData},
	{BodyExternal, opensExternal, (*Parser).parseExternalBody},
	{BodyXML, opensXML, (*Parser).parseXMLBody},
	{BodyJSON, opensJSON, (*Parser).parseJSONBody},
	{BodyGraphQL, opensGraphQL, (*Parser).parseGraphQLBody},
	{BodyParams, opensParams, (*Parser).parseParamsBody},
}

// parseBody returns nil without consuming input when no dialect opens at
// the next non-blank line. Openers are matched from the start of the line.
func (p *Parser) parseBody() (*Body, error) {
	mark := p.lex.Offset()
	p.lex.SkipLineBreaks()
	if p.lex.AtEOF() {
		p.lex.Reset(mark)
		return nil, nil
	}
	p.lex.Reset(max(mark, p.lineStartOf(p.lex.Offset())))
	line := p.lex.Line()
	for _, d := range bodyDialects {
		if d.opens(p, line) {
			return d.parse(p)
		}
	}
	p.lex.Reset(mark)
	return nil, nil
}

func (p *Parser) lineStartOf(offset int) int {
	input := p.lex.Input()
	for offset > 0 && !isNewline(input[offset-1]) {
		offset--
	}
	return offset
}

func (p *Parser) opensFormData(string) bool {
	start := p.lex.Offset()
	defer p.lex.Reset(start)
	if _, ok := p.word(); !ok {
		return false
	}
	return p.lex.Next().Type == TokenEquals
}

func opensExternal(_ *Parser, line string) bool {
	if !strings.HasPrefix(line, "<") {
		return false
	}
	rest := line[1:]
	return strings.HasPrefix(rest, "@") || (rest != "" && isHorizontalSpace(rest[0]))
}

func opensXML(_ *Parser, line string) bool {
	return strings.HasPrefix(line, "<?xml") && strings.Contains(line[len("<?xml"):], "?>")
}

func opensJSON(_ *Parser, line string) bool {
	line = strings.TrimRight(line, " \t\v")
	return line == "{" || line == "["
}

func opensGraphQL(_ *Parser, line string) bool {
	rest, ok := strings.CutPrefix(line, "query")
	if !ok {
		return false
	}
	trimmed := strings.TrimLeft(rest, " \t\v")
	return len(trimmed) < len(rest) && strings.HasPrefix(trimmed, "(")
}

func opensParams(_ *Parser, line string) bool {
	return strings.HasPrefix(line, "params[")
}

func (p *Parser) parseFormData() (*Body, error) {
	start := p.lex.Offset()
	body := &Body{Dialect: BodyFormData}
	for {
		field, ok := p.parseFormField()
		if !ok {
			return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(),
				"expected form field name=value, got %q", p.lex.Line())
		}
		body.Fields = append(body.Fields, field)

		p.lex.SkipExtras()
		if p.lex.HasPrefix("&") {
			p.lex.Advance(1)
			p.lex.SkipExtras()
			continue
		}
		if p.lex.AtEOF() {
			break
		}
		end := p.lex.Offset()
		p.lex.SkipHorizontal()
		if !p.lex.ConsumeLineBreak() {
			return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(),
				"unexpected %q after form field %q", p.lex.Line(), field.Name)
		}
		if !p.opensFormData("") {
			p.lex.Reset(end)
			p.lex.SkipHorizontal()
			p.lex.ConsumeLineBreak()
			break
		}
	}
	p.finishBody(body, start)
	body.Content = body.Raw
	return body, nil
}

// parseFormField matches name "=" value where value is a quoted string,
// identifier, number, boolean or variable.
func (p *Parser) parseFormField() (*FormField, bool) {
	start := p.lex.Offset()
	name, ok := p.word()
	if !ok {
		return nil, false
	}
	if p.lex.Next().Type != TokenEquals {
		p.lex.Reset(start)
		return nil, false
	}

	value, ok := p.parseFormValue()
	if !ok {
		p.lex.Reset(start)
		return nil, false
	}
	return &FormField{
		Name:  name.Value,
		Value: value,
		Loc:   p.lex.SpanOf(start, p.lex.Offset()),
	}, true
}

func (p *Parser) parseFormValue() (Literal, bool) {
	start := p.lex.Offset()
	if next := p.lex.Peek(); next.Type == TokenVariableOpen {
		p.lex.Reset(next.Span.Start.Offset)
		if v, ok := p.parseVariable(); ok {
			return Literal{Kind: LiteralVariable, Raw: v.String(), Variable: v, Loc: v.Loc}, true
		}
		p.lex.Reset(start)
		return Literal{}, false
	}
	tok := p.lex.Next()
	lit := Literal{Raw: tok.Value, Loc: tok.Span}
	switch tok.Type {
	case TokenString:
		lit.Kind = LiteralString
	case TokenNumber:
		lit.Kind = LiteralNumber
	case TokenBoolean:
		lit.Kind = LiteralBoolean
	case TokenIdentifier:
		lit.Kind = LiteralIdentifier
	default:
		p.lex.Reset(start)
		return Literal{}, false
	}
	return lit, true
}

// parseExternalBody matches "<" ["@" encoding] ws path on a single line.
func (p *Parser) parseExternalBody() (*Body, error) {
	start := p.lex.Offset()
	p.lex.Advance(1)
	body := &Body{Dialect: BodyExternal}
	if p.lex.HasPrefix("@") {
		p.lex.Advance(1)
		enc, ok := p.word()
		if !ok {
			return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(), "expected encoding name after \"<@\"")
		}
		body.Encoding = enc.Value
	}
	if !p.lex.SkipHorizontal() {
		return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(), "expected whitespace before external body path")
	}
	path := strings.TrimRight(p.lex.ReadLine(), " \t\v")
	if path == "" {
		return nil, p.errorAt(ErrUnexpectedToken, p.lex.Offset(), "missing external body path")
	}
	body.Path = path
	body.Content = path
	p.lex.ConsumeLineBreak()
	p.finishBody(body, start)
	return body, nil
}

func (p *Parser) parseXMLBody() (*Body, error) {
	return p.parseBlockBody(BodyXML, "XML", "a </...> line", func(line string) bool {
		return strings.HasPrefix(line, "</") && strings.HasSuffix(line, ">")
	})
}

func (p *Parser) parseJSONBody() (*Body, error) {
	closer := "}"
	if strings.HasPrefix(p.lex.Line(), "[") {
		closer = "]"
	}
	return p.parseBlockBody(BodyJSON, "JSON", quoteLine(closer), exactLine(closer))
}

func (p *Parser) parseGraphQLBody() (*Body, error) {
	start := p.lex.Offset()
	p.lex.Advance(len("query"))
	p.lex.SkipHorizontal()
	p.lex.Advance(1) // "("
	return p.scanBody(BodyGraphQL, "GraphQL", quoteLine("}"), start, exactLine("}"))
}

func (p *Parser) parseParamsBody() (*Body, error) {
	start := p.lex.Offset()
	p.lex.Advance(len("params["))
	return p.scanBody(BodyParams, "params", quoteLine("]"), start, exactLine("]"))
}

// parseBlockBody handles dialects whose opener is a whole line.
func (p *Parser) parseBlockBody(dialect BodyDialect, name, want string, isTerminator func(string) bool) (*Body, error) {
	start := p.lex.Offset()
	p.lex.ReadLine()
	if !p.lex.ConsumeLineBreak() {
		return nil, p.errorAt(ErrUnterminatedBlock, start, "unterminated %s body: expected %s", name, want)
	}
	return p.scanBody(dialect, name, want, start, isTerminator)
}

func (p *Parser) scanBody(dialect BodyDialect, name, want string, start int, isTerminator func(string) bool) (*Body, error) {
	content, ok := NewScanner(p.lex).ScanBlock(isTerminator, p.startsUnambiguousEntry)
	if !ok {
		return nil, p.errorAt(ErrUnterminatedBlock, start, "unterminated %s body: expected %s", name, want)
	}
	body := &Body{Dialect: dialect, Content: content}
	p.finishBody(body, start)
	return body, nil
}

func (p *Parser) finishBody(body *Body, start int) {
	body.Loc = p.spanTo(start, p.lex.Offset())
	body.Raw = body.Loc.Text(p.lex.Input())
}

func quoteLine(s string) string {
	return "a \"" + s + "\" line"
}
