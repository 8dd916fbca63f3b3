package parser

// production is one alternative of a grammar choice. It reports whether it
// matched; on failure the cursor position is irrelevant.
type production[T any] func() (T, bool)

// choose tries every alternative from the same start position in declared
// order and commits to the one that consumed the longest non-empty prefix.
// Equal lengths resolve to the earliest alternative.
func choose[T any](l *Lexer, alternatives ...production[T]) (T, bool) {
	start := l.Offset()
	var (
		best    T
		bestEnd = start
		found   bool
	)
	for _, alt := range alternatives {
		l.Reset(start)
		v, ok := alt()
		if !ok {
			continue
		}
		end := l.Offset()
		if end > bestEnd {
			best, bestEnd, found = v, end, true
		}
	}
	l.Reset(bestEnd)
	return best, found
}

// guarded only runs parse when the input at the cursor starts with prefix.
func guarded[T any](l *Lexer, prefix string, parse production[T]) production[T] {
	return func() (T, bool) {
		if !l.HasPrefix(prefix) {
			var zero T
			return zero, false
		}
		return parse()
	}
}

// parseVariable matches "{{" [ws] identifier [ws] "}}".
func (p *Parser) parseVariable() (*Variable, bool) {
	start := p.lex.Offset()
	if !p.lex.HasPrefix("{{") {
		return nil, false
	}
	p.lex.Advance(2)
	p.lex.SkipHorizontal()
	tok := p.lex.NextRaw()
	if !tok.Type.IsWord() {
		p.lex.Reset(start)
		return nil, false
	}
	p.lex.SkipHorizontal()
	if !p.lex.HasPrefix("}}") {
		p.lex.Reset(start)
		return nil, false
	}
	p.lex.Advance(2)
	return &Variable{
		Name: tok.Value,
		Loc:  p.lex.SpanOf(start, p.lex.Offset()),
	}, true
}

// word consumes an identifier-class token (identifier, number or boolean).
func (p *Parser) word() (Token, bool) {
	start := p.lex.Offset()
	tok := p.lex.NextRaw()
	if tok.Type.IsWord() {
		return tok, true
	}
	p.lex.Reset(start)
	return tok, false
}

// endOfLine consumes trailing horizontal whitespace and one line break. End
// of input also ends the line.
func (p *Parser) endOfLine() bool {
	p.lex.SkipHorizontal()
	if p.lex.AtEOF() {
		return true
	}
	return p.lex.ConsumeLineBreak()
}

// trimmedEnd walks back from end over whitespace and line breaks so entry
// spans stop at their last significant byte.
func (p *Parser) trimmedEnd(start, end int) int {
	input := p.lex.Input()
	for end > start && (isNewline(input[end-1]) || isHorizontalSpace(input[end-1])) {
		end--
	}
	return end
}

func (p *Parser) spanTo(start, end int) Span {
	return p.lex.SpanOf(start, p.trimmedEnd(start, end))
}
