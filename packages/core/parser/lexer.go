package parser

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Extras is the set of token kinds the lexer skips between structural tokens.
type Extras uint8

const (
	ExtraWhitespace Extras = 1 << iota
	ExtraComments
)

const DefaultExtras = ExtraWhitespace | ExtraComments

func (e Extras) Has(flag Extras) bool {
	return e&flag != 0
}

type LexerConfig struct {
	Extras Extras
}

// Lexer is a cursor over the input. Its whole state is the byte offset, so
// callers backtrack with Offset and Reset.
type Lexer struct {
	input      string
	pos        int
	lineStarts []int
	config     LexerConfig
}

func NewLexer(input string, config LexerConfig) *Lexer {
	l := &Lexer{
		input:      input,
		config:     config,
		lineStarts: []int{0},
	}
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\n':
			l.lineStarts = append(l.lineStarts, i+1)
		case '\r':
			if i+1 >= len(input) || input[i+1] != '\n' {
				l.lineStarts = append(l.lineStarts, i+1)
			}
		}
	}
	return l
}

func (l *Lexer) Input() string {
	return l.input
}

func (l *Lexer) Config() LexerConfig {
	return l.config
}

func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) Reset(offset int) {
	l.pos = offset
}

func (l *Lexer) AtEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) Pos() Position {
	return l.PositionAt(l.pos)
}

// PositionAt converts a byte offset into a line/column position.
func (l *Lexer) PositionAt(offset int) Position {
	if offset > len(l.input) {
		offset = len(l.input)
	}
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - l.lineStarts[line] + 1,
	}
}

func (l *Lexer) SpanOf(start, end int) Span {
	return Span{Start: l.PositionAt(start), End: l.PositionAt(end)}
}

// Next returns the next token, skipping the configured extras.
func (l *Lexer) Next() Token {
	for {
		tok := l.NextRaw()
		switch {
		case tok.Type == TokenWhitespace && l.config.Extras.Has(ExtraWhitespace):
			continue
		case tok.Type == TokenComment && l.config.Extras.Has(ExtraComments):
			continue
		}
		return tok
	}
}

func (l *Lexer) Peek() Token {
	start := l.pos
	tok := l.Next()
	l.pos = start
	return tok
}

func (l *Lexer) PeekRaw() Token {
	start := l.pos
	tok := l.NextRaw()
	l.pos = start
	return tok
}

// NextRaw returns the next primitive token without skipping anything.
func (l *Lexer) NextRaw() Token {
	start := l.pos
	if l.AtEOF() {
		return l.emit(TokenEOF, start)
	}

	ch := l.input[l.pos]
	switch {
	case isNewline(ch):
		for !l.AtEOF() && isNewline(l.input[l.pos]) {
			l.pos++
		}
		return l.emit(TokenLineBreak, start)
	case isHorizontalSpace(ch):
		l.SkipHorizontal()
		return l.emit(TokenWhitespace, start)
	case ch == '#' && l.onlySpaceBefore(start):
		l.skipToLineEnd()
		return l.emit(TokenComment, start)
	case ch == '"':
		if end := l.quotedEnd(start); end > 0 {
			l.pos = end
			return l.emit(TokenString, start)
		}
		l.pos++
		return l.emit(TokenText, start)
	case l.HasPrefix("{{"):
		l.pos += 2
		return l.emit(TokenVariableOpen, start)
	case l.HasPrefix("}}"):
		l.pos += 2
		return l.emit(TokenVariableClose, start)
	case ch == ':':
		l.pos++
		return l.emit(TokenColon, start)
	case ch == '=':
		l.pos++
		return l.emit(TokenEquals, start)
	case ch == '/':
		l.pos++
		return l.emit(TokenSlash, start)
	case ch == '?':
		l.pos++
		return l.emit(TokenQuestion, start)
	case ch == '&':
		l.pos++
		return l.emit(TokenAmpersand, start)
	case ch == '@':
		l.pos++
		return l.emit(TokenAt, start)
	}

	if word := l.scanWord(); word != "" {
		return l.emit(classifyWord(word), start)
	}
	_, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width
	return l.emit(TokenText, start)
}

func (l *Lexer) emit(typ TokenType, start int) Token {
	return Token{
		Type:  typ,
		Value: l.input[start:l.pos],
		Span:  l.SpanOf(start, l.pos),
	}
}

func classifyWord(word string) TokenType {
	if word == "true" || word == "false" {
		return TokenBoolean
	}
	for i := 0; i < len(word); i++ {
		if !isDigit(word[i]) {
			return TokenIdentifier
		}
	}
	return TokenNumber
}

// scanWord consumes the longest run of identifier characters.
func (l *Lexer) scanWord() string {
	start := l.pos
	for !l.AtEOF() {
		r, width := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentRune(r) {
			break
		}
		l.pos += width
	}
	return l.input[start:l.pos]
}

func (l *Lexer) quotedEnd(start int) int {
	for i := start + 1; i < len(l.input); i++ {
		switch l.input[i] {
		case '"':
			return i + 1
		case '\n', '\r':
			return -1
		}
	}
	return -1
}

func (l *Lexer) HasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) PeekRune() rune {
	if l.AtEOF() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) Advance(n int) {
	l.pos += n
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
}

func (l *Lexer) AdvanceRune() {
	_, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width
}

// SkipHorizontal consumes spaces, tabs and vertical tabs and reports whether
// it consumed anything.
func (l *Lexer) SkipHorizontal() bool {
	start := l.pos
	for !l.AtEOF() && isHorizontalSpace(l.input[l.pos]) {
		l.pos++
	}
	return l.pos > start
}

// SkipExtras skips horizontal whitespace when whitespace is configured as extra.
func (l *Lexer) SkipExtras() {
	if l.config.Extras.Has(ExtraWhitespace) {
		l.SkipHorizontal()
	}
}

func (l *Lexer) AtLineStart() bool {
	return l.pos == 0 || isNewline(l.input[l.pos-1])
}

func (l *Lexer) AtLineEnd() bool {
	return l.AtEOF() || isNewline(l.input[l.pos])
}

// ConsumeLineBreak consumes exactly one line break ("\r\n", "\n" or "\r").
func (l *Lexer) ConsumeLineBreak() bool {
	switch {
	case l.HasPrefix("\r\n"):
		l.pos += 2
	case !l.AtEOF() && isNewline(l.input[l.pos]):
		l.pos++
	default:
		return false
	}
	return true
}

// SkipLineBreaks consumes a run of line breaks and horizontal whitespace.
func (l *Lexer) SkipLineBreaks() {
	for !l.AtEOF() && (isNewline(l.input[l.pos]) || isHorizontalSpace(l.input[l.pos])) {
		l.pos++
	}
}

// ReadLine returns the text up to the end of the current line without
// consuming the line break.
func (l *Lexer) ReadLine() string {
	start := l.pos
	l.skipToLineEnd()
	return l.input[start:l.pos]
}

// Line returns the rest of the current line without moving the cursor.
func (l *Lexer) Line() string {
	return l.LineAt(l.pos)
}

func (l *Lexer) LineAt(offset int) string {
	end := offset
	for end < len(l.input) && !isNewline(l.input[end]) {
		end++
	}
	return l.input[offset:end]
}

// NextLineStart returns the offset of the first line that starts after offset.
func (l *Lexer) NextLineStart(offset int) int {
	i := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	if i >= len(l.lineStarts) {
		return len(l.input)
	}
	return l.lineStarts[i]
}

func (l *Lexer) IsLineStart(offset int) bool {
	return offset == 0 || (offset <= len(l.input) && isNewline(l.input[offset-1]))
}

func (l *Lexer) skipToLineEnd() {
	for !l.AtEOF() && !isNewline(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) onlySpaceBefore(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch {
		case isNewline(l.input[i]):
			return true
		case !isHorizontalSpace(l.input[i]):
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '$', r == '-':
		return true
	}
	return r > 0xA0 && r != utf8.RuneError
}

func isHorizontalSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\v'
}

func isNewline(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}
