package parser

import "strings"

// Scanner recognizes multi-line spans bounded by an opener and a terminator
// line without tokenizing their interior.
type Scanner struct {
	lex *Lexer
}

func NewScanner(lex *Lexer) *Scanner {
	return &Scanner{lex: lex}
}

// ScanBlock consumes lines from the cursor until a line satisfying
// isTerminator, after at least one non-blank interior line, and returns the
// text before the terminator. The first line may be the remainder of the
// opener's line. The terminator consumes its own line break. When stop
// reports a line as the start of something else, or the input ends,
// ScanBlock leaves the cursor at that line and returns false.
func (s *Scanner) ScanBlock(isTerminator, stop func(line string) bool) (string, bool) {
	start := s.lex.Offset()
	interiorLines := 0
	for !s.lex.AtEOF() {
		lineStart := s.lex.Offset()
		line := strings.TrimRight(s.lex.ReadLine(), " \t\v")

		if interiorLines > 0 && isTerminator(line) {
			s.lex.SkipHorizontal()
			s.lex.ConsumeLineBreak()
			return s.lex.Input()[start:trimOneLineBreak(s.lex.Input(), start, lineStart)], true
		}
		if lineStart > start && stop != nil && stop(line) {
			s.lex.Reset(lineStart)
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			interiorLines++
		}
		if !s.lex.ConsumeLineBreak() {
			break
		}
	}
	return "", false
}

func trimOneLineBreak(input string, start, end int) int {
	switch {
	case end-start >= 2 && input[end-2:end] == "\r\n":
		return end - 2
	case end > start && isNewline(input[end-1]):
		return end - 1
	}
	return end
}

// exactLine returns a terminator predicate matching a line equal to want.
func exactLine(want string) func(string) bool {
	return func(line string) bool {
		return line == want
	}
}
