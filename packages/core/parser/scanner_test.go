package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_ScanBlock(t *testing.T) {
	input := "line one\n  line two\n}\nafter\n"
	lex := NewLexer(input, LexerConfig{})

	content, ok := NewScanner(lex).ScanBlock(exactLine("}"), nil)
	require.True(t, ok)
	assert.Equal(t, "line one\n  line two", content)
	assert.Equal(t, strings.Index(input, "after"), lex.Offset())
}

func TestScanner_TerminatorNeedsInterior(t *testing.T) {
	lex := NewLexer("}\n}\n", LexerConfig{})
	content, ok := NewScanner(lex).ScanBlock(exactLine("}"), nil)
	require.True(t, ok)
	assert.Equal(t, "}", content)
}

func TestScanner_IndentedTerminatorIsInterior(t *testing.T) {
	lex := NewLexer("{\n  }\n", LexerConfig{})
	_, ok := NewScanner(lex).ScanBlock(exactLine("}"), nil)
	assert.False(t, ok)
	assert.True(t, lex.AtEOF())
}

func TestScanner_StopsAtEntry(t *testing.T) {
	input := "\"a\": 1\nGET /next\n}\n"
	lex := NewLexer(input, LexerConfig{})
	stop := func(line string) bool { return strings.HasPrefix(line, "GET ") }

	_, ok := NewScanner(lex).ScanBlock(exactLine("}"), stop)
	assert.False(t, ok)
	assert.Equal(t, strings.Index(input, "GET"), lex.Offset())
}

func TestScanner_TrailingWhitespaceOnTerminator(t *testing.T) {
	lex := NewLexer("x\r\n]  \r\nrest", LexerConfig{})
	content, ok := NewScanner(lex).ScanBlock(exactLine("]"), nil)
	require.True(t, ok)
	assert.Equal(t, "x", content)
	assert.Equal(t, "rest", lex.Line())
}
