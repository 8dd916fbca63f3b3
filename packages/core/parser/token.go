package parser

import "fmt"

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLineBreak
	TokenWhitespace
	TokenComment
	TokenIdentifier
	TokenNumber
	TokenBoolean
	TokenString
	TokenVariableOpen
	TokenVariableClose
	TokenColon
	TokenEquals
	TokenSlash
	TokenQuestion
	TokenAmpersand
	TokenAt
	TokenText
)

var tokenNames = [...]string{
	TokenEOF:           "EOF",
	TokenLineBreak:     "LineBreak",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenIdentifier:    "Identifier",
	TokenNumber:        "Number",
	TokenBoolean:       "Boolean",
	TokenString:        "String",
	TokenVariableOpen:  "{{",
	TokenVariableClose: "}}",
	TokenColon:         ":",
	TokenEquals:        "=",
	TokenSlash:         "/",
	TokenQuestion:      "?",
	TokenAmpersand:     "&",
	TokenAt:            "@",
	TokenText:          "Text",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsWord reports whether the token is an identifier-class run. Numbers and
// booleans are identifier characters too; the lexer only classifies them.
func (t TokenType) IsWord() bool {
	return t == TokenIdentifier || t == TokenNumber || t == TokenBoolean
}

type Token struct {
	Type  TokenType
	Value string
	Span  Span
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}
