package sql

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexeme.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenKeyword
	TokenIdentifier
	TokenQuoted
	TokenNumber
	TokenOperator
	TokenPunctuation
	TokenParenthesis
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "end of input",
	TokenKeyword:     "keyword",
	TokenIdentifier:  "identifier",
	TokenQuoted:      "string",
	TokenNumber:      "number",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
	TokenParenthesis: "parenthesis",
}

func (k TokenKind) String() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme of a statement.
//
// Text holds the literal source text for keywords, identifiers, operators
// and punctuation, and the unquoted contents for quoted strings. Number
// tokens carry their parsed value in Int.
type Token struct {
	Kind TokenKind
	Text string
	Int  int64
	Pos  int // byte offset in the statement
}

// Is reports whether the token has the given kind and, ignoring case, text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && strings.EqualFold(t.Text, text)
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenNumber:
		return fmt.Sprintf("%s %d", t.Kind, t.Int)
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}

var keywords = map[string]struct{}{
	"CREATE": {},
	"INSERT": {},
	"INTO":   {},
	"VALUES": {},
	"SELECT": {},
	"FROM":   {},
	"WHERE":  {},
	"OR":     {},
	"AND":    {},
}

// IsKeyword reports whether word is reserved, ignoring case.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToUpper(word)]
	return ok
}
