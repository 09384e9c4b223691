package sql

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer turns a statement into tokens on demand.
//
// Tokens are produced left to right in a single pass. Once the lexer has
// returned an EOF token (or an error) every further call returns the same
// result.
type Lexer struct {
	src  string
	pos  int
	done bool
	last Token
	err  error
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token. Whitespace is skipped. At the end of input an
// EOF token is returned.
func (l *Lexer) Next() (Token, error) {
	if l.done {
		return l.last, l.err
	}
	tok, err := l.scan()
	if err != nil || tok.Kind == TokenEOF {
		l.done = true
		l.last, l.err = tok, err
	}
	return tok, err
}

// Tokenize lexes the whole statement, including the trailing EOF token.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) scan() (Token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[start]

	switch {
	case l.hasWord("VALUES"):
		l.pos += len("VALUES")
		return Token{Kind: TokenKeyword, Text: l.src[start:l.pos], Pos: start}, nil

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		word := l.src[start:l.pos]
		kind := TokenIdentifier
		if IsKeyword(word) {
			kind = TokenKeyword
		}
		return Token{Kind: kind, Text: word, Pos: start}, nil

	case c == '\'' || c == '"':
		return l.scanQuoted(c)

	case isDigit(c) || (c == '-' && start+1 < len(l.src) && isDigit(l.src[start+1])):
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, lexError(start, "numeric literal %s out of range", text)
		}
		return Token{Kind: TokenNumber, Text: text, Int: n, Pos: start}, nil

	case c == '=' || c == '<' || c == '>':
		l.pos++
		return Token{Kind: TokenOperator, Text: string(c), Pos: start}, nil

	case c == ',' || c == ';' || c == '.':
		l.pos++
		return Token{Kind: TokenPunctuation, Text: string(c), Pos: start}, nil

	case c == '(' || c == ')':
		l.pos++
		return Token{Kind: TokenParenthesis, Text: string(c), Pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[start:])
	return Token{}, lexError(start, "unexpected character %q", r)
}

// hasWord reports whether the input at the current position is word
// (ignoring case) followed by a non-identifier character.
func (l *Lexer) hasWord(word string) bool {
	end := l.pos + len(word)
	if end > len(l.src) || !strings.EqualFold(l.src[l.pos:end], word) {
		return false
	}
	return end == len(l.src) || !isIdentPart(l.src[end])
}

// scanQuoted reads a string delimited by quote. A doubled quote inside the
// string stands for one literal quote character.
func (l *Lexer) scanQuoted(quote byte) (Token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == quote {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == quote {
				b.WriteByte(quote)
				l.pos += 2
				continue
			}
			l.pos++
			return Token{Kind: TokenQuoted, Text: b.String(), Pos: start}, nil
		}
		b.WriteByte(c)
		l.pos++
	}
	return Token{}, lexError(start, "unterminated string literal")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
