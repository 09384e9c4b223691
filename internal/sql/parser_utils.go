package sql

import (
	"errors"
	"fmt"
	"strings"
)

// advance moves the lookahead to the next token. Lexer errors pick up the
// usage line of the statement being parsed.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Usage == "" {
			e.Usage = p.usage
		}
		return err
	}
	p.tok = tok
	return nil
}

// syntaxError reports the current token as unexpected.
func (p *parser) syntaxError(expected string) *Error {
	tok := p.tok
	return &Error{
		Kind:     KindSyntax,
		Token:    &tok,
		Expected: expected,
		Usage:    p.usage,
		Pos:      tok.Pos,
	}
}

// expect consumes a punctuation or parenthesis token with the given text.
func (p *parser) expect(text string) error {
	if (p.tok.Kind == TokenPunctuation || p.tok.Kind == TokenParenthesis) && p.tok.Text == text {
		return p.advance()
	}
	return p.syntaxError(fmt.Sprintf("'%s'", text))
}

// expectKeyword consumes the keyword kw.
func (p *parser) expectKeyword(kw string) error {
	if p.tok.Is(TokenKeyword, kw) {
		return p.advance()
	}
	return p.syntaxError(kw)
}

// expectIdentifier consumes an identifier and returns its text. what names
// the grammar position for error messages ("table name", "column name").
func (p *parser) expectIdentifier(what string) (string, error) {
	switch p.tok.Kind {
	case TokenIdentifier:
		name := p.tok.Text
		return name, p.advance()
	case TokenKeyword:
		tok := p.tok
		return "", &Error{
			Kind:     KindReservedWord,
			Msg:      fmt.Sprintf("%q is a reserved word and cannot be used as a %s", tok.Text, what),
			Token:    &tok,
			Expected: what,
			Usage:    p.usage,
			Pos:      tok.Pos,
		}
	default:
		return "", p.syntaxError(what)
	}
}

// parseLiteral consumes a number or quoted string.
func (p *parser) parseLiteral() (Value, error) {
	var v Value
	switch p.tok.Kind {
	case TokenNumber:
		v = IntValue(p.tok.Int)
	case TokenQuoted:
		v = StringValue(p.tok.Text)
	default:
		return Value{}, p.syntaxError("number or quoted string")
	}
	return v, p.advance()
}

// parseFilename accepts a quoted string or a dotted name such as data.db.
func (p *parser) parseFilename() (string, error) {
	if p.tok.Kind == TokenQuoted {
		name := p.tok.Text
		if name == "" {
			return "", p.syntaxError("filename")
		}
		return name, p.advance()
	}
	if p.tok.Kind != TokenIdentifier && p.tok.Kind != TokenKeyword {
		return "", p.syntaxError("filename")
	}

	var b strings.Builder
	b.WriteString(p.tok.Text)
	if err := p.advance(); err != nil {
		return "", err
	}
	for p.tok.Is(TokenPunctuation, ".") {
		if err := p.advance(); err != nil {
			return "", err
		}
		if p.tok.Kind != TokenIdentifier && p.tok.Kind != TokenKeyword && p.tok.Kind != TokenNumber {
			return "", p.syntaxError("filename after '.'")
		}
		b.WriteByte('.')
		b.WriteString(p.tok.Text)
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// atEnd reports whether only an optional ';' remains.
func (p *parser) atEnd() bool {
	return p.tok.Kind == TokenEOF || p.tok.Is(TokenPunctuation, ";")
}

// finish consumes an optional ';' and requires end of input.
func (p *parser) finish(expected string) error {
	if p.tok.Is(TokenPunctuation, ";") {
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.Kind != TokenEOF {
			return p.syntaxError("end of input after ';'")
		}
		return nil
	}
	if p.tok.Kind != TokenEOF {
		return p.syntaxError(expected)
	}
	return nil
}
