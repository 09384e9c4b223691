package sql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies statement failures.
type ErrorKind int

const (
	KindLex ErrorKind = iota
	KindSyntax
	KindReservedWord
	KindSemantic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindSyntax:
		return "syntax error"
	case KindReservedWord:
		return "reserved word"
	case KindSemantic:
		return "error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the error returned for any statement that fails, from lexing
// through execution. Parser errors carry the offending token, what was
// expected instead and the usage line of the statement being parsed.
type Error struct {
	Kind     ErrorKind
	Msg      string
	Token    *Token
	Expected string
	Usage    string
	Pos      int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Token != nil:
		b.WriteString("unexpected ")
		b.WriteString(e.Token.String())
		if e.Expected != "" {
			b.WriteString(", expected ")
			b.WriteString(e.Expected)
		}
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	}
	if e.Usage != "" {
		b.WriteString("\nusage: ")
		b.WriteString(e.Usage)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Semantic wraps err (usually a sentinel) into a semantic *Error with a
// message built from format and args.
func Semantic(err error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = err.Error() + ": " + msg
	}
	return &Error{Kind: KindSemantic, Msg: msg, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func lexError(pos int, format string, args ...interface{}) *Error {
	return &Error{
		Kind: KindLex,
		Msg:  fmt.Sprintf(format, args...) + fmt.Sprintf(" at offset %d", pos),
		Pos:  pos,
	}
}
