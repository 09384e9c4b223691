package sql

import (
	"fmt"
	"strings"
)

const (
	usageCreate = "CREATE <table> (<column> [INDEXED], ...)"
	usageInsert = "INSERT [INTO] <table> [VALUES] (<value>, ...)"
	usageSelect = "SELECT FROM <table> [WHERE <column> (= | < | >) <value> [(AND | OR) ...]]"
	usageLoad   = "LOAD <filename>"
	usageSave   = "SAVE [<filename>]"
	usageExit   = "EXIT"
)

// Parse parses a single SQL statement string into a Statement.
//
// Supported statements:
//
//	CREATE <table> (<column> [INDEXED], ...)
//	INSERT [INTO] <table> [VALUES] (<value>, ...)
//	SELECT FROM <table> [WHERE <condition>]
//	LOAD <filename>
//	SAVE [<filename>]
//	EXIT
//
// A trailing ';' is accepted. On failure the returned error is a *Error and
// the statement is nil.
func Parse(query string) (Statement, error) {
	p := &parser{lex: NewLexer(query)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Kind == TokenEOF {
		return nil, &Error{Kind: KindSyntax, Msg: "empty statement"}
	}

	switch strings.ToUpper(p.tok.Text) {
	case "CREATE":
		return p.parseCreateTable()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		return p.parseSelect()
	case "LOAD":
		return p.parseLoad()
	case "SAVE":
		return p.parseSave()
	case "EXIT":
		return p.parseExit()
	default:
		tok := p.tok
		return nil, &Error{
			Kind:  KindSyntax,
			Msg:   fmt.Sprintf("unknown command %q (supported: CREATE, INSERT, SELECT, LOAD, SAVE, EXIT)", tok.Text),
			Token: &tok,
			Pos:   tok.Pos,
		}
	}
}

// parser holds the one-token lookahead for a single Parse call.
type parser struct {
	lex   *Lexer
	tok   Token
	usage string
}

func (p *parser) parseLoad() (Statement, error) {
	p.usage = usageLoad
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parseFilename()
	if err != nil {
		return nil, err
	}
	if err := p.finish("end of statement"); err != nil {
		return nil, err
	}
	return &LoadStmt{Filename: name}, nil
}

func (p *parser) parseSave() (Statement, error) {
	p.usage = usageSave
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmt := &SaveStmt{}
	if !p.atEnd() {
		name, err := p.parseFilename()
		if err != nil {
			return nil, err
		}
		stmt.Filename = name
	}
	if err := p.finish("end of statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseExit() (Statement, error) {
	p.usage = usageExit
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.finish("end of statement"); err != nil {
		return nil, err
	}
	return &ExitStmt{}, nil
}
