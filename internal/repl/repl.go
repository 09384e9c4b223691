// Package repl reads ';'-terminated statements from a stream and runs them
// against an engine.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/op/go-logging"

	"treeDB/internal/engine"
	"treeDB/internal/render"
	"treeDB/internal/sql"
)

var log = logging.MustGetLogger("repl")

const (
	promptFirst    = ">>> "
	promptContinue = "... "
)

// Options controls the REPL presentation.
type Options struct {
	// Prompt prints ">>> " and "... " before reading lines.
	Prompt bool
	// Color enables colored errors and result tables.
	Color bool
}

// REPL runs statements and writes their results to an output stream.
type REPL struct {
	eng      *engine.DBEngine
	out      io.Writer
	opts     Options
	renderer *render.Renderer
	errColor *color.Color
	okColor  *color.Color
}

// New returns a REPL writing to out.
func New(eng *engine.DBEngine, out io.Writer, opts Options) *REPL {
	r := &REPL{
		eng:      eng,
		out:      out,
		opts:     opts,
		renderer: render.New(opts.Color),
		errColor: color.New(color.FgHiRed),
		okColor:  color.New(color.FgHiGreen),
	}
	if opts.Color {
		r.errColor.EnableColor()
		r.okColor.EnableColor()
	} else {
		r.errColor.DisableColor()
		r.okColor.DisableColor()
	}
	return r
}

// Run reads lines from in until EXIT or end of input. Lines are joined until
// a ';' outside quotes completes a statement; text after the ';' starts the
// next statement. A final statement without ';' is run at end of input.
// Statement errors are printed and do not stop the loop.
func (r *REPL) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	pending := ""
	r.prompt(true)
	for sc.Scan() {
		if pending == "" {
			pending = sc.Text()
		} else {
			pending += " " + sc.Text()
		}

		stmts, rest := SplitStatements(pending)
		pending = rest
		if strings.TrimSpace(pending) == "" {
			pending = ""
		}
		for _, text := range stmts {
			exit, _ := r.run(text)
			if exit {
				return nil
			}
		}
		r.prompt(pending == "")
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if strings.TrimSpace(pending) != "" {
		_, _ = r.run(pending)
	}
	return nil
}

// Exec runs every statement in script and stops at the first failure or at
// EXIT.
func (r *REPL) Exec(script string) error {
	stmts, rest := SplitStatements(script)
	if strings.TrimSpace(rest) != "" {
		stmts = append(stmts, rest)
	}
	for _, text := range stmts {
		exit, err := r.run(text)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
	return nil
}

func (r *REPL) prompt(first bool) {
	if !r.opts.Prompt {
		return
	}
	if first {
		fmt.Fprint(r.out, promptFirst)
	} else {
		fmt.Fprint(r.out, promptContinue)
	}
}

// run parses and executes one statement and prints its outcome.
func (r *REPL) run(text string) (exit bool, err error) {
	stmt, err := r.eng.Parse(text)
	if err != nil {
		r.errColor.Fprintln(r.out, err.Error())
		return false, err
	}
	if _, ok := stmt.(*sql.ExitStmt); ok {
		log.Debugf("exit requested")
		return true, nil
	}

	cols, rows, err := r.eng.Execute(stmt)
	if err != nil {
		r.errColor.Fprintln(r.out, describe(err))
		return false, err
	}

	switch s := stmt.(type) {
	case *sql.SelectStmt:
		if err := r.renderer.Table(r.out, cols, rows); err != nil {
			return false, fmt.Errorf("render: %w", err)
		}
	case *sql.CreateTableStmt:
		r.okColor.Fprintf(r.out, "table %s created\n", s.TableName)
	case *sql.InsertStmt:
		r.okColor.Fprintf(r.out, "1 row inserted into %s\n", s.TableName)
	case *sql.LoadStmt:
		r.okColor.Fprintf(r.out, "loaded %s\n", s.Filename)
	case *sql.SaveStmt:
		r.okColor.Fprintf(r.out, "saved to %s\n", r.eng.CurrentFile())
	}
	return false, nil
}

// describe prefixes errors that are not already classified.
func describe(err error) string {
	if _, ok := sql.KindOf(err); ok {
		return err.Error()
	}
	return "error: " + err.Error()
}

// SplitStatements splits s at every ';' that is not inside a quoted string.
// It returns the complete statements (without ';', trimmed, empty ones
// dropped) and the unterminated remainder.
func SplitStatements(s string) ([]string, string) {
	var (
		stmts []string
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			if stmt := strings.TrimSpace(s[start:i]); stmt != "" {
				stmts = append(stmts, stmt)
			}
			start = i + 1
		}
	}
	return stmts, s[start:]
}
