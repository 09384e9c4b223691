// Package render formats query results as text tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"treeDB/internal/sql"
)

// Renderer writes result sets. The zero value is not usable; call New.
type Renderer struct {
	header lipgloss.Style
	cell   lipgloss.Style
	rule   lipgloss.Style
	footer lipgloss.Style
}

// New returns a renderer. With color false no styling is applied at all.
func New(color bool) *Renderer {
	r := &Renderer{
		header: lipgloss.NewStyle(),
		cell:   lipgloss.NewStyle(),
		rule:   lipgloss.NewStyle(),
		footer: lipgloss.NewStyle(),
	}
	if color {
		r.header = r.header.Bold(true).Foreground(lipgloss.Color("12"))
		r.rule = r.rule.Foreground(lipgloss.Color("8"))
		r.footer = r.footer.Faint(true)
	}
	return r
}

// FormatValue converts a sql.Value to a human-readable string.
func FormatValue(v sql.Value) string {
	switch v.Type {
	case sql.TypeInt:
		return strconv.FormatInt(v.I64, 10)
	case sql.TypeString:
		return v.S
	default:
		return "NULL"
	}
}

// Table writes cols as a header followed by rows and a row count.
func (r *Renderer) Table(w io.Writer, cols []string, rows []sql.Row) error {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			s := FormatValue(v)
			cells[i][j] = s
			if j < len(widths) && lipgloss.Width(s) > widths[j] {
				widths[j] = lipgloss.Width(s)
			}
		}
	}

	var b strings.Builder
	b.WriteString(r.line(r.header, cols, widths))
	b.WriteByte('\n')

	rule := make([]string, len(widths))
	for i, wd := range widths {
		rule[i] = strings.Repeat("-", wd)
	}
	b.WriteString(r.rule.Render(strings.Join(rule, "-+-")))
	b.WriteByte('\n')

	for _, row := range cells {
		b.WriteString(r.line(r.cell, row, widths))
		b.WriteByte('\n')
	}

	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	b.WriteString(r.footer.Render(fmt.Sprintf("(%d %s)", len(rows), noun)))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) line(style lipgloss.Style, values []string, widths []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		pad := 0
		if i < len(widths) {
			pad = widths[i] - lipgloss.Width(v)
		}
		if i == len(values)-1 {
			// no trailing spaces on the last column
			pad = 0
		}
		parts[i] = style.Render(v) + strings.Repeat(" ", max(pad, 0))
	}
	return strings.Join(parts, " | ")
}
