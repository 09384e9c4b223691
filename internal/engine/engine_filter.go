package engine

import (
	"errors"
	"fmt"
	"sort"

	"treeDB/internal/sql"
	"treeDB/internal/storage"
)

var (
	// ErrUnknownColumn is returned when a condition names a column the
	// table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrBadComparison is returned for comparisons that do not have
	// exactly one column side and one literal side.
	ErrBadComparison = errors.New("invalid comparison")
)

// Filter returns the rows of t matching cond, in insertion order. A nil cond
// matches every row.
//
// Leaves on indexed columns are answered by the column's AVL index, other
// leaves by a full scan. AND and OR combine their children as multisets of
// rows compared by value: AND keeps min(count left, count right) copies of
// a row, OR keeps max(count left, count right).
func Filter(t storage.Table, cond sql.Condition) ([]sql.Row, error) {
	rows := t.Rows()

	var ids []int
	if cond == nil {
		ids = make([]int, len(rows))
		for i := range rows {
			ids[i] = i
		}
	} else {
		ev := &evaluator{table: t, rows: rows, cols: t.Columns()}
		var err error
		ids, err = ev.eval(cond)
		if err != nil {
			return nil, err
		}
		sort.Ints(ids)
	}

	out := make([]sql.Row, 0, len(ids))
	for _, id := range ids {
		rowCopy := make(sql.Row, len(rows[id]))
		copy(rowCopy, rows[id])
		out = append(out, rowCopy)
	}
	return out, nil
}

// evaluator resolves a condition tree to row ids of one table.
type evaluator struct {
	table storage.Table
	rows  []sql.Row
	cols  []sql.Column
}

func (ev *evaluator) eval(cond sql.Condition) ([]int, error) {
	switch c := cond.(type) {
	case *sql.Comparison:
		return ev.leaf(c)

	case *sql.Logical:
		left, err := ev.eval(c.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.eval(c.Right)
		if err != nil {
			return nil, err
		}
		switch c.Op {
		case sql.OpAnd:
			return ev.and(left, right), nil
		case sql.OpOr:
			return ev.or(left, right), nil
		default:
			return nil, sql.Semantic(ErrBadComparison, "unknown logical operator %q", c.Op)
		}

	default:
		return nil, fmt.Errorf("unsupported condition type %T", cond)
	}
}

// leaf answers a single comparison. The literal side is folded (strings
// lower-cased) and compared against the folded column value.
func (ev *evaluator) leaf(c *sql.Comparison) ([]int, error) {
	col, lit, op := c.Left, c.Right, c.Op
	switch {
	case col.IsColumn && !lit.IsColumn:
	case !col.IsColumn && lit.IsColumn:
		col, lit, op = lit, col, op.Flip()
	case col.IsColumn && lit.IsColumn:
		return nil, sql.Semantic(ErrBadComparison, "%s compares two columns", c)
	default:
		return nil, sql.Semantic(ErrBadComparison, "%s does not reference a column", c)
	}

	pos := -1
	for i, def := range ev.cols {
		if def.Name == col.Column {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, sql.Semantic(ErrUnknownColumn, "%s in table %s", col.Column, ev.table.Name())
	}

	colType := ev.cols[pos].Type
	if colType == sql.TypeUnknown {
		// No rows yet, so nothing can match.
		return nil, nil
	}
	if lit.Value.Type != colType {
		return nil, sql.Semantic(storage.ErrTypeMismatch,
			"column %s is %v, compared with %v %s", col.Column, colType, lit.Value.Type, lit.Value)
	}
	key := lit.Value.Fold()

	if idx, ok := ev.table.Index(col.Column); ok {
		switch op {
		case sql.OpEq:
			return idx.Equal(key), nil
		case sql.OpLt:
			return idx.LessThan(key), nil
		case sql.OpGt:
			return idx.GreaterThan(key), nil
		}
		return nil, sql.Semantic(ErrBadComparison, "unknown operator %q", op)
	}

	var ids []int
	for id, row := range ev.rows {
		cmp := sql.Compare(row[pos].Fold(), key)
		var match bool
		switch op {
		case sql.OpEq:
			match = cmp == 0
		case sql.OpLt:
			match = cmp < 0
		case sql.OpGt:
			match = cmp > 0
		default:
			return nil, sql.Semantic(ErrBadComparison, "unknown operator %q", op)
		}
		if match {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// group buckets row ids by the value tuple of their row, keeping order.
func (ev *evaluator) group(ids []int) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for _, id := range ids {
		k := ev.rows[id].Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], id)
	}
	return groups, order
}

// and is multiset intersection: per value tuple, min(count left, count
// right) rows. Row ids present on both sides are preferred.
func (ev *evaluator) and(left, right []int) []int {
	lg, order := ev.group(left)
	rg, _ := ev.group(right)

	var out []int
	for _, k := range order {
		l, r := lg[k], rg[k]
		n := min(len(l), len(r))
		if n == 0 {
			continue
		}
		inRight := make(map[int]bool, len(r))
		for _, id := range r {
			inRight[id] = true
		}
		picked := pick(l, n, func(id int) bool { return inRight[id] })
		out = append(out, picked...)
	}
	return out
}

// or is multiset union: per value tuple, max(count left, count right) rows.
// All left ids are kept; right ids not already on the left fill up the rest.
func (ev *evaluator) or(left, right []int) []int {
	lg, order := ev.group(left)
	rg, rorder := ev.group(right)
	for _, k := range rorder {
		if _, ok := lg[k]; !ok {
			order = append(order, k)
		}
	}

	var out []int
	for _, k := range order {
		l, r := lg[k], rg[k]
		out = append(out, l...)
		if len(r) <= len(l) {
			continue
		}
		inLeft := make(map[int]bool, len(l))
		for _, id := range l {
			inLeft[id] = true
		}
		extra := len(r) - len(l)
		out = append(out, pick(r, extra, func(id int) bool { return !inLeft[id] })...)
	}
	return out
}

// pick returns n ids from ids, taking those satisfying prefer first and
// keeping the original order within each of the two passes.
func pick(ids []int, n int, prefer func(int) bool) []int {
	out := make([]int, 0, n)
	for _, id := range ids {
		if len(out) == n {
			return out
		}
		if prefer(id) {
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if len(out) == n {
			return out
		}
		if !prefer(id) {
			out = append(out, id)
		}
	}
	return out
}
