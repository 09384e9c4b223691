package sql

import "fmt"

// Statement is the common interface for all SQL statements.
type Statement interface {
	stmtNode()
}

// CreateTableStmt represents a parsed CREATE statement.
type CreateTableStmt struct {
	TableName string
	Columns   []Column
}

// InsertStmt represents a parsed INSERT statement.
type InsertStmt struct {
	TableName string
	Values    Row
}

// SelectStmt represents a parsed SELECT statement. Where is nil when the
// statement has no WHERE clause.
type SelectStmt struct {
	TableName string
	Where     Condition
}

// LoadStmt replaces the database with the contents of Filename.
type LoadStmt struct {
	Filename string
}

// SaveStmt writes the database to Filename, or to the last loaded file when
// Filename is empty.
type SaveStmt struct {
	Filename string
}

// ExitStmt ends the session.
type ExitStmt struct{}

func (*CreateTableStmt) stmtNode() {}
func (*InsertStmt) stmtNode()      {}
func (*SelectStmt) stmtNode()      {}
func (*LoadStmt) stmtNode()        {}
func (*SaveStmt) stmtNode()        {}
func (*ExitStmt) stmtNode()        {}

// CompareOp is a relational operator of a WHERE leaf.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpLt CompareOp = "<"
	OpGt CompareOp = ">"
)

// Flip returns the operator that gives the same result with operands swapped.
func (op CompareOp) Flip() CompareOp {
	switch op {
	case OpLt:
		return OpGt
	case OpGt:
		return OpLt
	default:
		return op
	}
}

// LogicalOp combines two conditions.
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Condition is a WHERE clause tree: either a *Comparison or a *Logical.
type Condition interface {
	condNode()
	String() string
}

// Operand is one side of a comparison: a column reference or a literal.
type Operand struct {
	Column   string // set when IsColumn
	Value    Value  // set otherwise
	IsColumn bool
}

// ColumnRef returns an operand naming a column.
func ColumnRef(name string) Operand { return Operand{Column: name, IsColumn: true} }

// Literal returns an operand holding v.
func Literal(v Value) Operand { return Operand{Value: v} }

func (o Operand) String() string {
	if o.IsColumn {
		return o.Column
	}
	return o.Value.String()
}

// Comparison is a leaf of the condition tree.
type Comparison struct {
	Left  Operand
	Op    CompareOp
	Right Operand
}

// Logical combines two subtrees with AND or OR.
type Logical struct {
	Left  Condition
	Op    LogicalOp
	Right Condition
}

func (*Comparison) condNode() {}
func (*Logical) condNode()    {}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%s) %s (%s)", l.Left, l.Op, l.Right)
}
