package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType represents the logical type of a value in a column.
type DataType int

const (
	// TypeUnknown is the type of a column that has not received a row yet.
	TypeUnknown DataType = iota
	TypeInt
	TypeString
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Value represents a single cell in a table (one column in one row).
// Only the field matching Type should be read.
type Value struct {
	Type DataType

	I64 int64  // for TypeInt
	S   string // for TypeString
}

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{Type: TypeInt, I64: i} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Type: TypeString, S: s} }

// Fold returns the value used for comparisons: strings are lower-cased,
// integers are returned unchanged.
func (v Value) Fold() Value {
	if v.Type == TypeString {
		return Value{Type: TypeString, S: strings.ToLower(v.S)}
	}
	return v
}

// String renders the value the way a user would type it back.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.I64, 10)
	case TypeString:
		return "'" + strings.ReplaceAll(v.S, "'", "''") + "'"
	default:
		return "NULL"
	}
}

// Compare orders two values of the same type. Values of different types are
// ordered by type so that Compare stays total.
func Compare(a, b Value) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}
	switch a.Type {
	case TypeInt:
		switch {
		case a.I64 < b.I64:
			return -1
		case a.I64 > b.I64:
			return 1
		}
		return 0
	case TypeString:
		return strings.Compare(a.S, b.S)
	default:
		return 0
	}
}

// Row represents one record in a table: a slice of Values, one per column.
type Row []Value

// Equal reports whether two rows hold the same value tuple.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i].Type != o[i].Type || Compare(r[i], o[i]) != 0 {
			return false
		}
	}
	return true
}

// Key encodes the row as a string usable as a map key. Two rows have the
// same key exactly when they are Equal.
func (r Row) Key() string {
	var b strings.Builder
	for _, v := range r {
		switch v.Type {
		case TypeInt:
			b.WriteByte('i')
			b.WriteString(strconv.FormatInt(v.I64, 10))
		case TypeString:
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(v.S)))
			b.WriteByte(':')
			b.WriteString(v.S)
		default:
			b.WriteByte('n')
		}
		b.WriteByte(';')
	}
	return b.String()
}

func (r Row) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Column describes metadata for a single column in a table.
type Column struct {
	Name    string
	Type    DataType
	Indexed bool
}
