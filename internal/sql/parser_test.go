package sql

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseCreateTable_Basic(t *testing.T) {
	query := "CREATE users (id INDEXED, name, active);"
	stmt, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ct, ok := stmt.(*CreateTableStmt)
	if !ok {
		t.Fatalf("expected *CreateTableStmt, got %T", stmt)
	}

	if ct.TableName != "users" {
		t.Fatalf("expected table name %q, got %q", "users", ct.TableName)
	}
	if len(ct.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(ct.Columns))
	}

	assertCol := func(idx int, name string, indexed bool) {
		if ct.Columns[idx].Name != name {
			t.Fatalf("column %d: expected name %q, got %q", idx, name, ct.Columns[idx].Name)
		}
		if ct.Columns[idx].Indexed != indexed {
			t.Fatalf("column %d: expected indexed=%v, got %v", idx, indexed, ct.Columns[idx].Indexed)
		}
		if ct.Columns[idx].Type != TypeUnknown {
			t.Fatalf("column %d: expected unknown type, got %v", idx, ct.Columns[idx].Type)
		}
	}

	assertCol(0, "id", true)
	assertCol(1, "name", false)
	assertCol(2, "active", false)
}

func TestParseCreateTable_CaseAndSpaces(t *testing.T) {
	query := "  create   Accounts  (  balance   indexed ,  owner  )  "
	stmt, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ct, ok := stmt.(*CreateTableStmt)
	if !ok {
		t.Fatalf("expected *CreateTableStmt, got %T", stmt)
	}
	if ct.TableName != "Accounts" {
		t.Fatalf("expected table name %q, got %q", "Accounts", ct.TableName)
	}
	if len(ct.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(ct.Columns))
	}
	if ct.Columns[0].Name != "balance" || !ct.Columns[0].Indexed {
		t.Fatalf("unexpected first column: %+v", ct.Columns[0])
	}
	if ct.Columns[1].Name != "owner" || ct.Columns[1].Indexed {
		t.Fatalf("unexpected second column: %+v", ct.Columns[1])
	}
}

func TestParseCreateTable_ColumnNamedIndexed(t *testing.T) {
	stmt, err := Parse("CREATE t (indexed INDEXED, indexed2)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ct := stmt.(*CreateTableStmt)
	if ct.Columns[0].Name != "indexed" || !ct.Columns[0].Indexed {
		t.Fatalf("unexpected first column: %+v", ct.Columns[0])
	}
	if ct.Columns[1].Name != "indexed2" || ct.Columns[1].Indexed {
		t.Fatalf("unexpected second column: %+v", ct.Columns[1])
	}
}

func TestParseInsert_Basic(t *testing.T) {
	query := "INSERT INTO users VALUES (1, 'Alice', -7);"
	stmt, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ins, ok := stmt.(*InsertStmt)
	if !ok {
		t.Fatalf("expected *InsertStmt, got %T", stmt)
	}
	if ins.TableName != "users" {
		t.Fatalf("expected table name %q, got %q", "users", ins.TableName)
	}
	if len(ins.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(ins.Values))
	}
	if ins.Values[0].Type != TypeInt || ins.Values[0].I64 != 1 {
		t.Fatalf("unexpected first value: %+v", ins.Values[0])
	}
	if ins.Values[1].Type != TypeString || ins.Values[1].S != "Alice" {
		t.Fatalf("unexpected second value: %+v", ins.Values[1])
	}
	if ins.Values[2].Type != TypeInt || ins.Values[2].I64 != -7 {
		t.Fatalf("unexpected third value: %+v", ins.Values[2])
	}
}

func TestParseInsert_OptionalIntoAndValues(t *testing.T) {
	for _, query := range []string{
		`INSERT t (2, "bob")`,
		`insert into t (2, "bob")`,
		`INSERT t values (2, "bob")`,
	} {
		stmt, err := Parse(query)
		if err != nil {
			t.Fatalf("%s: Parse failed: %v", query, err)
		}
		ins := stmt.(*InsertStmt)
		want := Row{IntValue(2), StringValue("bob")}
		if ins.TableName != "t" || !ins.Values.Equal(want) {
			t.Fatalf("%s: unexpected statement %+v", query, ins)
		}
	}
}

func TestParseSelect_NoWhere(t *testing.T) {
	stmt, err := Parse("SELECT FROM users;")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sel, ok := stmt.(*SelectStmt)
	if !ok {
		t.Fatalf("expected *SelectStmt, got %T", stmt)
	}
	if sel.TableName != "users" {
		t.Fatalf("expected table name %q, got %q", "users", sel.TableName)
	}
	if sel.Where != nil {
		t.Fatalf("expected no WHERE, got %v", sel.Where)
	}
}

func TestParseSelect_WhereComparison(t *testing.T) {
	stmt, err := Parse("SELECT FROM t WHERE name = 'ALICE'")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sel := stmt.(*SelectStmt)
	cmp, ok := sel.Where.(*Comparison)
	if !ok {
		t.Fatalf("expected *Comparison, got %T", sel.Where)
	}
	if !cmp.Left.IsColumn || cmp.Left.Column != "name" {
		t.Fatalf("unexpected left operand: %+v", cmp.Left)
	}
	if cmp.Op != OpEq {
		t.Fatalf("expected '=', got %q", cmp.Op)
	}
	if cmp.Right.IsColumn || cmp.Right.Value != StringValue("ALICE") {
		t.Fatalf("unexpected right operand: %+v", cmp.Right)
	}
}

func TestParseSelect_ParenthesisedAnd(t *testing.T) {
	stmt, err := Parse("SELECT FROM t WHERE (id > 0) AND (id < 2)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := &Logical{
		Left:  &Comparison{Left: ColumnRef("id"), Op: OpGt, Right: Literal(IntValue(0))},
		Op:    OpAnd,
		Right: &Comparison{Left: ColumnRef("id"), Op: OpLt, Right: Literal(IntValue(2))},
	}
	if got := stmt.(*SelectStmt).Where; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected condition:\n got  %v\n want %v", got, want)
	}
}

// AND and OR share one precedence level and associate to the left.
func TestParseSelect_SamePrecedenceLeftAssociative(t *testing.T) {
	stmt, err := Parse("SELECT FROM t WHERE a = 1 OR b = 2 AND c = 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	top, ok := stmt.(*SelectStmt).Where.(*Logical)
	if !ok || top.Op != OpAnd {
		t.Fatalf("expected top-level AND, got %v", stmt.(*SelectStmt).Where)
	}
	inner, ok := top.Left.(*Logical)
	if !ok || inner.Op != OpOr {
		t.Fatalf("expected OR on the left, got %v", top.Left)
	}
	if c, ok := top.Right.(*Comparison); !ok || c.Left.Column != "c" {
		t.Fatalf("expected c = 3 on the right, got %v", top.Right)
	}
}

func TestParseSelect_NestedParentheses(t *testing.T) {
	stmt, err := Parse("SELECT FROM t WHERE ((a = 1) OR (b = 'x')) AND (c > -5)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := stmt.(*SelectStmt).Where.String()
	want := "((a = 1) OR (b = 'x')) AND (c > -5)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseSelect_LiteralOnLeft(t *testing.T) {
	stmt, err := Parse("SELECT FROM t WHERE 0 < id")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cmp := stmt.(*SelectStmt).Where.(*Comparison)
	if cmp.Left.IsColumn || !cmp.Right.IsColumn || cmp.Op != OpLt {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}
}

func TestParseLoadSaveExit(t *testing.T) {
	stmt, err := Parse("LOAD data.db")
	if err != nil {
		t.Fatalf("Parse LOAD failed: %v", err)
	}
	if ld, ok := stmt.(*LoadStmt); !ok || ld.Filename != "data.db" {
		t.Fatalf("unexpected LOAD statement: %#v", stmt)
	}

	stmt, err = Parse(`load "/tmp/my db.bin";`)
	if err != nil {
		t.Fatalf("Parse quoted LOAD failed: %v", err)
	}
	if ld := stmt.(*LoadStmt); ld.Filename != "/tmp/my db.bin" {
		t.Fatalf("unexpected filename %q", ld.Filename)
	}

	stmt, err = Parse("SAVE")
	if err != nil {
		t.Fatalf("Parse SAVE failed: %v", err)
	}
	if sv, ok := stmt.(*SaveStmt); !ok || sv.Filename != "" {
		t.Fatalf("unexpected SAVE statement: %#v", stmt)
	}

	stmt, err = Parse("save backup.v2.db;")
	if err != nil {
		t.Fatalf("Parse SAVE with name failed: %v", err)
	}
	if sv := stmt.(*SaveStmt); sv.Filename != "backup.v2.db" {
		t.Fatalf("unexpected filename %q", sv.Filename)
	}

	stmt, err = Parse("exit;")
	if err != nil {
		t.Fatalf("Parse EXIT failed: %v", err)
	}
	if _, ok := stmt.(*ExitStmt); !ok {
		t.Fatalf("expected *ExitStmt, got %T", stmt)
	}
}

func TestParse_Deterministic(t *testing.T) {
	query := "SELECT FROM t WHERE (id > 0) AND (name = 'Bob') OR id = 7"
	a, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("parsing twice gave different results: %v vs %v", a, b)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		query    string
		kind     ErrorKind
		contains string
	}{
		{"", KindSyntax, "empty statement"},
		{"DROP t", KindSyntax, "unknown command"},
		{"CREATE t id)", KindSyntax, "expected '('"},
		{"CREATE t (id", KindSyntax, "end of input"},
		{"CREATE t (id,)", KindSyntax, "expected column name"},
		{"CREATE select (id)", KindReservedWord, `"select" is a reserved word`},
		{"CREATE t (from)", KindReservedWord, "reserved word"},
		{"INSERT t (1, 2", KindSyntax, "expected ',' or ')'"},
		{"INSERT t (a)", KindSyntax, "expected number or quoted string"},
		{"INSERT INTO values (1)", KindReservedWord, "reserved word"},
		{"SELECT t", KindSyntax, "expected FROM"},
		{"SELECT FROM t WHERE", KindSyntax, "expected column name or literal"},
		{"SELECT FROM t WHERE id", KindSyntax, "expected '=', '<' or '>'"},
		{"SELECT FROM t WHERE id <= 3", KindSyntax, "operator"},
		{"SELECT FROM t WHERE (id = 1", KindSyntax, "expected AND, OR or ')'"},
		{"SELECT FROM t WHERE id = 1 = 2", KindSyntax, "expected AND, OR or end of statement"},
		{"SELECT FROM t WHERE and = 1", KindReservedWord, "reserved word"},
		{"SELECT FROM t extra", KindSyntax, "expected WHERE or end of statement"},
		{"SELECT FROM t; SELECT FROM t", KindSyntax, "after ';'"},
		{"SELECT FROM t WHERE id # 1", KindLex, "unexpected character '#'"},
		{"INSERT t ('abc)", KindLex, "unterminated string"},
		{"LOAD", KindSyntax, "expected filename"},
		{"EXIT now", KindSyntax, "expected end of statement"},
	}

	for _, tc := range tests {
		stmt, err := Parse(tc.query)
		if err == nil {
			t.Fatalf("%q: expected error, got %#v", tc.query, stmt)
		}
		if stmt != nil {
			t.Fatalf("%q: expected nil statement on error, got %#v", tc.query, stmt)
		}
		var perr *Error
		if !errors.As(err, &perr) {
			t.Fatalf("%q: expected *Error, got %T", tc.query, err)
		}
		if perr.Kind != tc.kind {
			t.Fatalf("%q: expected kind %v, got %v (%v)", tc.query, tc.kind, perr.Kind, err)
		}
		if !strings.Contains(err.Error(), tc.contains) {
			t.Fatalf("%q: expected error containing %q, got %q", tc.query, tc.contains, err.Error())
		}
	}
}

func TestParse_ErrorCarriesTokenAndUsage(t *testing.T) {
	_, err := Parse("INSERT t 1")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Token == nil || perr.Token.Kind != TokenNumber || perr.Token.Int != 1 {
		t.Fatalf("expected offending number token, got %+v", perr.Token)
	}
	if perr.Expected != "'('" {
		t.Fatalf("expected %q, got %q", "'('", perr.Expected)
	}
	if perr.Usage != usageInsert {
		t.Fatalf("expected INSERT usage, got %q", perr.Usage)
	}
	if !strings.Contains(err.Error(), "usage: INSERT") {
		t.Fatalf("usage missing from message: %q", err.Error())
	}

	_, err = Parse("CREATE t (id")
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Token == nil || perr.Token.Kind != TokenEOF {
		t.Fatalf("expected EOF token, got %+v", perr.Token)
	}
	if strings.Contains(err.Error(), `""`) {
		t.Fatalf("EOF should be reported without a value: %q", err.Error())
	}
}
