package sql

import "strings"

// parseSelect parses a SELECT statement.
// Supported forms (case-insensitive keywords, flexible spaces):
//
//	SELECT FROM users;
//	SELECT FROM users WHERE id = 1;
//	SELECT FROM users WHERE (id > 0) AND (name = 'alice');
func (p *parser) parseSelect() (Statement, error) {
	p.usage = usageSelect
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	tableName, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{TableName: tableName}
	if !p.tok.Is(TokenKeyword, "WHERE") {
		if err := p.finish("WHERE or end of statement"); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	where, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.finish("AND, OR or end of statement"); err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}

// parseExpr parses term ((AND | OR) term)*. AND and OR share one precedence
// level and associate to the left.
func (p *parser) parseExpr() (Condition, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.tok.Is(TokenKeyword, "AND") || p.tok.Is(TokenKeyword, "OR") {
		op := LogicalOp(strings.ToUpper(p.tok.Text))
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Logical{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseTerm parses a parenthesised expression or a single comparison.
func (p *parser) parseTerm() (Condition, error) {
	if p.tok.Is(TokenParenthesis, "(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.tok.Is(TokenParenthesis, ")") {
			return nil, p.syntaxError("AND, OR or ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return cond, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenOperator {
		return nil, p.syntaxError("'=', '<' or '>'")
	}
	op := CompareOp(p.tok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &Comparison{Left: left, Op: op, Right: right}, nil
}

func (p *parser) parseOperand() (Operand, error) {
	switch p.tok.Kind {
	case TokenIdentifier:
		name, err := p.expectIdentifier("column name")
		return ColumnRef(name), err
	case TokenKeyword:
		_, err := p.expectIdentifier("column name")
		return Operand{}, err
	case TokenNumber, TokenQuoted:
		v, err := p.parseLiteral()
		return Literal(v), err
	default:
		return Operand{}, p.syntaxError("column name or literal")
	}
}
