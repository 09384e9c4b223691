package sql

import "strings"

// parseCreateTable parses:
//
//	CREATE users (id INDEXED, name)
func (p *parser) parseCreateTable() (Statement, error) {
	p.usage = usageCreate
	if err := p.advance(); err != nil {
		return nil, err
	}

	tableName, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var columns []Column
	for {
		name, err := p.expectIdentifier("column name")
		if err != nil {
			return nil, err
		}
		col := Column{Name: name}
		if p.tok.Kind == TokenIdentifier && strings.EqualFold(p.tok.Text, "INDEXED") {
			col.Indexed = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		columns = append(columns, col)

		if p.tok.Is(TokenPunctuation, ",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.Is(TokenParenthesis, ")") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			break
		}
		return nil, p.syntaxError("INDEXED, ',' or ')'")
	}

	if err := p.finish("end of statement"); err != nil {
		return nil, err
	}

	return &CreateTableStmt{
		TableName: tableName,
		Columns:   columns,
	}, nil
}
