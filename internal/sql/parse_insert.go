package sql

// parseInsert parses an INSERT statement.
// Example supported syntax:
//
//	INSERT INTO users VALUES (1, 'Alice');
//	INSERT users (2, "bob")
func (p *parser) parseInsert() (Statement, error) {
	p.usage = usageInsert
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Is(TokenKeyword, "INTO") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	tableName, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}

	if p.tok.Is(TokenKeyword, "VALUES") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var vals Row
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)

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
		return nil, p.syntaxError("',' or ')'")
	}

	if err := p.finish("end of statement"); err != nil {
		return nil, err
	}

	return &InsertStmt{
		TableName: tableName,
		Values:    vals,
	}, nil
}
