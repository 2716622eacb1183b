package sqlgen

import (
	"strings"

	"github.com/satishbabariya/clauseql/query/ast"
)

// selectColumns renders the selection list. An empty list selects `*`.
func (g *generator) selectColumns(cols []ast.SelectColumn) (string, error) {
	if len(cols) == 0 {
		return "*", nil
	}

	parts := make([]string, len(cols))
	for i, col := range cols {
		switch c := col.(type) {
		case ast.Wildcard:
			parts[i] = "*"
		case ast.Column:
			if c.Name == "" {
				return "", g.errorf("select column %d has no name", i+1)
			}
			parts[i] = g.ident(c.Name)
		case ast.Aggregate:
			sql, err := g.aggregate(c)
			if err != nil {
				return "", err
			}
			parts[i] = sql
		default:
			return "", g.errorf("unsupported select column type %T", col)
		}
	}
	return strings.Join(parts, ", "), nil
}

// aggregate renders FUNC(col) with an optional alias.
func (g *generator) aggregate(a ast.Aggregate) (string, error) {
	switch a.Function {
	case ast.AggSum, ast.AggCount, ast.AggAvg, ast.AggMin, ast.AggMax:
	default:
		return "", g.errorf("unsupported aggregate function %q", a.Function)
	}
	if a.Column == "" {
		return "", g.errorf("aggregate %s has no column", a.Function.SQL())
	}

	sql := g.kw(a.Function.SQL()) + "(" + g.ident(a.Column) + ")"
	if a.Alias != "" {
		sql += " " + g.kw("AS") + " " + g.ident(a.Alias)
	}
	return sql, nil
}
