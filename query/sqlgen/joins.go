package sqlgen

import (
	"github.com/satishbabariya/clauseql/query/ast"
)

var joinKeywords = map[ast.JoinType]string{
	ast.InnerJoin: "INNER JOIN",
	ast.LeftJoin:  "LEFT JOIN",
	ast.RightJoin: "RIGHT JOIN",
	ast.FullJoin:  "FULL JOIN",
}

// join renders one JOIN clause with its optional ON condition.
func (g *generator) join(j ast.JoinClause) (string, error) {
	joinType := j.Type
	if joinType == "" {
		joinType = ast.InnerJoin
	}
	keyword, ok := joinKeywords[joinType]
	if !ok {
		return "", g.errorf("unsupported join type %q", j.Type)
	}
	if j.Table == "" {
		return "", g.errorf("join has no table")
	}

	sql := g.kw(keyword) + " " + g.table(j.Table)
	if j.On != nil {
		on, err := g.condition(j.On)
		if err != nil {
			return "", err
		}
		sql += " " + g.kw("ON") + " " + on
	}
	return sql, nil
}
