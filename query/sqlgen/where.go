package sqlgen

import (
	"strings"

	"github.com/satishbabariya/clauseql/query/ast"
)

var comparisonSQL = map[ast.ComparisonOperator]string{
	ast.OpEquals:         "=",
	ast.OpNotEquals:      "<>",
	ast.OpGreaterThan:    ">",
	ast.OpLessThan:       "<",
	ast.OpGreaterOrEqual: ">=",
	ast.OpLessOrEqual:    "<=",
	ast.OpLike:           "LIKE",
}

// condition renders a condition tree. Parameters are appended in the order
// their placeholders appear in the output.
func (g *generator) condition(c ast.Condition) (string, error) {
	switch c := c.(type) {
	case ast.Comparison:
		return g.comparison(c)

	case ast.SetMembership:
		if len(c.Values) == 0 {
			return "", g.errorf("%s has an empty IN list", c.Column)
		}
		placeholders := make([]string, len(c.Values))
		for i, v := range c.Values {
			placeholders[i] = g.bind(v)
		}
		op := "IN"
		if c.Negated {
			op = "NOT IN"
		}
		return g.ident(c.Column) + " " + g.kw(op) + " (" + strings.Join(placeholders, ", ") + ")", nil

	case ast.NullTest:
		op := "IS NULL"
		if c.Negated {
			op = "IS NOT NULL"
		}
		return g.ident(c.Column) + " " + g.kw(op), nil

	case ast.And:
		return g.junction("AND", c.Children)

	case ast.Or:
		return g.junction("OR", c.Children)

	case ast.Not:
		if c.Child == nil {
			return "", g.errorf("NOT has no condition")
		}
		inner, err := g.condition(c.Child)
		if err != nil {
			return "", err
		}
		return g.kw("NOT") + " (" + inner + ")", nil

	case nil:
		return "", g.errorf("missing condition")

	default:
		return "", g.errorf("unsupported condition type %T", c)
	}
}

func (g *generator) comparison(c ast.Comparison) (string, error) {
	op, ok := comparisonSQL[c.Operator]
	if !ok {
		return "", g.errorf("unsupported operator %q", c.Operator)
	}
	if c.Left == "" {
		return "", g.errorf("comparison has no column")
	}

	var right string
	if ref, isRef := c.Right.(ast.ColumnRef); isRef {
		right = g.ident(string(ref))
	} else {
		right = g.bind(c.Right)
	}
	return g.ident(c.Left) + " " + g.kw(op) + " " + right, nil
}

// junction joins children with AND or OR. Composite children are wrapped in
// parentheses so the output keeps the tree's grouping.
func (g *generator) junction(op string, children []ast.Condition) (string, error) {
	switch len(children) {
	case 0:
		return "", g.errorf("empty %s group", op)
	case 1:
		return g.condition(children[0])
	}

	parts := make([]string, len(children))
	for i, child := range children {
		sql, err := g.condition(child)
		if err != nil {
			return "", err
		}
		if isComposite(child) {
			sql = "(" + sql + ")"
		}
		parts[i] = sql
	}
	return strings.Join(parts, " "+g.kw(op)+" "), nil
}

func isComposite(c ast.Condition) bool {
	switch c := c.(type) {
	case ast.And:
		return len(c.Children) > 1
	case ast.Or:
		return len(c.Children) > 1
	}
	return false
}
