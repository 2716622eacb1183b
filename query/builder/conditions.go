package builder

import (
	"github.com/satishbabariya/clauseql/query/ast"
)

// Eq builds `column = value`.
func Eq(column string, value any) ast.Condition { return compare(column, ast.OpEquals, value) }

// Ne builds `column <> value`.
func Ne(column string, value any) ast.Condition { return compare(column, ast.OpNotEquals, value) }

// Gt builds `column > value`.
func Gt(column string, value any) ast.Condition { return compare(column, ast.OpGreaterThan, value) }

// Gte builds `column >= value`.
func Gte(column string, value any) ast.Condition {
	return compare(column, ast.OpGreaterOrEqual, value)
}

// Lt builds `column < value`.
func Lt(column string, value any) ast.Condition { return compare(column, ast.OpLessThan, value) }

// Lte builds `column <= value`.
func Lte(column string, value any) ast.Condition { return compare(column, ast.OpLessOrEqual, value) }

// Like builds `column LIKE pattern`.
func Like(column, pattern string) ast.Condition { return compare(column, ast.OpLike, pattern) }

func compare(column string, op ast.ComparisonOperator, value any) ast.Condition {
	return ast.Comparison{Left: column, Operator: op, Right: value}
}

// In builds `column IN (values...)`.
func In(column string, values ...any) ast.Condition {
	return ast.SetMembership{Column: column, Values: append([]any(nil), values...)}
}

// NotIn builds `column NOT IN (values...)`.
func NotIn(column string, values ...any) ast.Condition {
	return ast.SetMembership{Column: column, Values: append([]any(nil), values...), Negated: true}
}

// IsNull builds `column IS NULL`.
func IsNull(column string) ast.Condition { return ast.NullTest{Column: column} }

// NotNull builds `column IS NOT NULL`.
func NotNull(column string) ast.Condition { return ast.NullTest{Column: column, Negated: true} }

// And combines conditions with AND.
func And(conds ...ast.Condition) ast.Condition { return ast.NewAnd(conds...) }

// Or combines conditions with OR.
func Or(conds ...ast.Condition) ast.Condition { return ast.NewOr(conds...) }

// Not negates cond.
func Not(cond ast.Condition) ast.Condition { return ast.Not{Child: cond} }

// Col marks a comparison operand as a column, for join conditions:
//
//	builder.Eq("users.id", builder.Col("orders.user_id"))
func Col(name string) ast.ColumnRef { return ast.ColumnRef(name) }
