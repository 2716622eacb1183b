package ast

import (
	"fmt"
	"strings"
)

// Condition is a node of a WHERE, HAVING or ON expression tree.
// The set of implementations is closed: Comparison, SetMembership,
// NullTest, And, Or and Not.
type Condition interface {
	isCondition()
	String() string
}

// ComparisonOperator represents comparison operators
type ComparisonOperator string

const (
	OpEquals         ComparisonOperator = "="
	OpNotEquals      ComparisonOperator = "!="
	OpGreaterThan    ComparisonOperator = ">"
	OpLessThan       ComparisonOperator = "<"
	OpGreaterOrEqual ComparisonOperator = ">="
	OpLessOrEqual    ComparisonOperator = "<="
	OpLike           ComparisonOperator = "~"
)

// Operators lists the comparison operators in scan order: two-character
// operators come before the one-character operators they start with.
var Operators = []ComparisonOperator{
	OpGreaterOrEqual,
	OpLessOrEqual,
	OpNotEquals,
	OpGreaterThan,
	OpLessThan,
	OpEquals,
	OpLike,
}

// Comparison is `left operator right`. Right is a literal value or a ColumnRef.
type Comparison struct {
	Left     string
	Operator ComparisonOperator
	Right    any
}

// SetMembership is `column IN (values)` or, when Negated, `NOT IN`.
type SetMembership struct {
	Column  string
	Values  []any
	Negated bool
}

// NullTest is `column IS NULL` or, when Negated, `IS NOT NULL`.
type NullTest struct {
	Column  string
	Negated bool
}

// And is the conjunction of its children.
type And struct {
	Children []Condition
}

// Or is the disjunction of its children.
type Or struct {
	Children []Condition
}

// Not negates its child.
type Not struct {
	Child Condition
}

func (Comparison) isCondition()    {}
func (SetMembership) isCondition() {}
func (NullTest) isCondition()      {}
func (And) isCondition()           {}
func (Or) isCondition()            {}
func (Not) isCondition()           {}

// NewAnd builds an And node over a private copy of children.
func NewAnd(children ...Condition) And {
	return And{Children: append([]Condition(nil), children...)}
}

// NewOr builds an Or node over a private copy of children.
func NewOr(children ...Condition) Or {
	return Or{Children: append([]Condition(nil), children...)}
}

// Conjoin combines conditions with AND. Nil entries are skipped, nested And
// nodes are flattened, and a single remaining condition is returned as is.
func Conjoin(conds ...Condition) Condition {
	var flat []Condition
	for _, c := range conds {
		switch c := c.(type) {
		case nil:
		case And:
			flat = append(flat, c.Children...)
		default:
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return And{Children: flat}
	}
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Operator, FormatValue(c.Right))
}

func (s SetMembership) String() string {
	vals := make([]string, len(s.Values))
	for i, v := range s.Values {
		vals[i] = FormatValue(v)
	}
	op := "in"
	if s.Negated {
		op = "nin"
	}
	return fmt.Sprintf("%s %s (%s)", s.Column, op, strings.Join(vals, ", "))
}

func (n NullTest) String() string {
	if n.Negated {
		return n.Column + " is not null"
	}
	return n.Column + " is null"
}

func (a And) String() string { return "And[" + joinConditions(a.Children) + "]" }

func (o Or) String() string { return "Or[" + joinConditions(o.Children) + "]" }

func (n Not) String() string { return fmt.Sprintf("Not[%s]", n.Child) }

func joinConditions(conds []Condition) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders an operand for debugging output. Strings are quoted so
// that a coerced number and a string are distinguishable.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case ColumnRef:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
