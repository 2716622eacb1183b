// Package ast defines the query AST (Abstract Syntax Tree).
//
// A Query is built once by the parser (or by the builder package) and is then
// treated as immutable: the generator never mutates it, and derivations go
// through Clone.
package ast

import (
	"fmt"
	"strings"
)

// StatementKind identifies the statement shape of a query.
type StatementKind int

const (
	Select StatementKind = iota
	Insert
	Update
	Delete
)

// String returns the SQL keyword for the statement kind.
func (k StatementKind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	default:
		return fmt.Sprintf("StatementKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k StatementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Query represents one parsed statement.
type Query struct {
	Kind      StatementKind
	From      string
	Select    []SelectColumn
	Joins     []JoinClause
	Where     Condition
	GroupBy   []string
	Having    Condition
	OrderBy   []OrderByClause
	Limit     *int
	Offset    *int
	Insert    *InsertClause
	Set       []Assignment
	Returning *ReturningClause
}

// OrderByClause represents ordering
type OrderByClause struct {
	Column    string        `yaml:"column"`
	Direction SortDirection `yaml:"direction"`
}

// SortDirection represents sort direction
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// JoinType is the kind of a JOIN clause.
type JoinType string

const (
	InnerJoin JoinType = "inner"
	LeftJoin  JoinType = "left"
	RightJoin JoinType = "right"
	FullJoin  JoinType = "full"
)

// JoinClause represents a JOIN against another table.
type JoinClause struct {
	Type  JoinType
	Table string
	On    Condition
}

// InsertClause holds the payload of an INSERT statement.
type InsertClause struct {
	Table   string
	Columns []string
	Values  []any
}

// Assignment is one `column = value` pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// ReturningClause lists the columns of a RETURNING clause. All means `*`.
type ReturningClause struct {
	All     bool
	Columns []string
}

// ColumnRef marks an operand that refers to a column rather than a value.
// It appears on the right side of comparisons parsed from ON clauses.
type ColumnRef string

// Clone returns a deep copy of the query. Conditions are immutable values
// and are shared rather than copied.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	c := *q
	c.Select = append([]SelectColumn(nil), q.Select...)
	c.Joins = append([]JoinClause(nil), q.Joins...)
	c.GroupBy = append([]string(nil), q.GroupBy...)
	c.OrderBy = append([]OrderByClause(nil), q.OrderBy...)
	c.Set = append([]Assignment(nil), q.Set...)
	if q.Limit != nil {
		n := *q.Limit
		c.Limit = &n
	}
	if q.Offset != nil {
		n := *q.Offset
		c.Offset = &n
	}
	if q.Insert != nil {
		c.Insert = &InsertClause{
			Table:   q.Insert.Table,
			Columns: append([]string(nil), q.Insert.Columns...),
			Values:  append([]any(nil), q.Insert.Values...),
		}
	}
	if q.Returning != nil {
		c.Returning = &ReturningClause{
			All:     q.Returning.All,
			Columns: append([]string(nil), q.Returning.Columns...),
		}
	}
	return &c
}

// Table returns the table a statement targets.
func (q *Query) Table() string {
	if q.Kind == Insert && q.Insert != nil {
		return q.Insert.Table
	}
	return q.From
}

// String renders the query in a compact debugging form.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString(q.Kind.String())
	if t := q.Table(); t != "" {
		fmt.Fprintf(&b, " %s", t)
	}
	if len(q.Select) > 0 {
		cols := make([]string, len(q.Select))
		for i, c := range q.Select {
			cols[i] = c.String()
		}
		fmt.Fprintf(&b, " select=[%s]", strings.Join(cols, ", "))
	}
	for _, j := range q.Joins {
		fmt.Fprintf(&b, " join=%s:%s", j.Type, j.Table)
		if j.On != nil {
			fmt.Fprintf(&b, "(%s)", j.On)
		}
	}
	if q.Where != nil {
		fmt.Fprintf(&b, " where=%s", q.Where)
	}
	if len(q.GroupBy) > 0 {
		fmt.Fprintf(&b, " group=[%s]", strings.Join(q.GroupBy, ", "))
	}
	if q.Having != nil {
		fmt.Fprintf(&b, " having=%s", q.Having)
	}
	for _, o := range q.OrderBy {
		fmt.Fprintf(&b, " order=%s/%s", o.Column, o.Direction)
	}
	if q.Limit != nil {
		fmt.Fprintf(&b, " limit=%d", *q.Limit)
	}
	if q.Offset != nil {
		fmt.Fprintf(&b, " offset=%d", *q.Offset)
	}
	return b.String()
}
