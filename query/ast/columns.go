package ast

import (
	"fmt"
	"strings"
)

// SelectColumn is an item of the selection list: Wildcard, Column or Aggregate.
type SelectColumn interface {
	isSelectColumn()
	String() string
}

// Wildcard selects every column (`*`).
type Wildcard struct{}

// Column selects a single column or expression.
type Column struct {
	Name string
}

// AggregateFunction names an aggregation function.
type AggregateFunction string

const (
	AggSum   AggregateFunction = "sum"
	AggCount AggregateFunction = "cnt"
	AggAvg   AggregateFunction = "avg"
	AggMin   AggregateFunction = "min"
	AggMax   AggregateFunction = "max"
)

// SQL returns the upper-case SQL function name.
func (f AggregateFunction) SQL() string {
	if f == AggCount {
		return "COUNT"
	}
	return strings.ToUpper(string(f))
}

// Aggregate is FUNC(column) with an optional alias.
type Aggregate struct {
	Function AggregateFunction
	Column   string
	Alias    string
}

func (Wildcard) isSelectColumn()  {}
func (Column) isSelectColumn()    {}
func (Aggregate) isSelectColumn() {}

func (Wildcard) String() string { return "*" }

func (c Column) String() string { return c.Name }

func (a Aggregate) String() string {
	s := fmt.Sprintf("%s(%s)", a.Function.SQL(), a.Column)
	if a.Alias != "" {
		s += " as " + a.Alias
	}
	return s
}
