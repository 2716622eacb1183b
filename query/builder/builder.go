// Package builder provides a fluent query builder API.
//
// A Builder is an immutable value: every method returns a new Builder over
// its own copy of the query, so a partially built query can be shared and
// extended in several directions.
//
//	base := builder.From("users").Where(builder.Gt("age", 18))
//	admins := base.Where(builder.Eq("role", "admin"))
//	sql, err := admins.OrderBy("name", ast.SortAsc).Limit(10).Compile(sqlgen.DefaultProfile())
package builder

import (
	"fmt"

	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/compiler"
	"github.com/satishbabariya/clauseql/query/parser"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

// Builder assembles a query AST.
type Builder struct {
	q   *ast.Query
	err error
}

// From starts a SELECT over table.
func From(table string) Builder {
	return Builder{q: &ast.Query{Kind: ast.Select, From: table}}
}

// Insert starts an INSERT into table. Columns may be empty.
func Insert(table string, columns ...string) Builder {
	return Builder{q: &ast.Query{
		Kind:   ast.Insert,
		Insert: &ast.InsertClause{Table: table, Columns: append([]string(nil), columns...)},
	}}
}

// Update starts an UPDATE of table.
func Update(table string) Builder {
	return Builder{q: &ast.Query{Kind: ast.Update, From: table}}
}

// Delete starts a DELETE from table.
func Delete(table string) Builder {
	return Builder{q: &ast.Query{Kind: ast.Delete, From: table}}
}

// derive returns a builder over a copy of the query. The first error sticks.
func (b Builder) derive(fn func(q *ast.Query) error) Builder {
	if b.err != nil {
		return b
	}
	if b.q == nil {
		return Builder{err: fmt.Errorf("%w: builder has no statement; start with From, Insert, Update or Delete", compiler.ErrInvalidQuery)}
	}
	q := b.q.Clone()
	if err := fn(q); err != nil {
		return Builder{q: b.q, err: err}
	}
	return Builder{q: q}
}

// Select adds columns to the selection list. "*" selects every column.
func (b Builder) Select(columns ...string) Builder {
	return b.derive(func(q *ast.Query) error {
		for _, c := range columns {
			if c == "*" {
				q.Select = append(q.Select, ast.Wildcard{})
				continue
			}
			q.Select = append(q.Select, ast.Column{Name: c})
		}
		return nil
	})
}

func (b Builder) aggregate(fn ast.AggregateFunction, column, alias string) Builder {
	return b.derive(func(q *ast.Query) error {
		if column == "" {
			return fmt.Errorf("%s requires a column", fn.SQL())
		}
		q.Select = append(q.Select, ast.Aggregate{Function: fn, Column: column, Alias: alias})
		return nil
	})
}

// Count adds COUNT(column). Use "*" to count rows.
func (b Builder) Count(column, alias string) Builder { return b.aggregate(ast.AggCount, column, alias) }

// Sum adds SUM(column).
func (b Builder) Sum(column, alias string) Builder { return b.aggregate(ast.AggSum, column, alias) }

// Avg adds AVG(column).
func (b Builder) Avg(column, alias string) Builder { return b.aggregate(ast.AggAvg, column, alias) }

// Min adds MIN(column).
func (b Builder) Min(column, alias string) Builder { return b.aggregate(ast.AggMin, column, alias) }

// Max adds MAX(column).
func (b Builder) Max(column, alias string) Builder { return b.aggregate(ast.AggMax, column, alias) }

// Join adds a join. on may be nil.
func (b Builder) Join(table string, joinType ast.JoinType, on ast.Condition) Builder {
	return b.derive(func(q *ast.Query) error {
		if joinType == "" {
			joinType = ast.InnerJoin
		}
		q.Joins = append(q.Joins, ast.JoinClause{Type: joinType, Table: table, On: on})
		return nil
	})
}

// Where ANDs cond into the WHERE clause.
func (b Builder) Where(cond ast.Condition) Builder {
	return b.derive(func(q *ast.Query) error {
		q.Where = ast.Conjoin(q.Where, cond)
		return nil
	})
}

// WhereText parses text with the condition grammar and ANDs it into the
// WHERE clause.
func (b Builder) WhereText(text string) Builder {
	cond, err := parser.ParseCondition(text)
	if err != nil {
		return b.derive(func(*ast.Query) error { return err })
	}
	return b.Where(cond)
}

// Having ANDs cond into the HAVING clause.
func (b Builder) Having(cond ast.Condition) Builder {
	return b.derive(func(q *ast.Query) error {
		q.Having = ast.Conjoin(q.Having, cond)
		return nil
	})
}

// GroupBy appends grouping columns.
func (b Builder) GroupBy(columns ...string) Builder {
	return b.derive(func(q *ast.Query) error {
		q.GroupBy = append(q.GroupBy, columns...)
		return nil
	})
}

// OrderBy appends an ordering term.
func (b Builder) OrderBy(column string, dir ast.SortDirection) Builder {
	return b.derive(func(q *ast.Query) error {
		if dir == "" {
			dir = ast.SortAsc
		}
		q.OrderBy = append(q.OrderBy, ast.OrderByClause{Column: column, Direction: dir})
		return nil
	})
}

// Limit sets the row limit.
func (b Builder) Limit(n int) Builder {
	return b.derive(func(q *ast.Query) error {
		if n < 0 {
			return fmt.Errorf("limit must be non-negative, got %d", n)
		}
		q.Limit = &n
		return nil
	})
}

// Offset sets the row offset.
func (b Builder) Offset(n int) Builder {
	return b.derive(func(q *ast.Query) error {
		if n < 0 {
			return fmt.Errorf("offset must be non-negative, got %d", n)
		}
		q.Offset = &n
		return nil
	})
}

// Values appends values to an INSERT.
func (b Builder) Values(values ...any) Builder {
	return b.derive(func(q *ast.Query) error {
		if q.Kind != ast.Insert {
			return fmt.Errorf("Values requires an INSERT, not %s", q.Kind)
		}
		q.Insert.Values = append(q.Insert.Values, values...)
		return nil
	})
}

// Set appends an assignment to an UPDATE.
func (b Builder) Set(column string, value any) Builder {
	return b.derive(func(q *ast.Query) error {
		if q.Kind != ast.Update {
			return fmt.Errorf("Set requires an UPDATE, not %s", q.Kind)
		}
		q.Set = append(q.Set, ast.Assignment{Column: column, Value: value})
		return nil
	})
}

// Returning sets the RETURNING list. "*" returns every column.
func (b Builder) Returning(columns ...string) Builder {
	return b.derive(func(q *ast.Query) error {
		if q.Kind == ast.Select {
			return fmt.Errorf("RETURNING requires INSERT, UPDATE or DELETE")
		}
		if len(columns) == 1 && columns[0] == "*" {
			q.Returning = &ast.ReturningClause{All: true}
			return nil
		}
		q.Returning = &ast.ReturningClause{Columns: append([]string(nil), columns...)}
		return nil
	})
}

// Err returns the first error recorded while building.
func (b Builder) Err() error {
	return b.err
}

// AST returns a copy of the built query.
func (b Builder) AST() (*ast.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.q == nil {
		return nil, fmt.Errorf("%w: builder has no statement", compiler.ErrInvalidQuery)
	}
	return b.q.Clone(), nil
}

// Compile generates SQL for the built query.
func (b Builder) Compile(profile sqlgen.Profile) (*sqlgen.CompiledQuery, error) {
	q, err := b.AST()
	if err != nil {
		return nil, err
	}
	return compiler.CompileAST(q, profile)
}

// String renders the query in its debugging form.
func (b Builder) String() string {
	if b.err != nil {
		return "error: " + b.err.Error()
	}
	if b.q == nil {
		return "<empty>"
	}
	return b.q.String()
}
