// Package sqlgen generates SQL for different database dialects.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/clauseql/internal/debug"
	"github.com/satishbabariya/clauseql/query/ast"
)

// CompiledQuery is generated SQL together with its ordered parameters.
type CompiledQuery struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`

	profile Profile
}

// Profile returns the profile the query was generated with.
func (q *CompiledQuery) Profile() Profile {
	return q.profile
}

// Clone returns a copy whose parameter slice is not shared.
func (q *CompiledQuery) Clone() *CompiledQuery {
	c := *q
	c.Params = append(make([]any, 0, len(q.Params)), q.Params...)
	return &c
}

// GenerationError reports an AST that cannot be turned into SQL.
type GenerationError struct {
	Statement ast.StatementKind
	Message   string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error in %s statement: %s", e.Statement, e.Message)
}

// Generate renders q as SQL for the given profile. The query is not modified.
func Generate(q *ast.Query, profile Profile) (*CompiledQuery, error) {
	if q == nil {
		return nil, &GenerationError{Message: "query is nil"}
	}
	if err := profile.Validate(); err != nil {
		return nil, &GenerationError{Statement: q.Kind, Message: err.Error()}
	}

	g := newGenerator(profile, q.Kind)

	var (
		parts []string
		err   error
	)
	switch q.Kind {
	case ast.Select:
		parts, err = g.selectStatement(q)
	case ast.Insert:
		parts, err = g.insertStatement(q)
	case ast.Update:
		parts, err = g.updateStatement(q)
	case ast.Delete:
		parts, err = g.deleteStatement(q)
	default:
		err = g.errorf("unsupported statement kind")
	}
	if err != nil {
		return nil, err
	}

	sep := " "
	if profile.Pretty {
		sep = "\n"
	}
	out := &CompiledQuery{
		SQL:     strings.Join(parts, sep),
		Params:  g.params,
		profile: profile,
	}
	debug.Debug("Generated SQL", "dialect", string(profile.ResolvedDialect()), "statement", q.Kind.String(), "params", len(out.Params))
	return out, nil
}

// generator carries the state of one Generate call.
type generator struct {
	profile Profile
	dialect dialect
	stmt    ast.StatementKind
	params  []any
}

func newGenerator(profile Profile, stmt ast.StatementKind) *generator {
	return &generator{
		profile: profile,
		dialect: dialects[profile.ResolvedDialect()],
		stmt:    stmt,
		params:  []any{},
	}
}

func (g *generator) errorf(format string, args ...any) error {
	return &GenerationError{Statement: g.stmt, Message: fmt.Sprintf(format, args...)}
}

// kw applies the profile's keyword case.
func (g *generator) kw(keyword string) string {
	if g.profile.KeywordCase == KeywordLower {
		return strings.ToLower(keyword)
	}
	return keyword
}

// ident renders a column reference. `*`, qualified names and expressions are
// never quoted.
func (g *generator) ident(name string) string {
	if !g.profile.QuoteIdentifiers || name == "*" || strings.ContainsAny(name, ".()") {
		return name
	}
	return g.dialect.quote(name)
}

// table renders a table name with the profile's prefix.
func (g *generator) table(name string) string {
	return g.ident(g.profile.TablePrefix + name)
}

// numbered reports whether placeholders carry an index.
func (g *generator) numbered() bool {
	switch g.profile.Placeholder {
	case PlaceholderPostgres:
		return true
	case PlaceholderMySQL, PlaceholderSQLite:
		return false
	default:
		_, ok := g.dialect.(postgresDialect)
		return ok
	}
}

func (g *generator) placeholder(index int) string {
	switch g.profile.Placeholder {
	case PlaceholderPostgres:
		return "$" + strconv.Itoa(index)
	case PlaceholderMySQL, PlaceholderSQLite:
		return "?"
	default:
		return g.dialect.placeholder(index)
	}
}

// bind resolves a value to a placeholder or, when inlining, a SQL literal.
func (g *generator) bind(v any) string {
	if g.profile.Inline {
		return g.literal(v)
	}
	g.params = append(g.params, v)
	return g.placeholder(len(g.params))
}

func (g *generator) selectStatement(q *ast.Query) ([]string, error) {
	if q.From == "" {
		return nil, g.errorf("no table to select from")
	}

	cols, err := g.selectColumns(q.Select)
	if err != nil {
		return nil, err
	}
	parts := []string{
		g.kw("SELECT") + " " + cols,
		g.kw("FROM") + " " + g.table(q.From),
	}

	for _, j := range q.Joins {
		join, err := g.join(j)
		if err != nil {
			return nil, err
		}
		parts = append(parts, join)
	}

	if q.Where != nil {
		where, err := g.condition(q.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, g.kw("WHERE")+" "+where)
	}

	if len(q.GroupBy) > 0 {
		parts = append(parts, g.kw("GROUP BY")+" "+g.identList(q.GroupBy))
	}

	if q.Having != nil {
		having, err := g.condition(q.Having)
		if err != nil {
			return nil, err
		}
		parts = append(parts, g.kw("HAVING")+" "+having)
	}

	if len(q.OrderBy) > 0 {
		orderParts := make([]string, len(q.OrderBy))
		for i, ob := range q.OrderBy {
			direction := "ASC"
			if ob.Direction == ast.SortDesc {
				direction = "DESC"
			}
			orderParts[i] = g.ident(ob.Column) + " " + g.kw(direction)
		}
		parts = append(parts, g.kw("ORDER BY")+" "+strings.Join(orderParts, ", "))
	}

	// LIMIT and OFFSET are always inline integers
	switch {
	case q.Limit != nil:
		parts = append(parts, g.kw("LIMIT")+" "+strconv.Itoa(*q.Limit))
	case q.Offset != nil && g.dialect.offsetOnlyLimit() != "":
		parts = append(parts, g.kw("LIMIT")+" "+g.dialect.offsetOnlyLimit())
	}
	if q.Offset != nil {
		parts = append(parts, g.kw("OFFSET")+" "+strconv.Itoa(*q.Offset))
	}

	return parts, nil
}

func (g *generator) insertStatement(q *ast.Query) ([]string, error) {
	ins := q.Insert
	if ins == nil {
		return nil, g.errorf("missing insert payload")
	}
	if ins.Table == "" {
		return nil, g.errorf("no table to insert into")
	}
	if len(ins.Values) == 0 {
		return nil, g.errorf("no values to insert")
	}
	if len(ins.Columns) > 0 && len(ins.Columns) != len(ins.Values) {
		return nil, g.errorf("%d columns but %d values", len(ins.Columns), len(ins.Values))
	}

	head := g.kw("INSERT INTO") + " " + g.table(ins.Table)
	if len(ins.Columns) > 0 {
		head += " (" + g.identList(ins.Columns) + ")"
	}

	placeholders := make([]string, len(ins.Values))
	for i, v := range ins.Values {
		placeholders[i] = g.bind(v)
	}
	parts := []string{head, g.kw("VALUES") + " (" + strings.Join(placeholders, ", ") + ")"}

	return g.appendReturning(parts, q.Returning)
}

func (g *generator) updateStatement(q *ast.Query) ([]string, error) {
	if q.From == "" {
		return nil, g.errorf("no table to update")
	}
	if len(q.Set) == 0 {
		return nil, g.errorf("no assignments to set")
	}

	setParts := make([]string, len(q.Set))
	for i, a := range q.Set {
		if a.Column == "" {
			return nil, g.errorf("assignment %d has no column", i+1)
		}
		setParts[i] = g.ident(a.Column) + " = " + g.bind(a.Value)
	}
	parts := []string{
		g.kw("UPDATE") + " " + g.table(q.From),
		g.kw("SET") + " " + strings.Join(setParts, ", "),
	}

	if q.Where != nil {
		where, err := g.condition(q.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, g.kw("WHERE")+" "+where)
	}

	return g.appendReturning(parts, q.Returning)
}

func (g *generator) deleteStatement(q *ast.Query) ([]string, error) {
	if q.From == "" {
		return nil, g.errorf("no table to delete from")
	}

	parts := []string{g.kw("DELETE FROM") + " " + g.table(q.From)}
	if q.Where != nil {
		where, err := g.condition(q.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, g.kw("WHERE")+" "+where)
	}

	return g.appendReturning(parts, q.Returning)
}

func (g *generator) appendReturning(parts []string, ret *ast.ReturningClause) ([]string, error) {
	switch {
	case ret == nil:
		return parts, nil
	case ret.All:
		return append(parts, g.kw("RETURNING")+" *"), nil
	case len(ret.Columns) == 0:
		return nil, g.errorf("RETURNING clause lists no columns")
	default:
		return append(parts, g.kw("RETURNING")+" "+g.identList(ret.Columns)), nil
	}
}

func (g *generator) identList(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = g.ident(n)
	}
	return strings.Join(out, ", ")
}
