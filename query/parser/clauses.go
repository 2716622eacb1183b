package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/lexer"
)

var aggregateFunctions = map[string]ast.AggregateFunction{
	"sum":   ast.AggSum,
	"cnt":   ast.AggCount,
	"count": ast.AggCount,
	"avg":   ast.AggAvg,
	"min":   ast.AggMin,
	"max":   ast.AggMax,
}

var joinTypes = map[string]ast.JoinType{
	"inner": ast.InnerJoin,
	"left":  ast.LeftJoin,
	"right": ast.RightJoin,
	"full":  ast.FullJoin,
}

var countPattern = regexp.MustCompile(`^\d+$`)

// items splits a clause value on top-level commas and trims each item.
func items(tok lexer.Token) []segment {
	parts := splitTopLevel(tok.Value, ',', tok.ValueOffset())
	for i := range parts {
		parts[i] = parts[i].trim()
	}
	return parts
}

func parseSelect(tok lexer.Token) ([]ast.SelectColumn, error) {
	var cols []ast.SelectColumn
	for _, item := range items(tok) {
		text := item.text
		if text == "" {
			return nil, errorf(item.offset, "empty column in SELECT list")
		}
		if text == "*" {
			cols = append(cols, ast.Wildcard{})
			continue
		}
		if fn, rest, ok := strings.Cut(text, ":"); ok {
			if agg, known := aggregateFunctions[strings.ToLower(fn)]; known {
				col, err := parseAggregate(agg, rest, item.offset+len(fn)+1)
				if err != nil {
					return nil, err
				}
				cols = append(cols, col)
				continue
			}
		}
		cols = append(cols, ast.Column{Name: text})
	}
	return cols, nil
}

// parseAggregate reads `column[/alias]`.
func parseAggregate(fn ast.AggregateFunction, text string, offset int) (ast.Aggregate, error) {
	col, alias, hasAlias := strings.Cut(text, "/")
	if col == "" {
		return ast.Aggregate{}, errorf(offset, "aggregate %s is missing a column", fn.SQL())
	}
	if hasAlias && alias == "" {
		return ast.Aggregate{}, errorf(offset+len(col), "aggregate %s(%s) has an empty alias", fn.SQL(), col)
	}
	return ast.Aggregate{Function: fn, Column: col, Alias: alias}, nil
}

func parseOrder(tok lexer.Token) ([]ast.OrderByClause, error) {
	var order []ast.OrderByClause
	for _, item := range items(tok) {
		col, dir := item.text, ast.SortAsc
		if idx := strings.LastIndexByte(item.text, '/'); idx >= 0 {
			col = item.text[:idx]
			switch d := strings.ToLower(item.text[idx+1:]); d {
			case "asc":
				dir = ast.SortAsc
			case "desc":
				dir = ast.SortDesc
			default:
				return nil, errorf(item.offset+idx+1, "unknown sort direction %q", d)
			}
		}
		if col == "" {
			return nil, errorf(item.offset, "empty column in ORDER clause")
		}
		order = append(order, ast.OrderByClause{Column: col, Direction: dir})
	}
	return order, nil
}

// parseCount reads a LIMIT or OFFSET value.
func parseCount(tok lexer.Token) (int, error) {
	value := strings.TrimSpace(tok.Value)
	if !countPattern.MatchString(value) {
		return 0, errorf(tok.ValueOffset(), "%s must be a non-negative integer, got %q", tok.Kind, value)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errorf(tok.ValueOffset(), "%s value %q is out of range", tok.Kind, value)
	}
	return n, nil
}

func parseColumnList(tok lexer.Token) ([]string, error) {
	var cols []string
	for _, item := range items(tok) {
		if item.text == "" {
			return nil, errorf(item.offset, "empty column in %s clause", tok.Kind)
		}
		cols = append(cols, item.text)
	}
	return cols, nil
}

// parseJoin reads `table[/type]`.
func parseJoin(tok lexer.Token) (ast.JoinClause, error) {
	table, typ, hasType := strings.Cut(strings.TrimSpace(tok.Value), "/")
	if table == "" {
		return ast.JoinClause{}, errorf(tok.ValueOffset(), "JOIN is missing a table")
	}
	j := ast.JoinClause{Type: ast.InnerJoin, Table: table}
	if hasType {
		jt, ok := joinTypes[strings.ToLower(typ)]
		if !ok {
			return ast.JoinClause{}, errorf(tok.ValueOffset()+len(table)+1, "unknown join type %q", typ)
		}
		j.Type = jt
	}
	return j, nil
}

func parseValues(tok lexer.Token) ([]any, error) {
	var values []any
	for _, item := range items(tok) {
		if item.text == "" {
			return nil, errorf(item.offset, "empty value in VALUES clause")
		}
		values = append(values, CoerceLiteral(item.text))
	}
	return values, nil
}

// parseAssignments reads `col=value` items of a SET clause.
func parseAssignments(tok lexer.Token) ([]ast.Assignment, error) {
	var set []ast.Assignment
	for _, item := range items(tok) {
		idx := indexOutsideQuotes(item.text, '=')
		if idx < 0 {
			return nil, errorf(item.offset, "SET item %q must have the form column=value", item.text)
		}
		col := strings.TrimSpace(item.text[:idx])
		value := strings.TrimSpace(item.text[idx+1:])
		if col == "" {
			return nil, errorf(item.offset, "SET item %q is missing a column", item.text)
		}
		if value == "" {
			return nil, errorf(item.offset+idx, "SET item %q is missing a value", item.text)
		}
		set = append(set, ast.Assignment{Column: col, Value: CoerceLiteral(value)})
	}
	return set, nil
}

func parseReturning(tok lexer.Token) (*ast.ReturningClause, error) {
	if strings.TrimSpace(tok.Value) == "*" {
		return &ast.ReturningClause{All: true}, nil
	}
	cols, err := parseColumnList(tok)
	if err != nil {
		return nil, err
	}
	return &ast.ReturningClause{Columns: cols}, nil
}

func indexOutsideQuotes(s string, target byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == target:
			return i
		}
	}
	return -1
}
