// Package parser builds a query AST from clause tokens.
package parser

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/clauseql/internal/debug"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/lexer"
)

// ParseError reports a token sequence that does not form a valid query.
// Position is an offset into the original input.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// singleValued lists the clauses that may appear at most once. FROM, INSERT,
// UPDATE and DELETE are checked through the table and statement slots.
var singleValued = map[lexer.ClauseKind]bool{
	lexer.Select:    true,
	lexer.Order:     true,
	lexer.Limit:     true,
	lexer.Offset:    true,
	lexer.Group:     true,
	lexer.Columns:   true,
	lexer.Values:    true,
	lexer.Set:       true,
	lexer.Returning: true,
}

// allowedClauses lists, per statement kind, the clauses it accepts.
var allowedClauses = map[ast.StatementKind]map[lexer.ClauseKind]bool{
	ast.Select: {
		lexer.From: true, lexer.Select: true, lexer.Where: true, lexer.Group: true,
		lexer.Having: true, lexer.Order: true, lexer.Limit: true, lexer.Offset: true,
		lexer.Join: true, lexer.On: true,
	},
	ast.Insert: {
		lexer.Insert: true, lexer.Columns: true, lexer.Values: true, lexer.Returning: true,
	},
	ast.Update: {
		lexer.Update: true, lexer.Set: true, lexer.Where: true, lexer.Returning: true,
	},
	ast.Delete: {
		lexer.Delete: true, lexer.Where: true, lexer.Returning: true,
	},
}

type parser struct {
	tokens []lexer.Token
	pos    int
	query  *ast.Query

	seen     map[lexer.ClauseKind]lexer.Token
	tableTok *lexer.Token
	stmtTok  *lexer.Token
	colsTok  *lexer.Token
	where    []ast.Condition
	having   []ast.Condition
	columns  []string
	values   []any
}

// ParseString tokenizes and parses input.
func ParseString(input string) (*ast.Query, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse consumes tokens left to right and returns the query they describe.
func Parse(tokens []lexer.Token) (*ast.Query, error) {
	p := &parser{
		tokens: tokens,
		query:  &ast.Query{Kind: ast.Select},
		seen:   make(map[lexer.ClauseKind]lexer.Token),
	}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if err := p.clause(tok); err != nil {
			return nil, err
		}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	debug.Debug("Parsed query", "statement", p.query.Kind.String(), "clauses", len(p.tokens))
	return p.query, nil
}

func (p *parser) clause(tok lexer.Token) error {
	if singleValued[tok.Kind] {
		if prev, ok := p.seen[tok.Kind]; ok {
			return errorf(tok.Position, "duplicate %s clause (first given at position %d)", tok.Kind, prev.Position)
		}
	}
	p.seen[tok.Kind] = tok

	switch tok.Kind {
	case lexer.From:
		return p.setTable(tok)
	case lexer.Select:
		cols, err := parseSelect(tok)
		if err != nil {
			return err
		}
		p.query.Select = cols
	case lexer.Where:
		cond, err := parseClauseCondition(tok, literalOperands)
		if err != nil {
			return err
		}
		p.where = append(p.where, cond)
	case lexer.Having:
		cond, err := parseClauseCondition(tok, literalOperands)
		if err != nil {
			return err
		}
		p.having = append(p.having, cond)
	case lexer.Group:
		cols, err := parseColumnList(tok)
		if err != nil {
			return err
		}
		p.query.GroupBy = cols
	case lexer.Order:
		order, err := parseOrder(tok)
		if err != nil {
			return err
		}
		p.query.OrderBy = order
	case lexer.Limit:
		n, err := parseCount(tok)
		if err != nil {
			return err
		}
		p.query.Limit = &n
	case lexer.Offset:
		n, err := parseCount(tok)
		if err != nil {
			return err
		}
		p.query.Offset = &n
	case lexer.Join:
		return p.join(tok)
	case lexer.On:
		return errorf(tok.Position, "ON clause without a preceding JOIN")
	case lexer.Insert:
		if err := p.setStatement(tok, ast.Insert); err != nil {
			return err
		}
		p.query.Insert = &ast.InsertClause{Table: strings.TrimSpace(tok.Value)}
	case lexer.Columns:
		cols, err := parseColumnList(tok)
		if err != nil {
			return err
		}
		p.columns = cols
		p.colsTok = &tok
	case lexer.Values:
		vals, err := parseValues(tok)
		if err != nil {
			return err
		}
		p.values = vals
	case lexer.Update:
		if err := p.setStatement(tok, ast.Update); err != nil {
			return err
		}
		return p.setTable(tok)
	case lexer.Set:
		set, err := parseAssignments(tok)
		if err != nil {
			return err
		}
		p.query.Set = set
	case lexer.Delete:
		if err := p.setStatement(tok, ast.Delete); err != nil {
			return err
		}
		return p.setTable(tok)
	case lexer.Returning:
		ret, err := parseReturning(tok)
		if err != nil {
			return err
		}
		p.query.Returning = ret
	case lexer.With:
		return errorf(tok.Position, "WITH clauses are not supported")
	default:
		return errorf(tok.Position, "unsupported clause %s", tok.Kind)
	}
	return nil
}

// setTable fills the table slot shared by FROM, UPDATE and DELETE.
func (p *parser) setTable(tok lexer.Token) error {
	if p.tableTok != nil {
		return errorf(tok.Position, "duplicate FROM clause: table already set to %q at position %d",
			p.query.From, p.tableTok.Position)
	}
	p.tableTok = &tok
	p.query.From = strings.TrimSpace(tok.Value)
	return nil
}

func (p *parser) setStatement(tok lexer.Token, kind ast.StatementKind) error {
	if p.stmtTok != nil {
		if p.query.Kind == kind {
			return errorf(tok.Position, "duplicate %s clause (first given at position %d)", tok.Kind, p.stmtTok.Position)
		}
		return errorf(tok.Position, "%s conflicts with %s at position %d", kind, p.query.Kind, p.stmtTok.Position)
	}
	p.stmtTok = &tok
	p.query.Kind = kind
	return nil
}

// join parses a JOIN token and the ON token that immediately follows it.
func (p *parser) join(tok lexer.Token) error {
	j, err := parseJoin(tok)
	if err != nil {
		return err
	}
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.On {
		on := p.tokens[p.pos]
		p.pos++
		cond, err := parseClauseCondition(on, columnOperands)
		if err != nil {
			return err
		}
		j.On = cond
	}
	p.query.Joins = append(p.query.Joins, j)
	return nil
}

// finish combines accumulated conditions and validates the statement shape.
func (p *parser) finish() error {
	q := p.query
	q.Where = ast.Conjoin(p.where...)
	q.Having = ast.Conjoin(p.having...)

	allowed := allowedClauses[q.Kind]
	for _, tok := range p.tokens {
		if !allowed[tok.Kind] {
			return errorf(tok.Position, "%s clause is not valid in %s statements", tok.Kind, q.Kind)
		}
	}

	switch q.Kind {
	case ast.Select:
		if q.From == "" {
			return errorf(0, "SELECT statement requires a FROM clause")
		}
	case ast.Insert:
		if q.Insert.Table == "" {
			return errorf(p.stmtTok.Position, "INSERT statement requires a table")
		}
		if len(p.values) == 0 {
			return errorf(p.stmtTok.Position, "INSERT statement requires a VALUES clause")
		}
		if p.colsTok != nil && len(p.columns) != len(p.values) {
			return errorf(p.colsTok.Position, "INSERT lists %d columns but %d values", len(p.columns), len(p.values))
		}
		q.Insert.Columns = p.columns
		q.Insert.Values = p.values
	case ast.Update:
		if len(q.Set) == 0 {
			return errorf(p.stmtTok.Position, "UPDATE statement requires a SET clause")
		}
	case ast.Delete:
		if q.From == "" {
			return errorf(p.stmtTok.Position, "DELETE statement requires a table")
		}
	}
	return nil
}

func parseClauseCondition(tok lexer.Token, mode operandMode) (ast.Condition, error) {
	return conditionParser{mode: mode}.parse(segment{text: tok.Value, offset: tok.ValueOffset()})
}
