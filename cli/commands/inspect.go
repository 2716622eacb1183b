package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/lexer"
	"github.com/satishbabariya/clauseql/query/parser"
)

func newTokensCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tokens [query]",
		Short: "Show the clause tokens of a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := queryInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			tokens, err := lexer.Tokenize(input)
			if err != nil {
				return reportError(input, err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tokens)
			}

			rows := make([][]string, len(tokens))
			for i, tok := range tokens {
				rows[i] = []string{strconv.Itoa(tok.Position), tok.Kind.String(), tok.Raw, tok.Value}
			}
			return ui.PrintTable([]string{"Position", "Clause", "Raw", "Value"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	return cmd
}

func newASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [query]",
		Short: "Show the parsed query as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := queryInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			q, err := parser.ParseString(input)
			if err != nil {
				return reportError(input, err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(newQueryDoc(q)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// queryDoc is the YAML view of a query.
type queryDoc struct {
	Statement string              `yaml:"statement"`
	Table     string              `yaml:"table,omitempty"`
	Select    []string            `yaml:"select,omitempty"`
	Joins     []joinDoc           `yaml:"joins,omitempty"`
	Where     any                 `yaml:"where,omitempty"`
	GroupBy   []string            `yaml:"group_by,omitempty"`
	Having    any                 `yaml:"having,omitempty"`
	OrderBy   []ast.OrderByClause `yaml:"order_by,omitempty"`
	Limit     *int                `yaml:"limit,omitempty"`
	Offset    *int                `yaml:"offset,omitempty"`
	Columns   []string            `yaml:"columns,omitempty"`
	Values    []any               `yaml:"values,omitempty"`
	Set       []assignmentDoc     `yaml:"set,omitempty"`
	Returning []string            `yaml:"returning,omitempty"`
}

type joinDoc struct {
	Type  ast.JoinType `yaml:"type"`
	Table string       `yaml:"table"`
	On    any          `yaml:"on,omitempty"`
}

type assignmentDoc struct {
	Column string `yaml:"column"`
	Value  any    `yaml:"value"`
}

type comparisonDoc struct {
	Column   string `yaml:"column"`
	Operator string `yaml:"operator"`
	Value    any    `yaml:"value,omitempty"`
	Ref      string `yaml:"ref,omitempty"`
}

func newQueryDoc(q *ast.Query) queryDoc {
	doc := queryDoc{
		Statement: q.Kind.String(),
		Table:     q.Table(),
		Where:     conditionDoc(q.Where),
		GroupBy:   q.GroupBy,
		Having:    conditionDoc(q.Having),
		OrderBy:   q.OrderBy,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	for _, c := range q.Select {
		doc.Select = append(doc.Select, c.String())
	}
	for _, j := range q.Joins {
		doc.Joins = append(doc.Joins, joinDoc{Type: j.Type, Table: j.Table, On: conditionDoc(j.On)})
	}
	if q.Insert != nil {
		doc.Columns = q.Insert.Columns
		doc.Values = q.Insert.Values
	}
	for _, a := range q.Set {
		doc.Set = append(doc.Set, assignmentDoc{Column: a.Column, Value: a.Value})
	}
	if q.Returning != nil {
		if q.Returning.All {
			doc.Returning = []string{"*"}
		} else {
			doc.Returning = q.Returning.Columns
		}
	}
	return doc
}

// conditionDoc turns a condition tree into nested YAML-friendly values.
func conditionDoc(c ast.Condition) any {
	switch c := c.(type) {
	case nil:
		return nil
	case ast.Comparison:
		doc := comparisonDoc{Column: c.Left, Operator: string(c.Operator)}
		if ref, ok := c.Right.(ast.ColumnRef); ok {
			doc.Ref = string(ref)
		} else {
			doc.Value = c.Right
		}
		return doc
	case ast.SetMembership:
		op := "in"
		if c.Negated {
			op = "not_in"
		}
		return map[string]any{op: map[string]any{c.Column: c.Values}}
	case ast.NullTest:
		if c.Negated {
			return map[string]string{"not_null": c.Column}
		}
		return map[string]string{"is_null": c.Column}
	case ast.And:
		return map[string]any{"and": conditionDocs(c.Children)}
	case ast.Or:
		return map[string]any{"or": conditionDocs(c.Children)}
	case ast.Not:
		return map[string]any{"not": conditionDoc(c.Child)}
	default:
		return fmt.Sprint(c)
	}
}

func conditionDocs(conds []ast.Condition) []any {
	out := make([]any, len(conds))
	for i, c := range conds {
		out[i] = conditionDoc(c)
	}
	return out
}
