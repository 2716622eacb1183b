package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/lexer"
)

func newGrammarCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Show the clause and condition reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := grammarMarkdown()
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			return ui.PrintMarkdown(doc)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source")
	return cmd
}

// grammarMarkdown renders the clause reference from the lexer's prefix table.
func grammarMarkdown() string {
	var b strings.Builder
	b.WriteString("# clauseql grammar\n\n")
	b.WriteString("A query is a sequence of whitespace-separated `prefix:value` clauses. ")
	b.WriteString("Prefixes are case-insensitive; values may be quoted to contain spaces.\n\n")

	b.WriteString("## Clauses\n\n")
	b.WriteString("| Clause | Prefixes | Slang |\n|---|---|---|\n")
	for _, s := range lexer.Spellings() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Kind, codeList(s.Prefixes), codeList(s.Slang))
	}

	b.WriteString("\n## Conditions\n\n")
	b.WriteString("- `,` joins conditions with AND, `|` with OR; AND binds loosest.\n")
	b.WriteString("- `!(...)` negates, `(...)` groups.\n")
	b.WriteString("- `col.in(a,b)` and `col.nin(a,b)` test membership.\n")
	b.WriteString("- `col.null` and `col.!null` test for NULL.\n")
	ops := make([]string, len(ast.Operators))
	for i, op := range ast.Operators {
		ops[i] = string(op)
	}
	fmt.Fprintf(&b, "- Comparison operators: %s (`~` is LIKE).\n", codeList(ops))

	b.WriteString("\n## Examples\n\n")
	b.WriteString("```\n")
	b.WriteString("from:users sel:name,email whr:age>18 ord:name/desc lim:10\n")
	b.WriteString("from:orders sel:region,sum:total/revenue grp:region hav:revenue>1000\n")
	b.WriteString("from:users join:orders/left on:users.id=orders.user_id\n")
	b.WriteString("ins:users cols:name,age vals:ann,31 ret:id\n")
	b.WriteString("upd:users set:status=active whr:id.in(1,2,3)\n")
	b.WriteString("del:sessions whr:expires_at<1700000000\n")
	b.WriteString("```\n")
	return b.String()
}

func codeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
