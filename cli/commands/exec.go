package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/compiler"
	"github.com/satishbabariya/clauseql/query/parser"
	"github.com/satishbabariya/clauseql/query/sqlgen"
	"github.com/satishbabariya/clauseql/runtime/client"
)

func newExecCommand(root *rootOptions) *cobra.Command {
	var (
		dsn    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "exec [query]",
		Short: "Compile a query and run it against a database",
		Long: `Compile a query and run it against a database.

The connection string comes from --dsn, or DATABASE_URL (environment, .env
or .env.local). Unless --dialect is given, the dialect is guessed from the
connection string.`,
		Example: `  clauseql exec --dsn "postgres://localhost/app?sslmode=disable" from:users lim:5
  DATABASE_URL=file:app.db clauseql exec "del:sessions whr:expired=true"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = root.cfg.DatabaseURL
			}
			if dsn == "" {
				return fmt.Errorf("no database URL: pass --dsn or set DATABASE_URL")
			}

			input, err := queryInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			q, err := parser.ParseString(input)
			if err != nil {
				return reportError(input, err)
			}

			profile := root.profile
			if !cmd.Flags().Changed("dialect") {
				profile.Dialect = detectDialect(dsn)
			}
			db, err := client.Open(profile.Dialect, dsn,
				compiler.WithProfile(profile),
				compiler.WithCache(root.cfg.CacheSize, 0),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if q.Kind == ast.Select || q.Returning != nil {
				rows, err := db.QueryAST(ctx, q)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}
				return printRows(rows)
			}

			res, err := db.ExecAST(ctx, q)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			ui.PrintSuccess("%s affected %d row(s)", q.Kind, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string (default $DATABASE_URL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

// detectDialect guesses the dialect from a connection string.
func detectDialect(dsn string) sqlgen.Dialect {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "mysql://"), strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return sqlgen.MySQL
	case strings.HasPrefix(lower, "file:"), strings.HasPrefix(lower, "sqlite"),
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), lower == ":memory:":
		return sqlgen.SQLite
	default:
		return sqlgen.Postgres
	}
}

func printRows(rows []map[string]any) error {
	if len(rows) == 0 {
		ui.PrintInfo("no rows")
		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	table := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			if v := row[col]; v != nil {
				cells[j] = fmt.Sprint(v)
			} else {
				cells[j] = "NULL"
			}
		}
		table[i] = cells
	}
	return ui.PrintTable(columns, table)
}
