package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/satishbabariya/clauseql/cli/internal/config"
	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/compiler"
)

type compileOptions struct {
	file          string
	json          bool
	inlinePreview bool
}

// compileResult is one compiled query as printed by --json.
type compileResult struct {
	Line   int    `json:"line,omitempty"`
	Input  string `json:"input"`
	SQL    string `json:"sql,omitempty"`
	Params []any  `json:"params,omitempty"`
	Inline string `json:"inline,omitempty"`
	Error  string `json:"error,omitempty"`

	err error
}

func newCompileCommand(root *rootOptions) *cobra.Command {
	opts := &compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile [query]",
		Short: "Compile a query into SQL",
		Long: `Compile a query into SQL.

The query is taken from the arguments, or from stdin when none are given.
With --file every non-empty line of the file is compiled; lines starting
with # are skipped.`,
		Example: `  clauseql compile from:users whr:age>18 lim:10
  clauseql compile --dialect mysql --quote "upd:users set:name=bob whr:id=1"
  clauseql compile --file queries.cql --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "compile every line of a file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.inlinePreview, "inline-preview", false, "also show the SQL with parameters substituted")
	return cmd
}

func runCompile(cmd *cobra.Command, root *rootOptions, opts *compileOptions, args []string) error {
	c := root.compiler()

	if opts.file != "" {
		lines, err := readQueryFile(opts.file)
		if err != nil {
			return err
		}
		results := compileAll(c, lines, opts.inlinePreview)
		return printResults(cmd.OutOrStdout(), results, opts)
	}

	input, err := queryInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res := compileOne(c, input, opts.inlinePreview)
	if res.err != nil && !opts.json {
		return reportError(input, res.err)
	}
	return printResults(cmd.OutOrStdout(), []compileResult{res}, opts)
}

type queryLine struct {
	number int
	text   string
}

// readQueryFile returns the non-empty, non-comment lines of path.
func readQueryFile(path string) ([]queryLine, error) {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}

	var lines []queryLine
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, queryLine{number: n, text: text})
	}
	return lines, scanner.Err()
}

// compileAll compiles lines concurrently. Results keep the input order.
func compileAll(c *compiler.Compiler, lines []queryLine, inlinePreview bool) []compileResult {
	results := make([]compileResult, len(lines))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, line := range lines {
		g.Go(func() error {
			res := compileOne(c, line.text, inlinePreview)
			res.Line = line.number
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func compileOne(c *compiler.Compiler, input string, inlinePreview bool) compileResult {
	res := compileResult{Input: input}
	out, err := c.Compile(input)
	if err != nil {
		res.err = err
		res.Error = err.Error()
		return res
	}
	res.SQL = out.SQL
	res.Params = out.Params
	if inlinePreview && len(out.Params) > 0 {
		res.Inline = out.Inline()
	}
	return res
}

func printResults(w io.Writer, results []compileResult, opts *compileOptions) error {
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		var err error
		if opts.file == "" {
			err = enc.Encode(results[0])
		} else {
			err = enc.Encode(results)
		}
		if err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Line > 0 {
				fmt.Fprintf(w, "-- line %d: %s\n", r.Line, r.Input)
			}
			if r.err != nil {
				fmt.Fprintf(w, "-- error: %s\n", r.Error)
				continue
			}
			fmt.Fprintln(w, r.SQL)
			if len(r.Params) > 0 {
				fmt.Fprintf(w, "-- params: %s\n", ui.FormatParams(r.Params))
			}
			if r.Inline != "" {
				fmt.Fprintf(w, "-- inline: %s\n", r.Inline)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed to compile", failed, len(results))
	}
	return nil
}
