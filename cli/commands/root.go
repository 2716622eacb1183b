// Package commands implements the clauseql command tree.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/config"
	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/cli/internal/version"
	"github.com/satishbabariya/clauseql/internal/debug"
	"github.com/satishbabariya/clauseql/query/compiler"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

// rootOptions holds the persistent flags and the configuration resolved
// from them before any subcommand runs.
type rootOptions struct {
	configFile  string
	dialect     string
	inline      bool
	placeholder string
	pretty      bool
	quote       bool
	keywordCase string
	prefix      string
	debug       bool

	cfg     *config.Config
	profile sqlgen.Profile
}

// Execute is the main entry point for the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the clauseql command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "clauseql",
		Short: "Compile prefix-clause queries into SQL",
		Long: `clauseql compiles compact prefix-clause queries such as

  from:users sel:name,email whr:age>18 ord:name/desc lim:10

into parameterized SQL for postgres, mysql, sqlite or a generic dialect.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Output = cmd.OutOrStdout()
			ui.ErrOutput = cmd.ErrOrStderr()
			return opts.resolve(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is .clauseql.yaml in ., $HOME or $HOME/.config/clauseql)")
	flags.StringVarP(&opts.dialect, "dialect", "d", "", "target dialect: postgres, mysql, sqlite or generic")
	flags.BoolVar(&opts.inline, "inline", false, "render values as SQL literals instead of placeholders")
	flags.StringVar(&opts.placeholder, "placeholder", "", "placeholder style: auto, postgres, mysql or sqlite")
	flags.BoolVar(&opts.pretty, "pretty", false, "put each clause on its own line")
	flags.BoolVar(&opts.quote, "quote", false, "quote identifiers")
	flags.StringVar(&opts.keywordCase, "keyword-case", "", "keyword case: upper or lower")
	flags.StringVar(&opts.prefix, "prefix", "", "prefix added to every table name")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newCompileCommand(opts),
		newTokensCommand(),
		newASTCommand(),
		newExecCommand(opts),
		newWatchCommand(opts),
		newReplCommand(opts),
		newGrammarCommand(),
		newInitCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

// resolve loads the config file and lets explicitly set flags override it.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = o.dialect
	}
	if flags.Changed("inline") {
		cfg.Parameterize = !o.inline
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = o.placeholder
	}
	if flags.Changed("pretty") {
		cfg.Pretty = o.pretty
	}
	if flags.Changed("quote") {
		cfg.QuoteIdentifiers = o.quote
	}
	if flags.Changed("keyword-case") {
		cfg.KeywordCase = o.keywordCase
	}
	if flags.Changed("prefix") {
		cfg.TablePrefix = o.prefix
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	debug.Init(cfg.Debug)
	if err := version.Check(version.Version, cfg.MinVersion); err != nil {
		return err
	}

	profile, err := cfg.Profile()
	if err != nil {
		return err
	}
	debug.Debug("Resolved profile", "key", profile.Key())

	o.cfg = cfg
	o.profile = profile
	return nil
}

// compiler returns a compiler for the resolved profile.
func (o *rootOptions) compiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithProfile(o.profile),
		compiler.WithCache(o.cfg.CacheSize, 0),
	)
}

// queryInput joins the arguments into one query, or reads stdin when there
// are none.
func queryInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", compiler.ErrEmptyQuery
	}
	return input, nil
}

// reportError prints a caret diagnostic when err carries an input position.
func reportError(input string, err error) error {
	if _, ok := compiler.Position(err); ok {
		ui.PrintDiagnostic(compiler.Diagnostic(input, err))
		return fmt.Errorf("query failed to compile")
	}
	return err
}
