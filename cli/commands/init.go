package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/config"
	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

type initOptions struct {
	path   string
	global bool
	yes    bool
	force  bool
}

func newInitCommand() *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a clauseql config file",
		Long: `Create a .clauseql.yaml config file.

The dialect profile is asked for interactively unless --yes is given, in
which case the defaults are written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.path, "output", "o", config.FileName, "where to write the config file")
	cmd.Flags().BoolVar(&opts.global, "global", false, "write to $HOME/.config/clauseql instead")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept the defaults without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing config file")
	return cmd
}

func runInit(opts *initOptions) error {
	path := opts.path
	if opts.global {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if exists, _ := afero.Exists(config.AppFs, path); exists && !opts.force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	cfg := &config.Config{
		Dialect:      string(sqlgen.Postgres),
		Parameterize: true,
		Placeholder:  sqlgen.PlaceholderAuto.String(),
		KeywordCase:  sqlgen.KeywordUpper.String(),
		CacheSize:    128,
	}
	if !opts.yes {
		if err := askProfile(cfg); err != nil {
			return err
		}
	}
	if _, err := cfg.Profile(); err != nil {
		return err
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ui.PrintSuccess("Created %s", path)
	return nil
}

func askProfile(cfg *config.Config) error {
	dialects := make([]string, len(sqlgen.Dialects))
	for i, d := range sqlgen.Dialects {
		dialects[i] = string(d)
	}

	answers := struct {
		Dialect      string
		Parameterize bool
		Quote        bool
		KeywordCase  string
		Prefix       string
	}{}
	questions := []*survey.Question{
		{
			Name: "dialect",
			Prompt: &survey.Select{
				Message: "Target dialect:",
				Options: dialects,
				Default: cfg.Dialect,
			},
		},
		{
			Name: "parameterize",
			Prompt: &survey.Confirm{
				Message: "Emit placeholders instead of inline values?",
				Default: cfg.Parameterize,
			},
		},
		{
			Name:   "quote",
			Prompt: &survey.Confirm{Message: "Quote identifiers?"},
		},
		{
			Name: "keywordcase",
			Prompt: &survey.Select{
				Message: "Keyword case:",
				Options: []string{"upper", "lower"},
				Default: cfg.KeywordCase,
			},
		},
		{
			Name:   "prefix",
			Prompt: &survey.Input{Message: "Table prefix (optional):"},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Dialect = answers.Dialect
	cfg.Parameterize = answers.Parameterize
	cfg.QuoteIdentifiers = answers.Quote
	cfg.KeywordCase = answers.KeywordCase
	cfg.TablePrefix = answers.Prefix
	return nil
}
