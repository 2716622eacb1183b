package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/query/compiler"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

const replHelp = `Type a query to compile it. Commands:
  .dialect <name>   switch dialect (postgres, mysql, sqlite, generic)
  .inline           toggle inline literals
  .pretty           toggle multi-line output
  .quote            toggle identifier quoting
  .profile          show the active profile
  .help             show this help
  .exit             leave the REPL`

// replSession holds the profile a REPL compiles with.
type replSession struct {
	profile  sqlgen.Profile
	compiler *compiler.Compiler
	cache    int
}

func newReplSession(profile sqlgen.Profile, cacheSize int) *replSession {
	s := &replSession{cache: cacheSize}
	s.setProfile(profile)
	return s
}

func (s *replSession) setProfile(p sqlgen.Profile) {
	s.profile = p
	s.compiler = compiler.New(compiler.WithProfile(p), compiler.WithCache(s.cache, 0))
}

// eval runs one REPL line and returns the text to print. done reports an
// exit command.
func (s *replSession) eval(line string) (out string, done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, nil
	}
	if !strings.HasPrefix(line, ".") {
		res, err := s.compiler.Compile(line)
		if err != nil {
			return "", false, err
		}
		out = res.SQL
		if len(res.Params) > 0 {
			out += "\n-- params: " + ui.FormatParams(res.Params)
		}
		return out, false, nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	p := s.profile
	switch cmd {
	case ".exit", ".quit":
		return "", true, nil
	case ".help":
		return replHelp, false, nil
	case ".profile":
		return p.Key(), false, nil
	case ".dialect":
		d, err := sqlgen.ParseDialect(arg)
		if err != nil {
			return "", false, err
		}
		p.Dialect = d
	case ".inline":
		p.Inline = !p.Inline
	case ".pretty":
		p.Pretty = !p.Pretty
	case ".quote":
		p.QuoteIdentifiers = !p.QuoteIdentifiers
	default:
		return "", false, fmt.Errorf("unknown command %s, try .help", cmd)
	}
	s.setProfile(p)
	return p.Key(), false, nil
}

func newReplCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compile queries interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &readline.Config{
				Prompt:          "clauseql> ",
				InterruptPrompt: "^C",
				EOFPrompt:       ".exit",
				AutoComplete: readline.NewPrefixCompleter(
					readline.PcItem(".dialect",
						readline.PcItem("postgres"),
						readline.PcItem("mysql"),
						readline.PcItem("sqlite"),
						readline.PcItem("generic"),
					),
					readline.PcItem(".inline"),
					readline.PcItem(".pretty"),
					readline.PcItem(".quote"),
					readline.PcItem(".profile"),
					readline.PcItem(".help"),
					readline.PcItem(".exit"),
				),
			}
			if home, err := homedir.Dir(); err == nil {
				cfg.HistoryFile = filepath.Join(home, ".clauseql_history")
			}

			rl, err := readline.NewEx(cfg)
			if err != nil {
				return fmt.Errorf("failed to start readline: %w", err)
			}
			defer rl.Close()

			session := newReplSession(root.profile, root.cfg.CacheSize)
			ui.PrintInfo("clauseql REPL, type .help for commands")
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				out, done, err := session.eval(line)
				if done {
					return nil
				}
				if err != nil {
					if _, ok := compiler.Position(err); ok {
						ui.PrintDiagnostic(compiler.Diagnostic(strings.TrimSpace(line), err))
					} else {
						ui.PrintError("%v", err)
					}
					continue
				}
				if out != "" {
					fmt.Fprintln(cmd.OutOrStdout(), out)
				}
			}
		},
	}
}
