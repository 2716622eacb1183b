package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/clauseql/cli/internal/ui"
	"github.com/satishbabariya/clauseql/cli/internal/watch"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile a query file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			c := root.compiler()
			opts := &compileOptions{file: file}

			recompile := func() error {
				lines, err := readQueryFile(file)
				if err != nil {
					return err
				}
				ui.PrintHeader("clauseql watch", file+" @ "+time.Now().Format(time.TimeOnly))
				if err := printResults(cmd.OutOrStdout(), compileAll(c, lines, false), opts); err != nil {
					ui.PrintWarning("%v", err)
				}
				return nil
			}

			w, err := watch.NewWatcher(file, recompile, func(err error) {
				ui.PrintError("%v", err)
			})
			if err != nil {
				return err
			}
			w.SetDebounce(debounce)
			if err := w.Start(); err != nil {
				_ = w.Stop()
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ui.PrintInfo("watching %s, press Ctrl+C to stop", file)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long for writes to settle")
	return cmd
}
