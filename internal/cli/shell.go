package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session; live classes last until logout or exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.portal.Shutdown()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprintf(out, "portal %s> ", a.portal.CurrentView().Path())
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				words, err := shlex.Split(line)
				if err != nil {
					_ = a.formatter(cmd).Error(&ExitError{Code: ExitCommandError, Message: "cannot parse line", Err: err})
					continue
				}
				opts := *a.opts
				lineApp := &app{portal: a.portal, opts: &opts, interactive: true}
				execute(cmd.Context(), lineApp, words, cmd.InOrStdin(), out, cmd.ErrOrStderr())
			}
		},
	}
}
