// Package cli is the command-line presentation shell of the portal.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// app is what every command closes over.
type app struct {
	portal      *service.Portal
	opts        *RootOptions
	interactive bool
}

func (a *app) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    a.opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   a.opts.Verbose,
	}
}

// NewRootCommand creates the root command bound to portal.
func NewRootCommand(portal *service.Portal) *cobra.Command {
	return newRootCommand(&app{portal: portal, opts: &RootOptions{}})
}

func newRootCommand(a *app) *cobra.Command {
	defaults := *a.opts
	if defaults.Format == "" {
		defaults.Format = "text"
	}

	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "School portal",
		Long:          "Local administrative portal for students, materials, assignments and live classes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(a.opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", a.opts.Format, ValidFormats))
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitCommandError, Message: "invalid flags", Err: err}
	})

	cmd.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", defaults.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&a.opts.Format, "format", defaults.Format, "output format (json|text)")

	cmd.AddCommand(newLoginCommand(a))
	cmd.AddCommand(newLogoutCommand(a))
	cmd.AddCommand(newWhoamiCommand(a))
	cmd.AddCommand(newViewCommand(a))
	cmd.AddCommand(newStudentsCommand(a))
	cmd.AddCommand(newMaterialsCommand(a))
	cmd.AddCommand(newAssignmentsCommand(a))
	cmd.AddCommand(newLiveCommand(a))
	cmd.AddCommand(newDashboardCommand(a))
	cmd.AddCommand(newExportCommand(a))
	if !a.interactive {
		cmd.AddCommand(newShellCommand(a))
	}

	return cmd
}

// Execute runs args against portal and renders any error. It returns the
// process exit code.
func Execute(ctx context.Context, portal *service.Portal, args []string, in io.Reader, out, errOut io.Writer) int {
	return execute(ctx, &app{portal: portal, opts: &RootOptions{}}, args, in, out, errOut)
}

func execute(ctx context.Context, a *app, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if GetExitCode(err) == ExitFailure && !isPortalError(err) {
		err = &ExitError{Code: ExitCommandError, Message: err.Error()}
	}
	_ = a.formatter(cmd).Error(err)
	return GetExitCode(err)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
