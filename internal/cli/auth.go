package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/router"
)

type whoami struct {
	User *models.Identity `json:"user"`
	View router.View      `json:"view"`
	Path string           `json:"path"`
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in as admin, teacher or student (roll number)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.portal.Login(cmd.Context(), models.LoginRequest{Username: args[0], Password: args[1]})
			if err != nil {
				return err
			}
			view := router.CurrentView(identity)
			return a.formatter(cmd).Success(whoami{User: identity, View: view, Path: view.Path()}, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s (%s)\n", identity.Name, identity.Role)
				fmt.Fprintf(w, "View: %s %s\n", view, view.Path())
			})
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.portal.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.formatter(cmd).Success(whoami{View: router.ViewLogin, Path: router.PathRoot}, func(w io.Writer) {
				fmt.Fprintln(w, "Signed out")
			})
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := a.portal.Identity()
			view := router.CurrentView(identity)
			return a.formatter(cmd).Success(whoami{User: identity, View: view, Path: view.Path()}, func(w io.Writer) {
				if identity == nil {
					fmt.Fprintln(w, "Not signed in")
					return
				}
				fmt.Fprintf(w, "%s (%s, id %s)\n", identity.Name, identity.Role, identity.ID)
			})
		},
	}
}

func newViewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [path]",
		Short: "Resolve a route for the signed-in identity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := router.PathRoot
			if len(args) == 1 {
				requested = args[0]
			}
			res := a.portal.Navigate(requested)
			return a.formatter(cmd).Success(res, func(w io.Writer) {
				if res.Redirected() {
					fmt.Fprintf(w, "%s -> %s\n", requested, strings.Join(res.Redirects, " -> "))
				}
				fmt.Fprintf(w, "View: %s %s\n", res.View, res.Path)
			})
		},
	}
}
