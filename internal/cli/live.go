package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/models"
)

func newLiveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Live class",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Open the camera and start a live class (teacher)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.portal.StartLive(cmd.Context())
			if err != nil {
				return err
			}
			return writeLive(a, cmd, session)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "End the live class and release the camera (teacher)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.portal.StopLive(cmd.Context())
			if err != nil {
				return err
			}
			return writeLive(a, cmd, session)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a live class is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLive(a, cmd, a.portal.LiveSession())
		},
	})
	return cmd
}

func writeLive(a *app, cmd *cobra.Command, session models.LiveSession) error {
	return a.formatter(cmd).Success(session, func(w io.Writer) {
		fmt.Fprintln(w, liveBanner(session))
	})
}

func liveBanner(session models.LiveSession) string {
	if !session.IsActive {
		return "No live class"
	}
	if session.StartTime != nil {
		return fmt.Sprintf("LIVE: %s since %s", session.TeacherName, session.StartTime.Format(time.Kitchen))
	}
	return "LIVE: " + session.TeacherName
}
