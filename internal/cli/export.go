package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/service"
)

func newExportCommand(a *app) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster or gradebook as CSV or PDF",
	}
	cmd.PersistentFlags().StringVar(&as, "as", "csv", "file type (csv|pdf)")

	run := func(export func(format string) (*service.ExportResult, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			result, err := export(as)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Wrote %d rows to %s\n", result.Rows, result.Path)
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "students",
		Short: "Export the student roster without passwords (admin)",
		Args:  cobra.NoArgs,
		RunE:  run(a.portal.ExportStudents),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "gradebook",
		Short: "Export every assignment with its grade (admin, teacher)",
		Args:  cobra.NoArgs,
		RunE:  run(a.portal.ExportGradebook),
	})
	cmd.AddCommand(newExportPruneCommand(a))
	return cmd
}

func newExportPruneCommand(a *app) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete exports older than a retention period (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.portal.PruneExports(olderThan)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(removed, func(w io.Writer) {
				fmt.Fprintf(w, "Removed %d exports older than %s\n", len(removed), olderThan)
				for _, name := range removed {
					fmt.Fprintln(w, "  "+name)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "retention period, e.g. 720h")
	return cmd
}
