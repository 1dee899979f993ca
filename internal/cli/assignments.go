package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/service"
)

func newAssignmentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Submit, grade and list assignments",
	}
	cmd.AddCommand(newAssignmentsSubmitCommand(a))
	cmd.AddCommand(newAssignmentsGradeCommand(a))
	cmd.AddCommand(newAssignmentsListCommand(a))
	return cmd
}

func newAssignmentsSubmitCommand(a *app) *cobra.Command {
	var req service.SubmitAssignmentRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an assignment (student)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := a.portal.SubmitAssignment(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(assignment, func(w io.Writer) {
				fmt.Fprintf(w, "Submitted %q (%s), status %s\n", assignment.Title, assignment.ID, assignment.Status)
			})
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "title")
	cmd.Flags().StringVar(&req.FileContent, "content", "", "answer text or file link")
	return cmd
}

func newAssignmentsGradeCommand(a *app) *cobra.Command {
	var (
		status  string
		marks   int
		comment string
	)
	cmd := &cobra.Command{
		Use:   "grade <assignment-id>",
		Short: "Grade a pending assignment (teacher)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.GradeAssignmentRequest{
				ID:      args[0],
				Status:  models.AssignmentStatus(status),
				Comment: comment,
			}
			if cmd.Flags().Changed("marks") {
				req.Marks = &marks
			}
			assignment, err := a.portal.GradeAssignment(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(assignment, func(w io.Writer) {
				fmt.Fprintf(w, "Graded %q for %s: %s %s\n", assignment.Title, assignment.StudentName, assignment.Status, formatMarks(assignment.Marks))
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "PASS or FAIL")
	cmd.Flags().IntVar(&marks, "marks", 0, "marks out of 100")
	cmd.Flags().StringVar(&comment, "comment", "", "teacher comment")
	return cmd
}

func newAssignmentsListCommand(a *app) *cobra.Command {
	var pending bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments; students see their own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := a.portal.ListAssignments(pending)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(assignments, func(w io.Writer) {
				writeAssignments(w, assignments)
			})
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "only ungraded assignments")
	return cmd
}

func writeAssignments(w io.Writer, assignments []models.Assignment) {
	tw := newTable(w, "DATE", "STUDENT", "TITLE", "STATUS", "MARKS", "ID")
	for _, as := range assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", as.Date.Format(dateLayout), as.StudentName, as.Title, as.Status, formatMarks(as.Marks), as.ID)
	}
	tw.Flush()
}

func formatMarks(marks *int) string {
	if marks == nil {
		return "-"
	}
	return strconv.Itoa(*marks)
}
