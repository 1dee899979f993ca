package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/service"
)

func newStudentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student roster",
	}
	cmd.AddCommand(newStudentsAddCommand(a))
	cmd.AddCommand(newStudentsListCommand(a))
	return cmd
}

func newStudentsAddCommand(a *app) *cobra.Command {
	var req service.CreateStudentRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			student, err := a.portal.AddStudent(cmd.Context(), req)
			if err != nil {
				return err
			}
			profile := student.Profile()
			return a.formatter(cmd).Success(profile, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s (roll %s) with id %s\n", profile.Name, profile.RollNumber, profile.ID)
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "student name")
	cmd.Flags().StringVar(&req.FatherName, "father", "", "father's name")
	cmd.Flags().StringVar(&req.Class, "class", "", "class")
	cmd.Flags().StringVar(&req.RollNumber, "roll", "", "roll number (login username)")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password")
	return cmd
}

func newStudentsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List students (admin, teacher)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := a.portal.ListStudents()
			if err != nil {
				return err
			}
			profiles := make([]models.StudentProfile, 0, len(students))
			for _, s := range students {
				profiles = append(profiles, s.Profile())
			}
			return a.formatter(cmd).Success(profiles, func(w io.Writer) {
				writeStudents(w, profiles)
			})
		},
	}
}

func writeStudents(w io.Writer, profiles []models.StudentProfile) {
	tw := newTable(w, "ID", "ROLL", "NAME", "FATHER", "CLASS")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.RollNumber, p.Name, p.FatherName, p.Class)
	}
	tw.Flush()
}
