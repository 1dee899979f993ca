package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/router"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.formatter(cmd)
			switch a.portal.CurrentView() {
			case router.ViewAdmin:
				dash, err := a.portal.AdminDashboard()
				if err != nil {
					return err
				}
				return out.Success(dash, func(w io.Writer) {
					fmt.Fprintf(w, "Students: %d  Materials: %d  Pass rate: %d%%\n\n", dash.TotalStudents, dash.TotalMaterials, dash.PassRate)
					writeStudents(w, dash.Students)
				})
			case router.ViewTeacher:
				dash, err := a.portal.TeacherDashboard()
				if err != nil {
					return err
				}
				return out.Success(dash, func(w io.Writer) {
					fmt.Fprintf(w, "Welcome, %s\n", dash.WelcomeName)
					fmt.Fprintf(w, "Pending: %d  Materials: %d  Students: %d\n", len(dash.PendingAssignments), len(dash.Materials), dash.StudentCount)
					fmt.Fprintln(w, liveBanner(dash.Live))
					fmt.Fprintln(w)
					writeAssignments(w, dash.Assignments)
				})
			case router.ViewStudent:
				dash, err := a.portal.StudentDashboard()
				if err != nil {
					return err
				}
				return out.Success(dash, func(w io.Writer) {
					if dash.Live != nil {
						fmt.Fprintln(w, liveBanner(*dash.Live))
					}
					p := dash.Profile
					fmt.Fprintf(w, "%s s/o %s, class %s, roll %s\n\n", p.Name, p.FatherName, p.Class, p.RollNumber)
					writeMaterials(w, dash.Materials)
					fmt.Fprintln(w)
					writeAssignments(w, dash.Assignments)
				})
			default:
				return appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
			}
		},
	}
}
