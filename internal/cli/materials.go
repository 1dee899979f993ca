package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/service"
)

const dateLayout = "2006-01-02"

func newMaterialsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Course material",
	}
	cmd.AddCommand(newMaterialsAddCommand(a))
	cmd.AddCommand(newMaterialsListCommand(a))
	return cmd
}

func newMaterialsAddCommand(a *app) *cobra.Command {
	var (
		req  service.CreateMaterialRequest
		kind string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish material (teacher)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = models.MaterialType(kind)
			material, err := a.portal.AddMaterial(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(material, func(w io.Writer) {
				fmt.Fprintf(w, "Published %s %q (%s)\n", material.Type, material.Title, material.ID)
			})
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "title")
	cmd.Flags().StringVar(&kind, "type", string(models.MaterialLecture), "SLIDE, LECTURE or DOCUMENT")
	cmd.Flags().StringVar(&req.Content, "content", "", "content or link")
	return cmd
}

func newMaterialsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List material, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, err := a.portal.ListMaterials()
			if err != nil {
				return err
			}
			return a.formatter(cmd).Success(materials, func(w io.Writer) {
				writeMaterials(w, materials)
			})
		},
	}
}

func writeMaterials(w io.Writer, materials []models.Material) {
	tw := newTable(w, "DATE", "TYPE", "TITLE", "ID")
	for _, m := range materials {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Date.Format(dateLayout), m.Type, m.Title, m.ID)
	}
	tw.Flush()
}
