package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Operation names a portal action subject to role checks.
type Operation string

const (
	OpAddStudent       Operation = "add_student"
	OpAddMaterial      Operation = "add_material"
	OpSubmitAssignment Operation = "submit_assignment"
	OpGradeAssignment  Operation = "grade_assignment"
	OpToggleLive       Operation = "toggle_live"
	OpExportStudents   Operation = "export_students"
	OpExportGradebook  Operation = "export_gradebook"
	OpPruneExports     Operation = "prune_exports"
	OpListStudents     Operation = "list_students"
	OpListAssignments  Operation = "list_assignments"
)

var operationRoles = map[Operation][]models.UserRole{
	OpAddStudent:       {models.RoleAdmin},
	OpAddMaterial:      {models.RoleTeacher},
	OpSubmitAssignment: {models.RoleStudent},
	OpGradeAssignment:  {models.RoleTeacher},
	OpToggleLive:       {models.RoleTeacher},
	OpExportStudents:   {models.RoleAdmin},
	OpExportGradebook:  {models.RoleAdmin, models.RoleTeacher},
	OpPruneExports:     {models.RoleAdmin},
	OpListStudents:     {models.RoleAdmin, models.RoleTeacher},
	OpListAssignments:  {models.RoleAdmin, models.RoleTeacher},
}

// AllowedRoles returns the roles that may perform op.
func AllowedRoles(op Operation) []models.UserRole {
	return append([]models.UserRole(nil), operationRoles[op]...)
}

// Authorize rejects anonymous callers with UNAUTHORIZED and callers whose
// role is not allowed for op with FORBIDDEN.
func Authorize(identity *models.Identity, op Operation) error {
	if identity == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
	}
	allowed := AllowedRoles(op)
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
		names = append(names, string(role))
	}
	return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not %s (allowed: %s)", identity.Role, op, strings.Join(names, ", ")))
}
