package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func TestAuthorize(t *testing.T) {
	admin := &models.Identity{Role: models.RoleAdmin}
	teacher := &models.Identity{Role: models.RoleTeacher}
	student := &models.Identity{Role: models.RoleStudent}

	tests := []struct {
		op      Operation
		allowed []*models.Identity
		denied  []*models.Identity
	}{
		{op: OpAddStudent, allowed: []*models.Identity{admin}, denied: []*models.Identity{teacher, student}},
		{op: OpAddMaterial, allowed: []*models.Identity{teacher}, denied: []*models.Identity{admin, student}},
		{op: OpSubmitAssignment, allowed: []*models.Identity{student}, denied: []*models.Identity{admin, teacher}},
		{op: OpGradeAssignment, allowed: []*models.Identity{teacher}, denied: []*models.Identity{admin, student}},
		{op: OpToggleLive, allowed: []*models.Identity{teacher}, denied: []*models.Identity{admin, student}},
		{op: OpExportStudents, allowed: []*models.Identity{admin}, denied: []*models.Identity{teacher, student}},
		{op: OpExportGradebook, allowed: []*models.Identity{admin, teacher}, denied: []*models.Identity{student}},
		{op: OpPruneExports, allowed: []*models.Identity{admin}, denied: []*models.Identity{teacher, student}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.ErrorIs(t, Authorize(nil, tt.op), appErrors.ErrUnauthorized)
			for _, id := range tt.allowed {
				assert.NoError(t, Authorize(id, tt.op), id.Role)
			}
			for _, id := range tt.denied {
				assert.ErrorIs(t, Authorize(id, tt.op), appErrors.ErrForbidden, id.Role)
			}
		})
	}
}

func TestAllowedRolesReturnsCopy(t *testing.T) {
	roles := AllowedRoles(OpExportGradebook)
	roles[0] = models.RoleStudent
	assert.Equal(t, []models.UserRole{models.RoleAdmin, models.RoleTeacher}, AllowedRoles(OpExportGradebook))
}

func TestAuthorizeNamesAllowedRoles(t *testing.T) {
	err := Authorize(&models.Identity{Role: models.RoleStudent}, OpExportGradebook)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed: ADMIN, TEACHER")
}
