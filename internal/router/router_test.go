package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-portal/internal/models"
)

func identity(role models.UserRole) *models.Identity {
	return &models.Identity{Role: role, ID: "id", Name: "name"}
}

func TestCurrentView(t *testing.T) {
	tests := []struct {
		name     string
		identity *models.Identity
		want     View
	}{
		{name: "anonymous", identity: nil, want: ViewLogin},
		{name: "admin", identity: identity(models.RoleAdmin), want: ViewAdmin},
		{name: "teacher", identity: identity(models.RoleTeacher), want: ViewTeacher},
		{name: "student", identity: identity(models.RoleStudent), want: ViewStudent},
		{name: "unknown role", identity: identity("JANITOR"), want: ViewLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentView(tt.identity))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		identity  *models.Identity
		requested string
		want      View
		redirects []string
	}{
		{name: "anonymous at root", requested: "/", want: ViewLogin},
		{name: "anonymous at admin", requested: "/admin", want: ViewLogin, redirects: []string{"/"}},
		{name: "admin at admin", identity: identity(models.RoleAdmin), requested: "/admin", want: ViewAdmin},
		{name: "admin at root", identity: identity(models.RoleAdmin), requested: "/", want: ViewAdmin, redirects: []string{"/admin"}},
		{name: "teacher at student", identity: identity(models.RoleTeacher), requested: "/student", want: ViewTeacher, redirects: []string{"/", "/teacher"}},
		{name: "student at unknown", identity: identity(models.RoleStudent), requested: "/reports", want: ViewStudent, redirects: []string{"/", "/student"}},
		{name: "trailing slash", identity: identity(models.RoleStudent), requested: "student/", want: ViewStudent},
		{name: "empty path", identity: identity(models.RoleTeacher), requested: "", want: ViewTeacher, redirects: []string{"/teacher"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.identity, tt.requested)
			assert.Equal(t, tt.want, res.View)
			assert.Equal(t, tt.want.Path(), res.Path)
			assert.Equal(t, tt.redirects, res.Redirects)
			assert.Equal(t, len(tt.redirects) > 0, res.Redirected())
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	id := identity(models.RoleTeacher)
	first := Resolve(id, "/admin")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Resolve(id, "/admin"))
	}
	assert.Equal(t, first.View, Resolve(id, first.Path).View)
	assert.False(t, Resolve(id, first.Path).Redirected())
}
