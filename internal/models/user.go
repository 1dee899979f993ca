package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Identity is the signed-in actor.
type Identity struct {
	Role UserRole `json:"role"`
	ID   string   `json:"id"`
	Name string   `json:"name"`
}

// AuthState is the persisted session. User is nil when nobody is signed in.
type AuthState struct {
	User *Identity `json:"user"`
}
