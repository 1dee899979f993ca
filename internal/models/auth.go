package models

// LoginRequest holds credentials for authenticating a user. Username is the
// staff username or a student's roll number.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
