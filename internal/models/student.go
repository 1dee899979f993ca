package models

import "time"

// Student represents a learner registered by the admin. Students are never
// edited or removed once created.
type Student struct {
	ID         string    `json:"id"`
	RollNumber string    `json:"rollNumber"`
	Name       string    `json:"name"`
	FatherName string    `json:"fatherName"`
	Class      string    `json:"class"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"createdAt"`
}

// StudentProfile is a student record without the password.
type StudentProfile struct {
	ID         string    `json:"id"`
	RollNumber string    `json:"rollNumber"`
	Name       string    `json:"name"`
	FatherName string    `json:"fatherName"`
	Class      string    `json:"class"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profile drops the password.
func (s Student) Profile() StudentProfile {
	return StudentProfile{
		ID:         s.ID,
		RollNumber: s.RollNumber,
		Name:       s.Name,
		FatherName: s.FatherName,
		Class:      s.Class,
		CreatedAt:  s.CreatedAt,
	}
}
