package models

import "time"

// AssignmentStatus captures grading progress.
type AssignmentStatus string

const (
	AssignmentPending AssignmentStatus = "PENDING"
	AssignmentPass    AssignmentStatus = "PASS"
	AssignmentFail    AssignmentStatus = "FAIL"
)

// Graded reports whether the status is a final grade.
func (s AssignmentStatus) Graded() bool {
	return s == AssignmentPass || s == AssignmentFail
}

// Assignment is a student submission. StudentName is copied at submission
// time and is not kept in sync with the student record.
type Assignment struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"studentId"`
	StudentName    string           `json:"studentName"`
	Title          string           `json:"title"`
	FileContent    string           `json:"fileContent"`
	Status         AssignmentStatus `json:"status"`
	Marks          *int             `json:"marks,omitempty"`
	TeacherComment *string          `json:"teacherComment,omitempty"`
	Date           time.Time        `json:"date"`
}
