package models

// AdminDashboard summarises the school for the admin view.
type AdminDashboard struct {
	TotalStudents  int              `json:"totalStudents"`
	TotalMaterials int              `json:"totalMaterials"`
	PassRate       int              `json:"passRate"`
	Students       []StudentProfile `json:"students"`
}

// TeacherDashboard is the teacher overview.
type TeacherDashboard struct {
	WelcomeName        string       `json:"welcomeName"`
	StudentCount       int          `json:"studentCount"`
	Materials          []Material   `json:"materials"`
	PendingAssignments []Assignment `json:"pendingAssignments"`
	Assignments        []Assignment `json:"assignments"`
	Live               LiveSession  `json:"live"`
}

// StudentDashboard is what a signed-in student sees. Live is set only while
// a class is running.
type StudentDashboard struct {
	Profile     StudentProfile `json:"profile"`
	Materials   []Material     `json:"materials"`
	Assignments []Assignment   `json:"assignments"`
	Live        *LiveSession   `json:"live,omitempty"`
}
