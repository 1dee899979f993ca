package service

import (
	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// DashboardService composes the per-role view models.
type DashboardService struct {
	students    *StudentService
	materials   *MaterialService
	assignments *AssignmentService
	live        *LiveService
}

// NewDashboardService constructs the service.
func NewDashboardService(students *StudentService, materials *MaterialService, assignments *AssignmentService, live *LiveService) *DashboardService {
	return &DashboardService{students: students, materials: materials, assignments: assignments, live: live}
}

// Admin builds the admin overview.
func (s *DashboardService) Admin() models.AdminDashboard {
	students := s.students.List()
	profiles := make([]models.StudentProfile, 0, len(students))
	for _, st := range students {
		profiles = append(profiles, st.Profile())
	}
	return models.AdminDashboard{
		TotalStudents:  len(students),
		TotalMaterials: len(s.materials.List()),
		PassRate:       s.assignments.PassRate(),
		Students:       profiles,
	}
}

// Teacher builds the teacher overview for the signed-in teacher.
func (s *DashboardService) Teacher(identity models.Identity) models.TeacherDashboard {
	return models.TeacherDashboard{
		WelcomeName:        identity.Name,
		StudentCount:       len(s.students.List()),
		Materials:          s.materials.List(),
		PendingAssignments: s.assignments.Pending(),
		Assignments:        s.assignments.List(),
		Live:               s.live.Current(),
	}
}

// Student builds the dashboard of the signed-in student. A restored identity
// whose record no longer exists yields NOT_FOUND.
func (s *DashboardService) Student(identity models.Identity) (*models.StudentDashboard, error) {
	student, err := s.students.Get(identity.ID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found")
	}
	dash := &models.StudentDashboard{
		Profile:     student.Profile(),
		Materials:   s.materials.List(),
		Assignments: s.assignments.ListByStudent(student.ID),
	}
	if live := s.live.Current(); live.IsActive {
		dash.Live = &live
	}
	return dash, nil
}
