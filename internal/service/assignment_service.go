package service

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// SubmitAssignmentRequest is the student upload form.
type SubmitAssignmentRequest struct {
	Title       string `json:"title" validate:"required"`
	FileContent string `json:"fileContent" validate:"required"`
}

// GradeAssignmentRequest records a teacher's verdict.
type GradeAssignmentRequest struct {
	ID      string                  `json:"id" validate:"required"`
	Status  models.AssignmentStatus `json:"status" validate:"required,oneof=PASS FAIL"`
	Marks   *int                    `json:"marks" validate:"omitempty,min=0,max=100"`
	Comment string                  `json:"comment"`
}

// AssignmentService handles submissions and grading.
type AssignmentService struct {
	state     *State
	ids       *IDGenerator
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(state *State, ids *IDGenerator, clock Clock, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &AssignmentService{state: state, ids: ids, clock: clock, validator: validate, logger: logger}
}

// Submit prepends a PENDING assignment for studentID. The student's name is
// copied onto the assignment.
func (s *AssignmentService) Submit(studentID string, req SubmitAssignmentRequest) (*models.Assignment, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid assignment payload")
	}
	student := s.state.studentByID(studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	id, err := s.ids.UniqueUUID(s.state.hasAssignmentID)
	if err != nil {
		return nil, err
	}
	assignment := models.Assignment{
		ID:          id,
		StudentID:   student.ID,
		StudentName: student.Name,
		Title:       req.Title,
		FileContent: req.FileContent,
		Status:      models.AssignmentPending,
		Date:        s.clock.Now(),
	}
	s.state.Assignments = append([]models.Assignment{assignment}, s.state.Assignments...)
	s.logger.Info("assignment submitted", zap.String("assignment_id", id), zap.String("student_id", student.ID))
	return &assignment, nil
}

// Grade sets status, marks and comment on a pending assignment. Every other
// field is left as it was.
func (s *AssignmentService) Grade(req GradeAssignmentRequest) (*models.Assignment, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Status = models.AssignmentStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid grade payload")
	}

	idx := s.state.assignmentIndex(req.ID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	current := &s.state.Assignments[idx]
	if current.Status.Graded() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already graded")
	}

	current.Status = req.Status
	current.Marks = nil
	if req.Marks != nil {
		marks := *req.Marks
		current.Marks = &marks
	}
	current.TeacherComment = nil
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		current.TeacherComment = &comment
	}

	s.logger.Info("assignment graded", zap.String("assignment_id", current.ID), zap.String("status", string(current.Status)))
	graded := cloneAssignment(*current)
	return &graded, nil
}

// List returns every assignment newest first.
func (s *AssignmentService) List() []models.Assignment {
	return copyAssignments(s.state.Assignments)
}

// ListByStudent returns the assignments submitted by studentID.
func (s *AssignmentService) ListByStudent(studentID string) []models.Assignment {
	out := make([]models.Assignment, 0)
	for _, a := range s.state.Assignments {
		if a.StudentID == studentID {
			out = append(out, cloneAssignment(a))
		}
	}
	return out
}

// Pending returns assignments awaiting a grade.
func (s *AssignmentService) Pending() []models.Assignment {
	out := make([]models.Assignment, 0)
	for _, a := range s.state.Assignments {
		if a.Status == models.AssignmentPending {
			out = append(out, cloneAssignment(a))
		}
	}
	return out
}

// PassRate is the share of PASS over all assignments, pending included, as
// a rounded percentage.
func (s *AssignmentService) PassRate() int {
	return PassRate(s.state.Assignments)
}

// PassRate computes the rounded PASS percentage of assignments.
func PassRate(assignments []models.Assignment) int {
	if len(assignments) == 0 {
		return 0
	}
	passed := 0
	for _, a := range assignments {
		if a.Status == models.AssignmentPass {
			passed++
		}
	}
	return int(math.Round(float64(passed) * 100 / float64(len(assignments))))
}
