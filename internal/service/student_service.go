package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// CreateStudentRequest is the admin registration form.
type CreateStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	FatherName string `json:"fatherName" validate:"required"`
	Class      string `json:"class" validate:"required"`
	RollNumber string `json:"rollNumber" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// StudentServiceConfig tunes password storage.
type StudentServiceConfig struct {
	HashPasswords bool
	HashCost      int
}

// StudentService manages the student roster.
type StudentService struct {
	state     *State
	ids       *IDGenerator
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
	config    StudentServiceConfig
}

// NewStudentService constructs the service.
func NewStudentService(state *State, ids *IDGenerator, clock Clock, validate *validator.Validate, logger *zap.Logger, cfg StudentServiceConfig) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &StudentService{state: state, ids: ids, clock: clock, validator: validate, logger: logger, config: cfg}
}

// Create appends a new student. Roll numbers must be unique.
func (s *StudentService) Create(req CreateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.FatherName = strings.TrimSpace(req.FatherName)
	req.Class = strings.TrimSpace(req.Class)
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid student payload")
	}
	if s.state.studentByRollNumber(req.RollNumber) != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "roll number already registered")
	}

	id, err := s.ids.StudentID(s.state.hasStudentID)
	if err != nil {
		return nil, err
	}

	password := req.Password
	if s.config.HashPasswords {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.HashCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to hash password")
		}
		password = string(hash)
	}

	student := models.Student{
		ID:         id,
		RollNumber: req.RollNumber,
		Name:       req.Name,
		FatherName: req.FatherName,
		Class:      req.Class,
		Password:   password,
		CreatedAt:  s.clock.Now(),
	}
	s.state.Students = append(s.state.Students, student)
	s.logger.Info("student registered", zap.String("student_id", id), zap.String("roll_number", student.RollNumber))
	return &student, nil
}

// List returns the roster in registration order.
func (s *StudentService) List() []models.Student {
	return copyStudents(s.state.Students)
}

// Get returns the student with id.
func (s *StudentService) Get(id string) (*models.Student, error) {
	student := s.state.studentByID(id)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	c := *student
	return &c, nil
}
