package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// CreateMaterialRequest is the teacher upload form. Type defaults to LECTURE.
type CreateMaterialRequest struct {
	Title   string              `json:"title" validate:"required"`
	Type    models.MaterialType `json:"type" validate:"omitempty,oneof=SLIDE LECTURE DOCUMENT"`
	Content string              `json:"content"`
}

// MaterialService publishes course material.
type MaterialService struct {
	state     *State
	ids       *IDGenerator
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs the service.
func NewMaterialService(state *State, ids *IDGenerator, clock Clock, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &MaterialService{state: state, ids: ids, clock: clock, validator: validate, logger: logger}
}

// Create prepends a new material so the list stays newest first.
func (s *MaterialService) Create(req CreateMaterialRequest) (*models.Material, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = models.MaterialType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid material payload")
	}
	if req.Type == "" {
		req.Type = models.MaterialLecture
	}

	id, err := s.ids.UniqueUUID(s.state.hasMaterialID)
	if err != nil {
		return nil, err
	}
	material := models.Material{
		ID:      id,
		Title:   req.Title,
		Type:    req.Type,
		Content: req.Content,
		Date:    s.clock.Now(),
	}
	s.state.Materials = append([]models.Material{material}, s.state.Materials...)
	s.logger.Info("material published", zap.String("material_id", id), zap.String("type", string(material.Type)))
	return &material, nil
}

// List returns materials newest first.
func (s *MaterialService) List() []models.Material {
	return copyMaterials(s.state.Materials)
}
