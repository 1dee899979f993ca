package service

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/export"
)

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportResult describes a written export file.
type ExportResult struct {
	Kind   string        `json:"kind"`
	Format export.Format `json:"format"`
	Path   string        `json:"path"`
	Rows   int           `json:"rows"`
}

// ExportService renders rosters and gradebooks to files.
type ExportService struct {
	storage exportStorage
	clock   Clock
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(storage exportStorage, clock Clock, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ExportService{storage: storage, clock: clock, logger: logger}
}

// Students writes the roster. Passwords are never exported.
func (s *ExportService) Students(students []models.Student, format string) (*ExportResult, error) {
	data := export.Dataset{
		Title:   "Student Roster",
		Headers: []string{"ID", "Roll Number", "Name", "Father Name", "Class", "Registered"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          st.ID,
			"Roll Number": st.RollNumber,
			"Name":        st.Name,
			"Father Name": st.FatherName,
			"Class":       st.Class,
			"Registered":  st.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return s.write("students", data, format)
}

// Gradebook writes every assignment with its grade.
func (s *ExportService) Gradebook(assignments []models.Assignment, format string) (*ExportResult, error) {
	data := export.Dataset{
		Title:   fmt.Sprintf("Gradebook (pass rate %d%%)", PassRate(assignments)),
		Headers: []string{"ID", "Student ID", "Student", "Title", "Status", "Marks", "Comment", "Submitted"},
	}
	for _, a := range assignments {
		marks := ""
		if a.Marks != nil {
			marks = strconv.Itoa(*a.Marks)
		}
		comment := ""
		if a.TeacherComment != nil {
			comment = *a.TeacherComment
		}
		data.Rows = append(data.Rows, map[string]string{
			"ID":         a.ID,
			"Student ID": a.StudentID,
			"Student":    a.StudentName,
			"Title":      a.Title,
			"Status":     string(a.Status),
			"Marks":      marks,
			"Comment":    comment,
			"Submitted":  a.Date.UTC().Format(time.RFC3339),
		})
	}
	return s.write("gradebook", data, format)
}

// Cleanup removes exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "retention must be positive")
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to prune exports")
	}
	return removed, nil
}

func (s *ExportService) write(kind string, data export.Dataset, rawFormat string) (*ExportResult, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "unsupported export format")
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "unsupported export format")
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", kind, s.clock.Now().UTC().Format("20060102_150405.000"), renderer.Extension())
	rel, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to store export")
	}
	s.logger.Info("export written", zap.String("kind", kind), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return &ExportResult{Kind: kind, Format: format, Path: s.storage.Path(rel), Rows: len(data.Rows)}, nil
}
