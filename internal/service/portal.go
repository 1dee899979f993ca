package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/media"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/repository"
	"github.com/noah-isme/school-portal/internal/router"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

type portalStore interface {
	SaveStudents(ctx context.Context, students []models.Student) error
	SaveMaterials(ctx context.Context, materials []models.Material) error
	SaveAssignments(ctx context.Context, assignments []models.Assignment) error
	SaveAuth(ctx context.Context, identity *models.Identity) error
}

// PortalDeps wires a Portal. Store, Credentials, IDs and Capturer are
// required.
type PortalDeps struct {
	Store       portalStore
	Snapshot    *repository.Snapshot
	Credentials *CredentialStore
	IDs         *IDGenerator
	Capturer    media.Capturer
	Exports     exportStorage
	Clock       Clock
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
	Students    StudentServiceConfig
}

// Portal owns the application state. Every mutation is authorised, applied
// in memory and then saved as a whole collection.
type Portal struct {
	mu     sync.Mutex
	state  *State
	store  portalStore
	logger *zap.Logger

	auth        *AuthService
	students    *StudentService
	materials   *MaterialService
	assignments *AssignmentService
	live        *LiveService
	dashboards  *DashboardService
	exports     *ExportService
	metrics     *MetricsService
}

// NewPortal restores state from deps.Snapshot and builds the services.
func NewPortal(deps PortalDeps) *Portal {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	state := NewState(deps.Snapshot)
	p := &Portal{
		state:       state,
		store:       deps.Store,
		logger:      logger,
		auth:        NewAuthService(state, deps.Credentials, validate, logger, deps.Students.HashPasswords),
		students:    NewStudentService(state, deps.IDs, clock, validate, logger, deps.Students),
		materials:   NewMaterialService(state, deps.IDs, clock, validate, logger),
		assignments: NewAssignmentService(state, deps.IDs, clock, validate, logger),
		live:        NewLiveService(state, deps.Capturer, clock, logger),
		metrics:     deps.Metrics,
	}
	p.dashboards = NewDashboardService(p.students, p.materials, p.assignments, p.live)
	if deps.Exports != nil {
		p.exports = NewExportService(deps.Exports, clock, logger)
	}

	if deps.Snapshot != nil {
		for _, name := range deps.Snapshot.Corrupt {
			p.metrics.RecordCorruptLoad(name)
		}
	}
	p.refreshGauges()
	return p
}

// Identity returns the signed-in identity, nil when anonymous.
func (p *Portal) Identity() *models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneIdentity(p.state.Identity)
}

// Students returns the roster.
func (p *Portal) Students() []models.Student {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.students.List()
}

// Materials returns materials newest first.
func (p *Portal) Materials() []models.Material {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.materials.List()
}

// Assignments returns every assignment newest first.
func (p *Portal) Assignments() []models.Assignment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assignments.List()
}

// LiveSession returns the live class flag.
func (p *Portal) LiveSession() models.LiveSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live.Current()
}

// PassRate returns the rounded PASS percentage over all assignments.
func (p *Portal) PassRate() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assignments.PassRate()
}

// CurrentView returns the view the signed-in identity may see.
func (p *Portal) CurrentView() router.View {
	return router.CurrentView(p.Identity())
}

// Navigate resolves a requested path for the signed-in identity.
func (p *Portal) Navigate(path string) router.Resolution {
	return router.Resolve(p.Identity(), path)
}

// Login authenticates and persists the identity. A previous session is
// replaced.
func (p *Portal) Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	identity, err := p.auth.Authenticate(req)
	if err != nil {
		p.metrics.RecordLogin(LoginFailed, "")
		return nil, err
	}
	p.endLiveFor(p.state.Identity)
	p.state.Identity = identity
	p.metrics.RecordLogin(LoginSucceeded, string(identity.Role))
	p.logger.Info("signed in", zap.String("role", string(identity.Role)), zap.String("user_id", identity.ID))

	return cloneIdentity(identity), p.persisted(p.store.SaveAuth(ctx, identity))
}

// Logout clears the identity. A teacher's running live class is stopped and
// its camera released. Logging out while anonymous is a no-op.
func (p *Portal) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Identity == nil {
		return nil
	}
	p.endLiveFor(p.state.Identity)
	p.logger.Info("signed out", zap.String("user_id", p.state.Identity.ID))
	p.state.Identity = nil
	return p.persisted(p.store.SaveAuth(ctx, nil))
}

// AddStudent registers a student. Admin only.
func (p *Portal) AddStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	student, err := p.mutate(OpAddStudent, func(*models.Identity) (interface{}, error) {
		return p.students.Create(req)
	})
	if err != nil {
		return nil, err
	}
	return student.(*models.Student), p.persisted(p.store.SaveStudents(ctx, p.state.Students))
}

// AddMaterial publishes material. Teacher only.
func (p *Portal) AddMaterial(ctx context.Context, req CreateMaterialRequest) (*models.Material, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	material, err := p.mutate(OpAddMaterial, func(*models.Identity) (interface{}, error) {
		return p.materials.Create(req)
	})
	if err != nil {
		return nil, err
	}
	return material.(*models.Material), p.persisted(p.store.SaveMaterials(ctx, p.state.Materials))
}

// SubmitAssignment records a submission by the signed-in student.
func (p *Portal) SubmitAssignment(ctx context.Context, req SubmitAssignmentRequest) (*models.Assignment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	assignment, err := p.mutate(OpSubmitAssignment, func(identity *models.Identity) (interface{}, error) {
		return p.assignments.Submit(identity.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return assignment.(*models.Assignment), p.persisted(p.store.SaveAssignments(ctx, p.state.Assignments))
}

// GradeAssignment grades a pending assignment. Teacher only.
func (p *Portal) GradeAssignment(ctx context.Context, req GradeAssignmentRequest) (*models.Assignment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	assignment, err := p.mutate(OpGradeAssignment, func(*models.Identity) (interface{}, error) {
		return p.assignments.Grade(req)
	})
	if err != nil {
		return nil, err
	}
	return assignment.(*models.Assignment), p.persisted(p.store.SaveAssignments(ctx, p.state.Assignments))
}

// ToggleLiveSession starts or stops the signed-in teacher's live class.
// Starting acquires the camera; a refused camera leaves the class stopped.
func (p *Portal) ToggleLiveSession(ctx context.Context, active bool) (models.LiveSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.mutate(OpToggleLive, func(identity *models.Identity) (interface{}, error) {
		if active {
			return p.live.Start(ctx, identity.Name)
		}
		return p.live.Stop(), nil
	})
	if err != nil {
		return p.live.Current(), err
	}
	return session.(models.LiveSession), nil
}

// StartLive is ToggleLiveSession(ctx, true).
func (p *Portal) StartLive(ctx context.Context) (models.LiveSession, error) {
	return p.ToggleLiveSession(ctx, true)
}

// StopLive is ToggleLiveSession(ctx, false).
func (p *Portal) StopLive(ctx context.Context) (models.LiveSession, error) {
	return p.ToggleLiveSession(ctx, false)
}

// SubscribeLive streams live session changes until cancel is called.
func (p *Portal) SubscribeLive() (<-chan models.LiveSession, func()) {
	return p.live.Subscribe()
}

// ListStudents returns the roster to staff.
func (p *Portal) ListStudents() ([]models.Student, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := Authorize(p.state.Identity, OpListStudents); err != nil {
		return nil, err
	}
	return p.students.List(), nil
}

// ListMaterials returns materials to any signed-in user.
func (p *Portal) ListMaterials() ([]models.Material, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Identity == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
	}
	return p.materials.List(), nil
}

// ListAssignments returns all assignments to staff and a student's own
// submissions to that student. pendingOnly keeps ungraded ones.
func (p *Portal) ListAssignments(pendingOnly bool) ([]models.Assignment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	identity := p.state.Identity
	if identity == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
	}
	var list []models.Assignment
	if identity.Role == models.RoleStudent {
		list = p.assignments.ListByStudent(identity.ID)
	} else {
		if err := Authorize(identity, OpListAssignments); err != nil {
			return nil, err
		}
		list = p.assignments.List()
	}
	if !pendingOnly {
		return list, nil
	}
	pending := make([]models.Assignment, 0, len(list))
	for _, a := range list {
		if a.Status == models.AssignmentPending {
			pending = append(pending, a)
		}
	}
	return pending, nil
}

// AdminDashboard builds the admin overview.
func (p *Portal) AdminDashboard() (*models.AdminDashboard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	dash := p.dashboards.Admin()
	return &dash, nil
}

// TeacherDashboard builds the teacher overview.
func (p *Portal) TeacherDashboard() (*models.TeacherDashboard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRole(models.RoleTeacher); err != nil {
		return nil, err
	}
	dash := p.dashboards.Teacher(*p.state.Identity)
	return &dash, nil
}

// StudentDashboard builds the signed-in student's dashboard.
func (p *Portal) StudentDashboard() (*models.StudentDashboard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRole(models.RoleStudent); err != nil {
		return nil, err
	}
	return p.dashboards.Student(*p.state.Identity)
}

// ExportStudents writes the roster to the exports directory. Admin only.
func (p *Portal) ExportStudents(format string) (*ExportResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := Authorize(p.state.Identity, OpExportStudents); err != nil {
		return nil, err
	}
	if p.exports == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "exports are not configured")
	}
	return p.exports.Students(p.state.Students, format)
}

// ExportGradebook writes every assignment to the exports directory.
func (p *Portal) ExportGradebook(format string) (*ExportResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := Authorize(p.state.Identity, OpExportGradebook); err != nil {
		return nil, err
	}
	if p.exports == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "exports are not configured")
	}
	return p.exports.Gradebook(p.state.Assignments, format)
}

// PruneExports removes exports older than olderThan. Admin only.
func (p *Portal) PruneExports(olderThan time.Duration) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := Authorize(p.state.Identity, OpPruneExports); err != nil {
		return nil, err
	}
	if p.exports == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "exports are not configured")
	}
	removed, err := p.exports.Cleanup(olderThan)
	if err != nil {
		return nil, err
	}
	p.logger.Info("exports pruned", zap.Int("removed", len(removed)), zap.Duration("older_than", olderThan))
	return removed, nil
}

// Shutdown releases any held camera stream. The live flag is left as is.
func (p *Portal) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live.Release()
}

func (p *Portal) requireRole(role models.UserRole) error {
	identity := p.state.Identity
	if identity == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
	}
	if identity.Role != role {
		return appErrors.Clone(appErrors.ErrForbidden, "view is reserved for "+string(role))
	}
	return nil
}

func (p *Portal) mutate(op Operation, apply func(identity *models.Identity) (interface{}, error)) (interface{}, error) {
	identity := p.state.Identity
	if err := Authorize(identity, op); err != nil {
		p.metrics.RecordMutation(op, err)
		return nil, err
	}
	result, err := apply(identity)
	p.metrics.RecordMutation(op, err)
	if err != nil {
		return nil, err
	}
	p.refreshGauges()
	return result, nil
}

// persisted logs a failed write. The in-memory change is kept either way.
func (p *Portal) persisted(err error) error {
	if err == nil {
		return nil
	}
	p.logger.Error("failed to persist portal state", zap.Error(err))
	return err
}

// endLiveFor stops a live class started by identity.
func (p *Portal) endLiveFor(identity *models.Identity) {
	if identity == nil || identity.Role != models.RoleTeacher {
		return
	}
	if p.live.Streaming() || p.state.Live.IsActive {
		p.live.Stop()
		p.metrics.SetLive(false)
	}
}

func (p *Portal) refreshGauges() {
	if p.metrics == nil {
		return
	}
	p.metrics.SetRecords(repository.KeyStudents, len(p.state.Students))
	p.metrics.SetRecords(repository.KeyMaterials, len(p.state.Materials))
	p.metrics.SetRecords(repository.KeyAssignments, len(p.state.Assignments))
	p.metrics.SetLive(p.state.Live.IsActive)
}
