package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Collection names, stored under the configured key prefix.
const (
	KeyStudents    = "students"
	KeyMaterials   = "materials"
	KeyAssignments = "assignments"
	KeyAuth        = "auth"
)

// Snapshot is everything the portal restores on start.
type Snapshot struct {
	Students    []models.Student
	Materials   []models.Material
	Assignments []models.Assignment
	Identity    *models.Identity
	// Corrupt lists the collections that failed to decode and were reset.
	Corrupt []string
}

// CollectionRepository encodes the portal collections into a KVStore.
type CollectionRepository struct {
	store  KVStore
	prefix string
	logger *zap.Logger
}

// NewCollectionRepository constructs the repository.
func NewCollectionRepository(store KVStore, prefix string, logger *zap.Logger) *CollectionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionRepository{store: store, prefix: prefix, logger: logger}
}

// Key returns the stored key for a collection name.
func (r *CollectionRepository) Key(name string) string {
	return r.prefix + name
}

// LoadAll reads every collection. Missing collections default to empty and
// undecodable ones are reported in Snapshot.Corrupt rather than failing.
func (r *CollectionRepository) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	var err error
	if snap.Students, err = loadCollection[[]models.Student](ctx, r, KeyStudents, snap); err != nil {
		return nil, err
	}
	if snap.Materials, err = loadCollection[[]models.Material](ctx, r, KeyMaterials, snap); err != nil {
		return nil, err
	}
	if snap.Assignments, err = loadCollection[[]models.Assignment](ctx, r, KeyAssignments, snap); err != nil {
		return nil, err
	}
	auth, err := loadCollection[models.AuthState](ctx, r, KeyAuth, snap)
	if err != nil {
		return nil, err
	}
	if auth.User != nil {
		if auth.User.Role.Valid() {
			snap.Identity = auth.User
		} else {
			r.markCorrupt(KeyAuth, snap, nil)
		}
	}

	if snap.Students == nil {
		snap.Students = []models.Student{}
	}
	if snap.Materials == nil {
		snap.Materials = []models.Material{}
	}
	if snap.Assignments == nil {
		snap.Assignments = []models.Assignment{}
	}
	return snap, nil
}

func loadCollection[T any](ctx context.Context, r *CollectionRepository, name string, snap *Snapshot) (T, error) {
	var value T
	raw, found, err := r.store.Load(ctx, r.Key(name))
	if err != nil {
		return value, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, "load "+name)
	}
	raw = bytes.TrimSpace(raw)
	if !found || len(raw) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		r.markCorrupt(name, snap, err)
		var empty T
		return empty, nil
	}
	return value, nil
}

func (r *CollectionRepository) markCorrupt(name string, snap *Snapshot, cause error) {
	snap.Corrupt = append(snap.Corrupt, name)
	fields := []zap.Field{zap.String("key", r.Key(name))}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	r.logger.Warn("stored collection is corrupt, using empty default", fields...)
}

// SaveStudents replaces the stored student roster.
func (r *CollectionRepository) SaveStudents(ctx context.Context, students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}
	return r.save(ctx, KeyStudents, students)
}

// SaveMaterials replaces the stored materials.
func (r *CollectionRepository) SaveMaterials(ctx context.Context, materials []models.Material) error {
	if materials == nil {
		materials = []models.Material{}
	}
	return r.save(ctx, KeyMaterials, materials)
}

// SaveAssignments replaces the stored assignments.
func (r *CollectionRepository) SaveAssignments(ctx context.Context, assignments []models.Assignment) error {
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return r.save(ctx, KeyAssignments, assignments)
}

// SaveAuth stores the signed-in identity, or null after logout.
func (r *CollectionRepository) SaveAuth(ctx context.Context, identity *models.Identity) error {
	return r.save(ctx, KeyAuth, models.AuthState{User: identity})
}

// Close closes the underlying store.
func (r *CollectionRepository) Close() error {
	return r.store.Close()
}

func (r *CollectionRepository) save(ctx context.Context, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "encode "+name)
	}
	if err := r.store.Save(ctx, r.Key(name), raw); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, "save "+name)
	}
	return nil
}
