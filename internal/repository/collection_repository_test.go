package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func TestCollectionRepositoryDefaultsWhenEmpty(t *testing.T) {
	repo := NewCollectionRepository(NewMemoryKV(), "ghs_", nil)

	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Students)
	assert.NotNil(t, snap.Students)
	assert.NotNil(t, snap.Materials)
	assert.NotNil(t, snap.Assignments)
	assert.Nil(t, snap.Identity)
	assert.Empty(t, snap.Corrupt)
}

func TestCollectionRepositoryRoundTrip(t *testing.T) {
	for name, open := range inProcessBackends() {
		name, open := name, open
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewCollectionRepository(open(t), "ghs_", nil)
			defer repo.Close()

			now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
			marks := 80
			comment := "well done"
			students := []models.Student{{ID: "GHS-KSR-0001", RollNumber: "5", Name: "Ali", FatherName: "Akbar", Class: "10", Password: "pw1", CreatedAt: now}}
			materials := []models.Material{{ID: "m-1", Title: "Algebra", Type: models.MaterialSlide, Content: "x", Date: now}}
			assignments := []models.Assignment{{ID: "a-1", StudentID: "GHS-KSR-0001", StudentName: "Ali", Title: "HW1", FileContent: "f", Status: models.AssignmentPass, Marks: &marks, TeacherComment: &comment, Date: now}}
			identity := &models.Identity{Role: models.RoleStudent, ID: "GHS-KSR-0001", Name: "Ali"}

			require.NoError(t, repo.SaveStudents(ctx, students))
			require.NoError(t, repo.SaveMaterials(ctx, materials))
			require.NoError(t, repo.SaveAssignments(ctx, assignments))
			require.NoError(t, repo.SaveAuth(ctx, identity))

			snap, err := repo.LoadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, students, snap.Students)
			assert.Equal(t, materials, snap.Materials)
			assert.Equal(t, assignments, snap.Assignments)
			assert.Equal(t, identity, snap.Identity)
		})
	}
}

func TestCollectionRepositoryUsesPrefixedKeys(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewCollectionRepository(kv, "ghs_", nil)
	require.NoError(t, repo.SaveAuth(context.Background(), nil))

	raw, found, err := kv.Load(context.Background(), "ghs_auth")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"user":null}`, string(raw))
}

func TestCollectionRepositoryWritesEmptyArrays(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewCollectionRepository(kv, "ghs_", nil)
	require.NoError(t, repo.SaveStudents(context.Background(), nil))

	raw, _, err := kv.Load(context.Background(), "ghs_students")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestCollectionRepositoryRecoversFromCorruption(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Save(ctx, "ghs_students", []byte(`{not json`)))
	require.NoError(t, kv.Save(ctx, "ghs_materials", []byte(`null`)))
	require.NoError(t, kv.Save(ctx, "ghs_assignments", []byte(`[{"id":"a-1","status":"PENDING"}]`)))
	require.NoError(t, kv.Save(ctx, "ghs_auth", []byte(`{"user":{"role":"JANITOR","id":"x"}}`)))

	snap, err := NewCollectionRepository(kv, "ghs_", nil).LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Students)
	assert.NotNil(t, snap.Materials)
	assert.Len(t, snap.Assignments, 1)
	assert.Nil(t, snap.Identity)
	assert.ElementsMatch(t, []string{KeyStudents, KeyAuth}, snap.Corrupt)
}

func TestCollectionRepositoryWrapsBackendFailures(t *testing.T) {
	repo := NewCollectionRepository(&failingKV{MemoryKV: NewMemoryKV(), failures: 1}, "ghs_", nil)

	err := repo.SaveStudents(context.Background(), []models.Student{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
}
