package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/media"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/repository"
	"github.com/noah-isme/school-portal/pkg/config"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

type portalFixture struct {
	portal   *Portal
	repo     *repository.CollectionRepository
	kv       *repository.MemoryKV
	capturer *media.SimulatedCapturer
	clock    *fixedClock
	metrics  *MetricsService
}

func newPortalFixture(t *testing.T, mutate ...func(*config.Config, *PortalDeps)) *portalFixture {
	t.Helper()
	cfg := config.Default()
	kv := repository.NewMemoryKV()
	repo := repository.NewCollectionRepository(kv, cfg.Store.KeyPrefix, nil)
	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)

	capturer, err := media.NewSimulatedCapturer(media.PolicyAllow, nil)
	require.NoError(t, err)
	clock := newFixedClock()
	metrics := NewMetricsService()

	deps := PortalDeps{
		Store:    repo,
		Snapshot: snap,
		IDs:      NewIDGenerator(cfg.IDs),
		Capturer: capturer,
		Clock:    clock,
		Metrics:  metrics,
		Students: StudentServiceConfig{HashCost: 4},
	}
	for _, m := range mutate {
		m(cfg, &deps)
	}
	deps.Credentials = NewCredentialStore(cfg.Credentials)
	if deps.Capturer == nil {
		deps.Capturer = capturer
	}

	return &portalFixture{
		portal:   NewPortal(deps),
		repo:     repo,
		kv:       kv,
		capturer: capturer,
		clock:    clock,
		metrics:  metrics,
	}
}

func (f *portalFixture) login(t *testing.T, username, password string) *models.Identity {
	t.Helper()
	identity, err := f.portal.Login(context.Background(), models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return identity
}

func (f *portalFixture) asAdmin(t *testing.T) { f.login(t, "admin", "12345") }

func (f *portalFixture) asTeacher(t *testing.T) { f.login(t, "teacher", "1234") }

func (f *portalFixture) addStudent(t *testing.T, name, roll, password string) *models.Student {
	t.Helper()
	student, err := f.portal.AddStudent(context.Background(), CreateStudentRequest{
		Name:       name,
		FatherName: name + " Sr",
		Class:      "9A",
		RollNumber: roll,
		Password:   password,
	})
	require.NoError(t, err)
	return student
}

func intPtr(v int) *int { return &v }
