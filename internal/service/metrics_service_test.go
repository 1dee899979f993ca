package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/repository"
)

func TestMetricsServiceCountsPortalActivity(t *testing.T) {
	ctx := context.Background()
	f := newPortalFixture(t)

	_, err := f.portal.Login(ctx, models.LoginRequest{Username: "admin", Password: "bad"})
	require.Error(t, err)
	f.asAdmin(t)
	f.addStudent(t, "Ali", "5", "pw1")
	_, err = f.portal.AddStudent(ctx, CreateStudentRequest{Name: "Dup", FatherName: "X", Class: "9A", RollNumber: "5", Password: "pw"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.logins.WithLabelValues(LoginFailed, "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.logins.WithLabelValues(LoginSucceeded, "ADMIN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.mutations.WithLabelValues(string(OpAddStudent), "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.mutations.WithLabelValues(string(OpAddStudent), "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.recordsStored.WithLabelValues(repository.KeyStudents)))

	f.asTeacher(t)
	_, err = f.portal.StartLive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.liveActive))
}

func TestMetricsServiceStoreObserverAndCorruption(t *testing.T) {
	m := NewMetricsService()
	m.ObserveStoreWrite("ghs_students", time.Millisecond, nil)
	m.ObserveStoreWrite("ghs_students", time.Millisecond, errors.New("disk full"))
	m.RecordCorruptLoad("auth")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("ghs_students", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("ghs_students", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.corruptLoads.WithLabelValues("auth")))
}

func TestMetricsServiceWritesTextfile(t *testing.T) {
	m := NewMetricsService()
	m.RecordLogin(LoginSucceeded, "TEACHER")
	path := filepath.Join(t.TempDir(), "portal.prom")

	require.NoError(t, m.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `portal_logins_total{outcome="success",role="TEACHER"} 1`)

	assert.NoError(t, m.WriteTextfile(""))
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordLogin(LoginFailed, "")
		m.RecordMutation(OpAddMaterial, nil)
		m.ObserveStoreWrite("k", 0, nil)
		m.SetLive(true)
		assert.NoError(t, m.WriteTextfile("ignored"))
	})
}
