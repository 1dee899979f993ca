package service

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/pkg/config"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func newAuthService(t *testing.T, creds config.CredentialsConfig, students ...models.Student) *AuthService {
	t.Helper()
	state := NewState(nil)
	state.Students = append(state.Students, students...)
	return NewAuthService(state, NewCredentialStore(creds), validator.New(), zap.NewNop(), false)
}

func TestAuthServiceStaffAccounts(t *testing.T) {
	svc := newAuthService(t, config.Default().Credentials)

	admin, err := svc.Authenticate(models.LoginRequest{Username: "admin", Password: "12345"})
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{Role: models.RoleAdmin, ID: "admin-id", Name: "ہیڈ ماسٹر / ایڈمن"}, admin)

	teacher, err := svc.Authenticate(models.LoginRequest{Username: "teacher", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, teacher.Role)
	assert.Equal(t, "teacher-id", teacher.ID)

	_, err = svc.Authenticate(models.LoginRequest{Username: "admin", Password: "1234"})
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationFailed)
}

func TestAuthServiceChecksAdminBeforeTeacherBeforeStudent(t *testing.T) {
	creds := config.Default().Credentials
	creds.Teacher.Username = "admin"
	creds.Teacher.Password = "12345"
	svc := newAuthService(t, creds, models.Student{ID: "s-1", RollNumber: "admin", Name: "Shadow", Password: "12345"})

	identity, err := svc.Authenticate(models.LoginRequest{Username: "admin", Password: "12345"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestAuthServiceFallsThroughToStudent(t *testing.T) {
	creds := config.Default().Credentials
	svc := newAuthService(t, creds, models.Student{ID: "s-1", RollNumber: "admin", Name: "Shadow", Password: "other"})

	identity, err := svc.Authenticate(models.LoginRequest{Username: "admin", Password: "other"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, identity.Role)
	assert.Equal(t, "Shadow", identity.Name)
}

func TestAuthServiceAcceptsBcryptCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	creds := config.Default().Credentials
	creds.Admin.Password = string(hash)
	svc := newAuthService(t, creds)

	_, err = svc.Authenticate(models.LoginRequest{Username: "admin", Password: "s3cret"})
	assert.NoError(t, err)
	_, err = svc.Authenticate(models.LoginRequest{Username: "admin", Password: string(hash)})
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationFailed)
}

func TestAuthServicePlaintextStudentPasswordShapedLikeHash(t *testing.T) {
	password := "$2a$" + strings.Repeat("x", 56)
	require.True(t, isBcryptHash(password))
	svc := newAuthService(t, config.Default().Credentials, models.Student{ID: "s-1", RollNumber: "5", Name: "Ali", Password: password})

	identity, err := svc.Authenticate(models.LoginRequest{Username: "5", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "s-1", identity.ID)

	_, err = svc.Authenticate(models.LoginRequest{Username: "5", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationFailed)
}

func TestAuthServiceComparesUsernamesExactly(t *testing.T) {
	svc := newAuthService(t, config.Default().Credentials, models.Student{ID: "s-1", RollNumber: "6", Name: "Sara", Password: "pw"})

	for _, req := range []models.LoginRequest{
		{Username: " admin ", Password: "12345"},
		{Username: "ADMIN", Password: "12345"},
		{Username: " 6 ", Password: "pw"},
		{Username: "6", Password: " pw"},
	} {
		_, err := svc.Authenticate(req)
		assert.ErrorIs(t, err, appErrors.ErrAuthenticationFailed, "%q/%q", req.Username, req.Password)
	}
}

func TestAuthServiceMissingCredentialsFailAuthentication(t *testing.T) {
	svc := newAuthService(t, config.Default().Credentials)

	for _, req := range []models.LoginRequest{
		{Username: "admin"},
		{Username: "nobody"},
		{Password: "12345"},
		{},
	} {
		_, err := svc.Authenticate(req)
		assert.ErrorIs(t, err, appErrors.ErrAuthenticationFailed)
		assert.False(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	}
}

func TestStudentServiceHashesPasswordsWhenEnabled(t *testing.T) {
	state := NewState(nil)
	svc := NewStudentService(state, NewIDGenerator(config.Default().IDs), newFixedClock(), nil, nil, StudentServiceConfig{HashPasswords: true, HashCost: bcrypt.MinCost})

	student, err := svc.Create(CreateStudentRequest{Name: "Ali", FatherName: "Akbar", Class: "9A", RollNumber: "5", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", student.Password)
	assert.True(t, isBcryptHash(student.Password))

	auth := NewAuthService(state, NewCredentialStore(config.Default().Credentials), nil, nil, true)
	identity, err := auth.Authenticate(models.LoginRequest{Username: "5", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, student.ID, identity.ID)
}

func TestAuthServiceHashingModeAcceptsLegacyPlaintextRecords(t *testing.T) {
	state := NewState(nil)
	state.Students = append(state.Students, models.Student{ID: "s-1", RollNumber: "3", Name: "Old", Password: "plain"})
	auth := NewAuthService(state, NewCredentialStore(config.Default().Credentials), nil, nil, true)

	_, err := auth.Authenticate(models.LoginRequest{Username: "3", Password: "plain"})
	assert.NoError(t, err)
}

func TestCredentialStoreOrder(t *testing.T) {
	accounts := NewCredentialStore(config.Default().Credentials).Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, models.RoleAdmin, accounts[0].Role)
	assert.Equal(t, models.RoleTeacher, accounts[1].Role)
}
