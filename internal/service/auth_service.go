package service

import (
	"crypto/subtle"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/pkg/config"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// StaffAccount is a configured admin or teacher login.
type StaffAccount struct {
	Role     models.UserRole
	Username string
	Password string
	ID       string
	Name     string
}

// CredentialStore lists staff accounts in the order they are checked.
type CredentialStore struct {
	accounts []StaffAccount
}

// NewCredentialStore builds the store from configuration: admin first, then
// teacher.
func NewCredentialStore(cfg config.CredentialsConfig) *CredentialStore {
	return &CredentialStore{accounts: []StaffAccount{
		{Role: models.RoleAdmin, Username: cfg.Admin.Username, Password: cfg.Admin.Password, ID: cfg.Admin.ID, Name: cfg.Admin.Name},
		{Role: models.RoleTeacher, Username: cfg.Teacher.Username, Password: cfg.Teacher.Password, ID: cfg.Teacher.ID, Name: cfg.Teacher.Name},
	}}
}

// Accounts returns the staff accounts in check order.
func (c *CredentialStore) Accounts() []StaffAccount {
	return append([]StaffAccount(nil), c.accounts...)
}

// AuthService resolves credentials to an identity.
type AuthService struct {
	state          *State
	credentials    *CredentialStore
	validator      *validator.Validate
	logger         *zap.Logger
	hashedStudents bool
}

// NewAuthService constructs an AuthService instance. hashedStudents must match
// StudentServiceConfig.HashPasswords; with it off student passwords are plain
// text whatever they look like.
func NewAuthService(state *State, credentials *CredentialStore, validate *validator.Validate, logger *zap.Logger, hashedStudents bool) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{state: state, credentials: credentials, validator: validate, logger: logger, hashedStudents: hashedStudents}
}

// Authenticate checks admin, then teacher, then the student roster. The first
// exact match wins. Missing credentials match nothing.
func (s *AuthService) Authenticate(req models.LoginRequest) (*models.Identity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAuthenticationFailed.Code, "invalid username or password")
	}

	for _, account := range s.credentials.Accounts() {
		if account.Username == "" || account.Username != req.Username {
			continue
		}
		if staffPasswordMatches(account.Password, req.Password) {
			return &models.Identity{Role: account.Role, ID: account.ID, Name: account.Name}, nil
		}
	}

	if student := s.state.studentByRollNumber(req.Username); student != nil && s.studentPasswordMatches(student.Password, req.Password) {
		return &models.Identity{Role: models.RoleStudent, ID: student.ID, Name: student.Name}, nil
	}

	s.logger.Info("login rejected", zap.String("username", req.Username))
	return nil, appErrors.Clone(appErrors.ErrAuthenticationFailed, "invalid username or password")
}

// staffPasswordMatches compares against a bcrypt hash when the configured
// value looks like one and falls back to a plain comparison otherwise.
func staffPasswordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return plainMatches(stored, given)
}

// studentPasswordMatches only uses bcrypt in hashing mode. Records saved
// before hashing was enabled still compare as plain text.
func (s *AuthService) studentPasswordMatches(stored, given string) bool {
	if s.hashedStudents && isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return plainMatches(stored, given)
}

func plainMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(value string) bool {
	if len(value) != 60 {
		return false
	}
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
