package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/models"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) Create(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return apperrors.New(apperrors.CodeConflict, "email already registered")
	}
	u.ID = uuid.New()
	m.users[u.Email] = u
	return nil
}

func (m *memoryUsers) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]; ok {
		return u, nil
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (m *memoryUsers) FindByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func newTestAuth() AuthService {
	return NewAuthService(&memoryUsers{users: map[string]*models.User{}}, bcrypt.MinCost)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth := newTestAuth()

	user, err := auth.Register(" Jane@Example.com ", "secret1", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	logged, err := auth.Login("JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.Register("not-an-email", "secret1", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	_, err = auth.Register("a@b.com", "12345", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.Register("a@b.com", "secret1", "")
	require.NoError(t, err)

	_, err = auth.Register("A@B.com", "secret2", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestAuthService_LoginFailures(t *testing.T) {
	auth := newTestAuth()
	_, err := auth.Register("a@b.com", "secret1", "")
	require.NoError(t, err)

	_, err = auth.Login("a@b.com", "wrong-pass")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = auth.Login("nobody@b.com", "secret1")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
