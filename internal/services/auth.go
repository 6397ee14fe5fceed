package services

import (
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/repositories"
)

const minPasswordLength = 6

type AuthService interface {
	Register(email, password, fullName string) (*models.User, error)
	Login(email, password string) (*models.User, error)
}

type authService struct {
	users repositories.UserRepository
	cost  int
}

// NewAuthService hashes passwords with bcrypt at cost. Zero selects bcrypt.DefaultCost.
func NewAuthService(users repositories.UserRepository, cost int) AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &authService{users: users, cost: cost}
}

// Register implements AuthService.
func (s *authService) Register(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "Invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("✅ User registered")
	return user, nil
}

// Login implements AuthService. Unknown emails and wrong passwords get the same error.
func (s *authService) Login(email, password string) (*models.User, error) {
	invalid := apperrors.New(apperrors.CodeUnauthorized, "Invalid email or password")

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}
