package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/utils"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; the two must not be distinguishable in the response.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers both unknown and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService owns the session lifecycle: login issues a token, logout
// revokes it, Resolve turns a token back into a user.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	lifetime    time.Duration
	now         func() time.Time
}

// NewAuthService creates a new AuthService. lifetime bounds every
// issued session; there is no sliding expiry.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, lifetime time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		lifetime:    lifetime,
		now:         time.Now,
	}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a fresh session token.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("email and password required")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.lifetime),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session for token. Revoking an unknown token is
// not an error, so logout is idempotent.
func (s *AuthService) Logout(token string) error {
	if err := s.sessionRepo.DeleteByToken(token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Resolve validates token and returns the user it belongs to. Unknown
// and expired tokens are deliberately indistinguishable.
func (s *AuthService) Resolve(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.sessionRepo.FindValidByToken(token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return &session.User, nil
}

// SetClock overrides the time source (used for expiry testing).
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}
