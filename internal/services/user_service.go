package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserService handles the admin-facing user account operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput carries optional account changes; nil means keep.
type UpdateUserInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// List returns all users, newest first.
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.List()
}

// Get returns one user by ID.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	if err := requireField(input.Email, "email"); err != nil {
		return nil, err
	}
	if err := requireField(input.Password, "password"); err != nil {
		return nil, err
	}

	role := models.Role(input.Role)
	if input.Role == "" {
		role = models.RoleNormalUser
	} else if !role.Valid() {
		return nil, NewValidationError("invalid role '%s'", input.Role)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          input.Email,
		PasswordDigest: string(digest),
		Role:           role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Update applies the provided account changes.
func (s *UserService) Update(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := requireField(*input.Email, "email"); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Role != nil {
		role := models.Role(*input.Role)
		if !role.Valid() {
			return nil, NewValidationError("invalid role '%s'", *input.Role)
		}
		user.Role = role
	}
	if input.Password != nil {
		if err := requireField(*input.Password, "password"); err != nil {
			return nil, err
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordDigest = string(digest)
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes an account and its sessions, revoking access
// immediately.
func (s *UserService) Delete(id uint64) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
