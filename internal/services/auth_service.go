package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
	notifier *NotificationService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, notifier *NotificationService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// RegisterInput represents the required information to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new active regular-user account and notifies admins.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < constants.MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength)
	}
	if len(fields) > 0 {
		return nil, apierrors.NewValidation("Validation failed", fields)
	}

	taken, err := s.userRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apierrors.NewConflict("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Dispatch after the insert commits; failures never surface.
	s.notifier.NewUserRegistered(user)

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// email and wrong password report the same generic error.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewAuthorization("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apierrors.NewAuthorization("Invalid email or password")
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
