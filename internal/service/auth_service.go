package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyreview/internal/models"
	"studyreview/internal/repository"
	"studyreview/internal/security"
	"studyreview/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenIssuer
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a new user account. The login email is also the initial
// reminder address.
func (s *AuthService) Register(ctx context.Context, name, email, password, confirm string) (*models.User, error) {
	email = strings.TrimSpace(email)

	// Validate inputs
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	// Check if email already exists
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, strings.TrimSpace(name), email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, session, user, nil
}

// ValidateToken checks a session token and returns the associated user
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}
