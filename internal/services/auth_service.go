package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gallery/internal/models"
	"go-gallery/internal/repositories"
	"go-gallery/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService defines the interface for session related operations
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, models.Identity, error) // Returns a signed session token
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)                   // Reports whether the user was created
	CurrentUser(ctx context.Context, identity models.Identity) (*models.User, error)
	SessionTTL() time.Duration
}

type authServiceImpl struct {
	userRepo   repositories.UserRepository
	logger     *zap.Logger
	secret     string
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, logger *zap.Logger, secret string, sessionTTL time.Duration) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		logger:     logger,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Login verifies the credentials and signs a session token
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (string, models.Identity, error) {
	s.logger.Info("Attempting to login user", zap.String("username", username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Error finding user during login", zap.String("username", username), zap.Error(err))
		return "", models.Identity{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Warn("Login attempt failed: user not found", zap.String("username", username))
		return "", models.Identity{}, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Warn("Login attempt failed: invalid password", zap.String("username", username))
		return "", models.Identity{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, s.secret, s.sessionTTL)
	if err != nil {
		s.logger.Error("Failed to generate session token during login", zap.String("username", username), zap.Int64("userID", user.ID), zap.Error(err))
		return "", models.Identity{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("username", username), zap.Int64("userID", user.ID))
	return token, models.Identity{UserID: user.ID, Username: user.Username}, nil
}

// EnsureAdmin creates the admin account if no user with that name exists yet.
// An existing account is left untouched, including its password.
func (s *authServiceImpl) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check for admin user: %w", err)
	}
	if existing != nil {
		s.logger.Debug("Admin user already exists", zap.String("username", username))
		return false, nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := s.userRepo.CreateUser(ctx, &models.User{Username: username, PasswordHash: hashedPassword}); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	s.logger.Info("Admin user created", zap.String("username", username))
	return true, nil
}

// CurrentUser loads the account behind a session identity
func (s *authServiceImpl) CurrentUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	if user == nil {
		s.logger.Warn("Session refers to a missing user", zap.Int64("userID", identity.UserID))
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authServiceImpl) SessionTTL() time.Duration {
	return s.sessionTTL
}
