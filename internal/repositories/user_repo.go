package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-gallery/internal/database"
	"go-gallery/internal/models"
	"go.uber.org/zap"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (int64, error) // Returns the new user ID
}

type sqlUserRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.DB, logger *zap.Logger) UserRepository {
	return &sqlUserRepository{db: db, logger: logger}
}

// FindByUsername retrieves a user by their username; nil, nil when absent
func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.db.Dialect.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`)
	user := &models.User{}

	r.logger.Debug("Executing FindByUsername query", zap.String("username", username))

	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("User not found by username", zap.String("username", username))
			return nil, nil // Return nil, nil to indicate not found cleanly
		}
		r.logger.Error("Error querying user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("error finding user by username %s: %w", username, err)
	}
	return user, nil
}

// FindByID retrieves a user by id; nil, nil when absent
func (r *sqlUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.db.Dialect.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`)
	user := &models.User{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("User not found by ID", zap.Int64("id", id))
			return nil, nil
		}
		r.logger.Error("Error querying user by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding user by ID %d: %w", id, err)
	}
	return user, nil
}

// CreateUser inserts a new user, filling in its ID and creation time
func (r *sqlUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	newID, err := r.db.Dialect.InsertReturningID(ctx, r.db, query, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		r.logger.Error("Error creating user", zap.String("username", user.Username), zap.Error(err))
		return 0, fmt.Errorf("error creating user %s: %w", user.Username, err)
	}

	user.ID = newID
	r.logger.Info("User created successfully", zap.String("username", user.Username), zap.Int64("newID", newID))
	return newID, nil
}
