package repositories

import (
	"context"
	"fmt"

	"go-gallery/internal/database"
	"go-gallery/internal/models"
	"go.uber.org/zap"
)

// LogRepository persists activity log entries written by the activity logger
type LogRepository interface {
	Insert(ctx context.Context, entry models.LogEntry) error
	Recent(ctx context.Context, limit int) ([]models.LogEntry, error)
}

type sqlLogRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *database.DB, logger *zap.Logger) LogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sqlLogRepository{db: db, logger: logger}
}

// Insert stores one entry. It must not log through the activity logger itself.
func (r *sqlLogRepository) Insert(ctx context.Context, entry models.LogEntry) error {
	if r.db == nil {
		return fmt.Errorf("activity log database is not initialized")
	}
	query := `INSERT INTO tbl_log (logged_at, severity, message, fields) VALUES (?, ?, ?, ?)`
	fieldsJSON := entry.Fields
	if fieldsJSON == "" {
		fieldsJSON = "{}"
	}

	if _, err := r.db.Dialect.InsertReturningID(ctx, r.db, query, entry.Timestamp.UTC(), entry.Level, entry.Message, fieldsJSON); err != nil {
		return fmt.Errorf("failed to insert activity log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first
func (r *sqlLogRepository) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	clause, args := r.db.Dialect.Paginate(limit, 0)
	query := r.db.Dialect.Rebind(`SELECT id, logged_at, severity, message, fields FROM tbl_log ORDER BY id DESC` + clause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query activity log", zap.Error(err))
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LogEntry, 0, limit)
	for rows.Next() {
		var entry models.LogEntry
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Level, &entry.Message, &entry.Fields); err != nil {
			return nil, fmt.Errorf("failed to scan activity log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
