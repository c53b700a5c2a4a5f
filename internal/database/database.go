package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-gallery/internal/config"
	"go.uber.org/zap"
)

const oracleURLPrefix = "oracle://"

// DB wraps the connection pool together with the dialect its queries need
type DB struct {
	*sql.DB
	Dialect Dialect
}

// IsOracleURL reports whether the database URL selects the Oracle backend.
func IsOracleURL(databaseURL string) bool {
	return strings.HasPrefix(strings.ToLower(databaseURL), oracleURLPrefix)
}

// SQLitePath turns a DATABASE_URL into a filesystem path for go-sqlite3.
// Both "sqlite:///relative/path.db" and plain paths are accepted.
func SQLitePath(databaseURL string) string {
	return strings.TrimPrefix(databaseURL, "sqlite:///")
}

// Open connects to the configured backend and makes sure the schema exists.
func Open(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	var (
		sqlDB   *sql.DB
		dialect Dialect
		err     error
	)
	if IsOracleURL(cfg.DatabaseURL) {
		sqlDB, err = InitOracle(cfg, logger)
		dialect = Oracle
	} else {
		sqlDB, err = InitSQLite(SQLitePath(cfg.DatabaseURL), logger)
		dialect = SQLite
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := dialect.EnsureSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		logger.Error("Failed to ensure database schema", zap.String("dialect", dialect.Name()), zap.Error(err))
		return nil, err
	}
	logger.Info("Database schema verified", zap.String("dialect", dialect.Name()))

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

// WithTx runs fn inside a transaction, rolling back when fn or the commit fails.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
