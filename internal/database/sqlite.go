package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver
	"go.uber.org/zap"
)

// InitSQLite opens the SQLite database at path, creating its directory when missing.
func InitSQLite(path string, logger *zap.Logger) (*sql.DB, error) {
	logger.Info("Initializing SQLite database...", zap.String("requested_path", path))

	inMemory := path == ":memory:" || strings.HasPrefix(path, "file::memory:")

	// --- Ensure Directory Exists ---
	dbDir := filepath.Dir(path)
	if !inMemory && dbDir != "." && dbDir != "/" {
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			logger.Info("SQLite database directory does not exist, creating...", zap.String("path", dbDir))
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				logger.Error("Failed to create SQLite database directory", zap.String("path", dbDir), zap.Error(err))
				return nil, fmt.Errorf("failed to create sqlite db directory %s: %w", dbDir, err)
			}
		} else if err != nil {
			logger.Error("Failed to check status of SQLite database directory", zap.String("path", dbDir), zap.Error(err))
			return nil, fmt.Errorf("failed to check status of sqlite db directory %s: %w", dbDir, err)
		}
	}

	dsn := path
	if !inMemory {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_journal_mode=WAL&_busy_timeout=5000"
	}

	logger.Info("Opening SQLite database connection...", zap.String("path", path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logger.Error("Failed to open SQLite database", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}

	// A single connection serialises writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error("Failed to ping SQLite database after open", zap.Error(err))
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	logger.Debug("SQLite ping successful.")

	logger.Info("SQLite database initialized successfully", zap.String("path", path))
	return db, nil
}
