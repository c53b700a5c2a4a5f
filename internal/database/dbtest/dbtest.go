// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"go-gallery/internal/config"
	"go-gallery/internal/database"
	"go.uber.org/zap"
)

// Open returns a migrated SQLite database living in t.TempDir, closed on cleanup.
func Open(tb testing.TB) *database.DB {
	tb.Helper()
	cfg := &config.Config{DatabaseURL: filepath.Join(tb.TempDir(), "gallery_test.db")}
	db, err := database.Open(cfg, zap.NewNop())
	if err != nil {
		tb.Fatalf("failed to open test database: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	return db
}
