package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gallery/internal/config"
	"go.uber.org/zap"
)

func TestOracleRebind(t *testing.T) {
	got := Oracle.Rebind("SELECT id FROM photos WHERE caption = ? AND is_favorite = ?")
	assert.Equal(t, "SELECT id FROM photos WHERE caption = :1 AND is_favorite = :2", got)
	assert.Equal(t, "SELECT 1", SQLite.Rebind("SELECT 1"))
}

func TestPaginateArgumentOrder(t *testing.T) {
	clause, args := SQLite.Paginate(12, 24)
	assert.Equal(t, " LIMIT ? OFFSET ?", clause)
	assert.Equal(t, []any{12, 24}, args)

	clause, args = Oracle.Paginate(12, 24)
	assert.Equal(t, " OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", clause)
	assert.Equal(t, []any{24, 12}, args)
}

func TestDatabaseURLParsing(t *testing.T) {
	assert.True(t, IsOracleURL("oracle://scott:tiger@db:1521/XEPDB1"))
	assert.True(t, IsOracleURL("ORACLE://scott@db/XE"))
	assert.False(t, IsOracleURL("sqlite:///instance/gallery.db"))

	assert.Equal(t, "instance/gallery.db", SQLitePath("sqlite:///instance/gallery.db"))
	assert.Equal(t, "/var/lib/gallery.db", SQLitePath("sqlite:////var/lib/gallery.db"))
	assert.Equal(t, "gallery.db", SQLitePath("gallery.db"))
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	cfg := &config.Config{DatabaseURL: filepath.Join(t.TempDir(), "nested", "gallery.db")}

	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite3", db.Dialect.Name())
	for _, table := range []string{"users", "photos", "tbl_log"} {
		var name string
		err := db.QueryRowContext(context.Background(), `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// Applying the schema twice is harmless
	require.NoError(t, db.Dialect.EnsureSchema(context.Background(), db.DB))
}
