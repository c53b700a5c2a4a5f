package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	t.Setenv("APP_ENV", "test")
	t.Setenv("UPLOAD_FOLDER", uploadDir)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 16*1024*1024, cfg.MaxContentLength)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif", "webp"}, cfg.AllowedExtensions)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 1200, cfg.MaxImageWidth)
	assert.Equal(t, 1200, cfg.MaxImageHeight)
	assert.Equal(t, 85, cfg.JPEGQuality)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.DirExists(t, uploadDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("UPLOAD_FOLDER", t.TempDir())
	t.Setenv("ALLOWED_EXTENSIONS", " .PNG, jpg ,,")
	t.Setenv("PAGE_SIZE", "30")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"png", "jpg"}, cfg.AllowedExtensions)
	assert.Equal(t, map[string]bool{"png": true, "jpg": true}, cfg.AllowedExtensionSet())
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "s3cret", cfg.SecretKey)
}

func TestLoadConfigRejectsOpenCORSInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPLOAD_FOLDER", t.TempDir())
	t.Setenv("CORS_ALLOW_ORIGINS", "*")

	_, err := LoadConfig(nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		AppEnv:            "test",
		DatabaseURL:       "gallery.db",
		SecretKey:         "k",
		AllowedExtensions: []string{"png"},
		PageSize:          12,
		MaxImageWidth:     1200,
		MaxImageHeight:    1200,
		JPEGQuality:       85,
	}
	require.NoError(t, cfg.Validate())

	cfg.JPEGQuality = 0
	assert.Error(t, cfg.Validate())
	cfg.JPEGQuality = 85

	cfg.PageSize = 0
	assert.Error(t, cfg.Validate())
}
