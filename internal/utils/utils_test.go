package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gallery/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("admin124", hash))
	assert.False(t, CheckPasswordHash("admin123", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "admin", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenRejected(t *testing.T) {
	token, err := GenerateToken(7, "admin", "s3cret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(7, "admin", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("garbage", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaskDatabaseURL(t *testing.T) {
	cases := map[string]string{
		"":                                "--- EMPTY ---",
		"sqlite:///instance/gallery.db":   "sqlite:///instance/gallery.db",
		"oracle://scott:tiger@db:1521/XE": "oracle://scott:***MASKED***@db:1521/XE",
		"ORACLE://scott@db/XE":            "oracle://scott@db/XE",
		"oracle://scott:tiger":            "oracle://***MASKED***",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskDatabaseURL(in), in)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Contains(t, MaskSecret("", "d"), "EMPTY")
	assert.Contains(t, MaskSecret("d", "d"), "WARNING")
	assert.Contains(t, MaskSecret("abc", "d"), "short: 3")
	assert.Equal(t, "*** MASKED ***", MaskSecret("long-enough-secret", "d"))
}

func TestTraceConfigDetailsMasksSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := &config.Config{
		SecretKey:     "super-secret-value",
		AdminPassword: "hunter2hunter2",
		DatabaseURL:   "oracle://app:pw@db/XE",
	}

	TraceConfigDetails(zap.New(core), cfg)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "*** MASKED ***", fields["SecretKey"])
	assert.Equal(t, "*** MASKED ***", fields["AdminPassword"])
	assert.Equal(t, "oracle://app:***MASKED***@db/XE", fields["DatabaseURL"])
}
