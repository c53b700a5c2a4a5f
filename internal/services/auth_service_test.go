package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gallery/internal/models"
	"go-gallery/internal/utils"
	"go.uber.org/zap"
)

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.userRepo, zap.NewNop(), "secret", time.Hour)
	ctx := context.Background()

	created, err := auth.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, "admin", "changed")
	require.NoError(t, err)
	assert.False(t, created)

	// the original password still works
	_, _, err = auth.Login(ctx, "admin", "admin123")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.userRepo, zap.NewNop(), "secret", time.Hour)
	ctx := context.Background()
	_, err := auth.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)

	token, identity, err := auth.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)

	claims, err := utils.ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, claims.UserID)

	user, err := auth.CurrentUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, _, err = auth.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.CurrentUser(ctx, models.Identity{UserID: 999, Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionTTLDefault(t *testing.T) {
	auth := NewAuthService(nil, zap.NewNop(), "secret", 0)
	assert.Equal(t, 24*time.Hour, auth.SessionTTL())
}
