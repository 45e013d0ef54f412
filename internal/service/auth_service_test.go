package service

import (
	"context"
	"testing"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ng!Passw0rd"

func seedLoginUser(t *testing.T, s *testStack, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := s.seedUser(t, username)
	require.NoError(t, s.db.Model(u).Update("password", string(hash)).Error)
	return u
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := seedLoginUser(t, s, "alice")

	t.Run("by username", func(t *testing.T) {
		user, pair, err := s.authSvc.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
	})

	t.Run("by email", func(t *testing.T) {
		user, _, err := s.authSvc.Login(ctx, "alice@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.authSvc.Login(ctx, "alice", "nope")
		assertAppCode(t, err, models.CodeAuthentication)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := s.authSvc.Login(ctx, "ghost", testPassword)
		assertAppCode(t, err, models.CodeAuthentication)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := s.authSvc.Login(ctx, "", "")
		assertAppCode(t, err, models.CodeValidation)
	})
}

func TestAuthService_AccessTokenVerifies(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := seedLoginUser(t, s, "alice")

	_, pair, err := s.authSvc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	auth := middleware.NewAuthenticator(&config.Config{JWTSecret: testJWTSecret}, s.redis)
	id, err := auth.Verify(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id.UserID)

	_, err = auth.Verify(ctx, pair.RefreshToken)
	assert.Error(t, err, "refresh tokens must not authenticate requests")
}

func TestAuthService_RefreshRotates(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := seedLoginUser(t, s, "alice")

	_, first, err := s.authSvc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	user, second, err := s.authSvc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, _, err = s.authSvc.Refresh(ctx, first.RefreshToken)
	assertAppCode(t, err, models.CodeAuthentication)

	_, _, err = s.authSvc.Refresh(ctx, second.AccessToken)
	assertAppCode(t, err, models.CodeAuthentication)

	_, _, err = s.authSvc.Refresh(ctx, "")
	assertAppCode(t, err, models.CodeAuthentication)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	seedLoginUser(t, s, "alice")

	_, pair, err := s.authSvc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	auth := middleware.NewAuthenticator(&config.Config{JWTSecret: testJWTSecret}, s.redis)
	id, err := auth.Verify(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, s.authSvc.Logout(ctx, LogoutInput{
		AccessJTI:    id.JTI,
		AccessExpiry: pair.AccessExpiresAt,
		RefreshToken: pair.RefreshToken,
	}))

	_, err = auth.Verify(ctx, pair.AccessToken)
	assert.Error(t, err)

	ttl, err := s.redis.TTL(ctx, middleware.DenylistKey(id.JTI)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	_, _, err = s.authSvc.Refresh(ctx, pair.RefreshToken)
	assertAppCode(t, err, models.CodeAuthentication)
}

func TestAuthService_RefreshAfterAccountDeleted(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := seedLoginUser(t, s, "alice")

	_, pair, err := s.authSvc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.NoError(t, s.userSvc.DeleteAccount(ctx, alice.ID))

	_, _, err = s.authSvc.Refresh(ctx, pair.RefreshToken)
	assertAppCode(t, err, models.CodeAuthentication)
}
