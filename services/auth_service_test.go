package services

import (
	"context"
	"testing"

	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	repo := &fakeUserRepo{users: []*models.User{{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}}}
	svc := NewAuthService(repo)
	ctx := context.Background()

	user, err := svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	_, err = svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo)
	ctx := context.Background()

	// Missing credentials: nothing is seeded.
	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	assert.Empty(t, repo.users)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "secret123"))
	require.Len(t, repo.users, 1)
	assert.Equal(t, models.RoleAdmin, repo.users[0].Role)

	// The seeded account can log in with the configured password.
	_, err := svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)

	// A populated users table is left alone.
	require.NoError(t, svc.EnsureAdmin(ctx, "other@example.com", "password"))
	assert.Len(t, repo.users, 1)
}
