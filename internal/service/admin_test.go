package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/repo"
)

func TestAdmin_BanBlocksLoginAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := auth.Identity{UserID: 9999, Role: auth.RoleAdmin}
	u := register(t, f, "alice", "pw")
	res, err := f.auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, f.admin.Ban(ctx, admin, u.ID))

	_, err = f.auth.Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.auth.Refresh(ctx, res.Refresh)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	require.ErrorIs(t, f.admin.Ban(ctx, admin, 4242), domain.ErrNotFound)
	require.ErrorIs(t, f.admin.Ban(ctx, auth.Identity{UserID: u.ID}, u.ID), domain.ErrValidation)
}

func TestAdmin_Promote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := register(t, f, "bob", "pw")

	got, err := f.admin.Promote(ctx, auth.Identity{UserID: 1}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, got.Role())

	res, err := f.auth.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	claims, err := f.jwt.Parse(res.Access, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAdmin_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.admin.EnsureAdmin(ctx, "root", "s3cret", "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsSuperuser)

	again, err := f.admin.EnsureAdmin(ctx, "root", "", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	_, err = f.auth.Login(ctx, "root", "s3cret")
	require.NoError(t, err)

	_, err = f.admin.EnsureAdmin(ctx, "fresh", "", "")
	fieldErr(t, err, "password")
}

func TestAdmin_ListUsersClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"a1", "a2", "b1"} {
		register(t, f, n, "pw")
	}
	users, total, err := f.admin.ListUsers(ctx, "a", -5, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestTokenJanitor_Run(t *testing.T) {
	f := newFixture(t)
	tokens := repo.NewTokenRepo(f.db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, tokens.Store(ctx, &domain.RefreshToken{JTI: "old", UserID: 1, TokenHash: "h", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, tokens.Store(ctx, &domain.RefreshToken{JTI: "new", UserID: 1, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)}))

	done := make(chan struct{})
	go func() {
		NewTokenJanitor(tokens, time.Hour, zap.NewNop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := tokens.FindByJTI(context.Background(), "old")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	_, err := tokens.FindByJTI(context.Background(), "new")
	require.NoError(t, err)

	// disabled janitor returns at once
	NewTokenJanitor(tokens, 0, zap.NewNop()).Run(context.Background())

	n, err := f.admin.PruneTokens(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
