package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomhub/internal/domain"
	"roomhub/internal/repo"
	"roomhub/internal/repo/repotest"
)

func TestUserRepo_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	r := repo.NewUserRepo(repotest.NewDB(t))

	require.NoError(t, r.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", IsActive: true}))
	err := r.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", IsActive: true})
	require.ErrorIs(t, err, domain.ErrConflict)

	u, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	_, err = r.FindByUsername(ctx, "bob")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ListSearch(t *testing.T) {
	ctx := context.Background()
	r := repo.NewUserRepo(repotest.NewDB(t))
	for _, n := range []string{"alice", "bob", "alicia"} {
		require.NoError(t, r.Create(ctx, &domain.User{Username: n, Email: n + "@example.com", PasswordHash: "h"}))
	}

	users, total, err := r.List(ctx, "ali", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = r.List(ctx, "", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestUserRepo_DeactivateRevokesTokens(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	users, tokens := repo.NewUserRepo(db), repo.NewTokenRepo(db)

	u := &domain.User{Username: "carol", PasswordHash: "h", IsActive: true}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, tokens.Store(ctx, &domain.RefreshToken{
		JTI: "j1", UserID: u.ID, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, users.Deactivate(ctx, u.ID, time.Now()))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	tok, err := tokens.FindByJTI(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, tok.Revoked())

	require.ErrorIs(t, users.Deactivate(ctx, 999, time.Now()), domain.ErrNotFound)
}

func TestTokenRepo_RevokeAndPrune(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTokenRepo(repotest.NewDB(t))
	now := time.Now()

	require.NoError(t, r.Store(ctx, &domain.RefreshToken{JTI: "live", UserID: 1, TokenHash: "a", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, r.Store(ctx, &domain.RefreshToken{JTI: "old", UserID: 1, TokenHash: "b", ExpiresAt: now.Add(-time.Hour)}))

	first := now.Add(-time.Minute)
	require.NoError(t, r.Revoke(ctx, "live", first))
	require.NoError(t, r.Revoke(ctx, "live", now), "second revoke is not an error")
	tok, err := r.FindByJTI(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, tok.RevokedAt)
	assert.WithinDuration(t, first, *tok.RevokedAt, time.Second, "revoked_at is never moved")

	require.ErrorIs(t, r.Revoke(ctx, "missing", now), domain.ErrNotFound)

	n, err := r.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = r.FindByJTI(ctx, "old")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.FindByJTI(ctx, "live")
	require.NoError(t, err)
}
