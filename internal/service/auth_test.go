package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
)

func register(t *testing.T, f *fixture, username, password string) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{Username: username, Password: password, Email: username + "@example.com"})
	require.NoError(t, err)
	return u
}

func fieldErr(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, field)
	return verr.Fields[field]
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{})
	require.ErrorIs(t, err, domain.ErrValidation)
	fieldErr(t, err, "username")
	fieldErr(t, err, "password")

	_, err = f.auth.Register(ctx, RegisterInput{Username: "eve", Password: "pw", Email: "not-an-email"})
	fieldErr(t, err, "email")

	register(t, f, "alice", "pw123")
	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "other"})
	assert.Contains(t, fieldErr(t, err, "username"), "already exists")
}

func TestRegister_RoleCannotBeSelfAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, role := range []string{"admin", "staff", "superuser", "ADMIN"} {
		_, err := f.auth.Register(ctx, RegisterInput{Username: "mallory-" + role, Password: "pw", Role: role})
		assert.Equal(t, "cannot be self-assigned", fieldErr(t, err, "role"), role)
	}

	u, err := f.auth.Register(ctx, RegisterInput{Username: "plain", Password: "pw", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, u.Role())
	assert.NotEqual(t, "pw", u.PasswordHash)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := register(t, f, "alice", "pw123")

	res, err := f.auth.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "alice", res.Username)

	claims, err := f.jwt.Parse(res.Access, auth.AccessToken)
	require.NoError(t, err)
	id, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)

	_, err = f.auth.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.auth.Login(ctx, "nobody", "pw123")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.auth.Login(ctx, "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogout_RevokesRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := register(t, f, "alice", "pw123")
	res, err := f.auth.Login(ctx, "alice", "pw123")
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, res.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	require.NoError(t, f.auth.Verify(ctx, res.Refresh))

	me := auth.Identity{UserID: u.ID, Role: auth.RoleUser}
	require.NoError(t, f.auth.Logout(ctx, me, res.Refresh))

	for i := 0; i < 2; i++ {
		_, err = f.auth.Refresh(ctx, res.Refresh)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		require.ErrorIs(t, f.auth.Verify(ctx, res.Refresh), domain.ErrUnauthorized)
	}
	// the access token stays valid on its own
	require.NoError(t, f.auth.Verify(ctx, res.Access))
}

func TestLogout_FailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice", "pw")
	bob := register(t, f, "bob", "pw")
	aRes, err := f.auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	aliceID := auth.Identity{UserID: alice.ID, Role: auth.RoleUser}
	bobID := auth.Identity{UserID: bob.ID, Role: auth.RoleUser}

	missing := f.auth.Logout(ctx, aliceID, "")
	assert.Equal(t, "this field is required", fieldErr(t, missing, "refresh"))

	malformed := fieldErr(t, f.auth.Logout(ctx, aliceID, "garbage"), "refresh")
	accessAsRefresh := fieldErr(t, f.auth.Logout(ctx, aliceID, aRes.Access), "refresh")
	otherUser := fieldErr(t, f.auth.Logout(ctx, bobID, aRes.Refresh), "refresh")
	require.NoError(t, f.auth.Logout(ctx, aliceID, aRes.Refresh))
	revoked := fieldErr(t, f.auth.Logout(ctx, aliceID, aRes.Refresh), "refresh")

	assert.Equal(t, malformed, accessAsRefresh)
	assert.Equal(t, malformed, otherUser)
	assert.Equal(t, malformed, revoked)
}

func TestRefresh_UnknownJTI(t *testing.T) {
	f := newFixture(t)
	u := register(t, f, "alice", "pw")
	// signed correctly but never recorded
	pair, err := f.jwt.IssuePair(u.ID, auth.RoleUser)
	require.NoError(t, err)
	_, err = f.auth.Refresh(context.Background(), pair.Refresh)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
