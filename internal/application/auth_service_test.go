package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_LoadUserByUsername(t *testing.T) {
	t.Parallel()

	f := newDirectoryFixture()
	auth := NewAuthenticator(f.dir)
	ctx := context.Background()

	acct := testAccount("alice", "K1")
	acct.Role = "ROLE_ADMIN"
	require.NoError(t, f.dir.CreateAccount(ctx, acct, "en"))

	view, err := auth.LoadUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "alice@example.com", view.Email)
	assert.Equal(t, "hash", view.PasswordHash)
	assert.Equal(t, "salt", view.PasswordSalt)
	assert.False(t, view.Enabled)
	assert.True(t, view.AccountNonExpired)
	assert.True(t, view.CredentialsNonExpired)
	assert.True(t, view.AccountNonLocked)
	assert.Equal(t, []string{"ROLE_ADMIN"}, view.Authorities)
}

func TestAuthenticator_UnknownSubject(t *testing.T) {
	t.Parallel()

	f := newDirectoryFixture()
	auth := NewAuthenticator(f.dir)

	view, err := auth.LoadUserByUsername(context.Background(), "nobody")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestAuthenticator_ReflectsActivation(t *testing.T) {
	t.Parallel()

	f := newDirectoryFixture()
	auth := NewAuthenticator(f.dir)
	ctx := context.Background()

	require.NoError(t, f.dir.CreateAccount(ctx, testAccount("alice", "K1"), "en"))

	activated, err := f.dir.Activate(ctx, "K1")
	require.NoError(t, err)
	require.True(t, activated)

	view, err := auth.LoadUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, view.Enabled)
}
