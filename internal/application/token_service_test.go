package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRememberMe_CreateRotateLookup(t *testing.T) {
	t.Parallel()

	repo := newFakeLoginRepo()
	svc := NewRememberMe(repo, quietLogger())
	ctx := context.Background()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	svc.CreateToken(ctx, "bob", "S1", "T1", t0)
	svc.RotateToken(ctx, "S1", "T2", t1)

	l, err := svc.LookupBySeries(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "bob", l.Username)
	assert.Equal(t, "S1", l.Series)
	assert.Equal(t, "T2", l.Token)
	assert.Equal(t, t1, l.LastUsed)
	assert.NotEqual(t, "T1", l.Token, "rotation must replace the old secret")
}

func TestRememberMe_RotateUnknownSeriesIsNoOp(t *testing.T) {
	t.Parallel()

	repo := newFakeLoginRepo()
	svc := NewRememberMe(repo, quietLogger())
	ctx := context.Background()

	svc.CreateToken(ctx, "bob", "S1", "T1", time.Now().UTC())
	svc.RotateToken(ctx, "S9", "T2", time.Now().UTC())

	// The unknown series did not materialize and the existing one kept
	// its token.
	_, err := svc.LookupBySeries(ctx, "S9")
	assert.ErrorIs(t, err, ErrLoginNotFound)

	l, err := svc.LookupBySeries(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "T1", l.Token)
}

func TestRememberMe_CreateTokenSwallowsCommitFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeLoginRepo()
	repo.failCommit = true
	svc := NewRememberMe(repo, quietLogger())
	ctx := context.Background()

	svc.CreateToken(ctx, "bob", "S1", "T1", time.Now().UTC())

	_, err := svc.LookupBySeries(ctx, "S1")
	assert.ErrorIs(t, err, ErrLoginNotFound)
}

func TestRememberMe_RevokeAll(t *testing.T) {
	t.Parallel()

	repo := newFakeLoginRepo()
	svc := NewRememberMe(repo, quietLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	svc.CreateToken(ctx, "bob", "S1", "T1", now)
	svc.CreateToken(ctx, "bob", "S2", "T2", now)
	svc.CreateToken(ctx, "carol", "S3", "T3", now)

	require.NoError(t, svc.RevokeAll(ctx, "bob"))

	_, err := svc.LookupBySeries(ctx, "S1")
	assert.ErrorIs(t, err, ErrLoginNotFound)
	_, err = svc.LookupBySeries(ctx, "S2")
	assert.ErrorIs(t, err, ErrLoginNotFound)

	// Other users keep their logins.
	l, err := svc.LookupBySeries(ctx, "S3")
	require.NoError(t, err)
	assert.Equal(t, "carol", l.Username)

	// Revocation is idempotent.
	require.NoError(t, svc.RevokeAll(ctx, "bob"))
}

func TestRememberMe_LoginsForUser(t *testing.T) {
	t.Parallel()

	repo := newFakeLoginRepo()
	svc := NewRememberMe(repo, quietLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	svc.CreateToken(ctx, "bob", "S1", "T1", now)
	svc.CreateToken(ctx, "bob", "S2", "T2", now)

	logins, err := svc.LoginsForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, logins, 2)

	logins, err = svc.LoginsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, logins)
}
