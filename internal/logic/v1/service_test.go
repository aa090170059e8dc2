package v1

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/internal/core/repository"
)

func newTestAuth(t *testing.T) (*AuthService, *fakeUsers, *repository.MemorySessionStore) {
	t.Helper()
	users := newFakeUsers()
	users.add(t, 1, "ann", "s3cret", domain.RoleManager, true)
	users.add(t, 2, "bob", "hunter2", domain.RoleViewer, true)
	users.add(t, 3, "gone", "whatever", domain.RoleEditor, false)
	sessions := repository.NewMemorySessionStore()
	return NewAuthService(users, sessions), users, sessions
}

func TestLogin_SuccessThenProbe(t *testing.T) {
	ctx := context.Background()
	svc, users, sessions := newTestAuth(t)

	sess, err := svc.Login(ctx, domain.LoginRequest{Username: "ann", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, domain.RoleManager, sess.Principal.Role)
	assert.Equal(t, 1, users.lastLogin[1])
	assert.Equal(t, 1, sessions.Len())

	rec, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Principal, rec.Principal)
	assert.Equal(t, domain.SessionTTL, rec.ExpiresAt.Sub(rec.CreatedAt))
}

func TestLogin_TokensAreUnique(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuth(t)

	a, err := svc.Login(ctx, domain.LoginRequest{Username: "ann", Password: "s3cret"})
	require.NoError(t, err)
	b, err := svc.Login(ctx, domain.LoginRequest{Username: "ann", Password: "s3cret"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.Len(t, a.Token, 43)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "ann", "nope"},
		{"unknown user", "mallory", "s3cret"},
		{"inactive user", "gone", "whatever"},
		{"empty password", "bob", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, sessions := newTestAuth(t)

			sess, err := svc.Login(context.Background(), domain.LoginRequest{Username: tt.username, Password: tt.password})
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, sess)
			assert.Equal(t, 0, sessions.Len(), "no session may be issued")
		})
	}
}

func TestLogin_RepositoryErrorIsNotInvalidCredentials(t *testing.T) {
	svc, users, _ := newTestAuth(t)
	users.getErr = errDB

	_, err := svc.Login(context.Background(), domain.LoginRequest{Username: "ann", Password: "s3cret"})
	require.ErrorIs(t, err, errDB)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_ExpiredLooksLikeUnknown(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuth(t)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	sess, err := svc.Login(ctx, domain.LoginRequest{Username: "bob", Password: "hunter2"})
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(domain.SessionTTL - time.Second) }
	_, err = svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(domain.SessionTTL) }
	_, expiredErr := svc.Authenticate(ctx, sess.Token)
	_, unknownErr := svc.Authenticate(ctx, "fabricated-token")

	require.ErrorIs(t, expiredErr, ErrUnauthorized)
	require.ErrorIs(t, unknownErr, ErrUnauthorized)
	assert.Equal(t, unknownErr.Error(), expiredErr.Error())
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	_, err := svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuth(t)

	sess, err := svc.Login(ctx, domain.LoginRequest{Username: "ann", Password: "s3cret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	require.NoError(t, svc.Logout(ctx, sess.Token), "already logged out")
	require.NoError(t, svc.Logout(ctx, "never-issued"))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.Authenticate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.Contains(t, h, "$2a$12$")
}
