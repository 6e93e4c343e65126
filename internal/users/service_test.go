package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	sharedauth "applycraft-backend/internal/shared/auth"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	issuer, err := sharedauth.NewIssuer("test-secret", time.Hour, false)
	require.NoError(t, err)
	repo := NewMemoryRepo()
	svc := NewService(repo, issuer)
	svc.BcryptCost = bcrypt.MinCost
	return svc, repo
}

func TestSignupThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, SignupInput{Email: " Jane@Example.com ", Password: "password1", FullName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password1", user.PasswordHash)

	claims, err := svc.Issuer.Verify(token)
	require.NoError(t, err)
	active, err := svc.SessionActive(ctx, claims.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, _, err = svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "password1"})
	require.NoError(t, err)
}

func TestSignupRejectsDuplicateAndInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	_, _, err = svc.Signup(ctx, SignupInput{Email: "A@B.co", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = svc.Signup(ctx, SignupInput{Email: "not-an-email", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Signup(ctx, SignupInput{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@b.co", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user, token, err := svc.Signup(ctx, SignupInput{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	claims, err := svc.Issuer.Verify(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID, claims.ID))
	require.NoError(t, svc.Logout(ctx, user.ID, claims.ID))

	active, err := svc.SessionActive(ctx, claims.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, active)

	err = svc.Logout(ctx, "other-user", claims.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionActiveRejectsExpiredAndForeignSessions(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	require.NoError(t, repo.CreateSession(ctx, Session{ID: "s-1", UserID: "u-1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.CreateSession(ctx, Session{ID: "s-2", UserID: "u-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	active, err := svc.SessionActive(ctx, "s-1", "u-1")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.SessionActive(ctx, "s-2", "u-2")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.SessionActive(ctx, "missing", "u-1")
	require.NoError(t, err)
	assert.False(t, active)

	n, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, _, err := svc.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "password1"})
	require.NoError(t, err)

	user, token, err := svc.LoginWithGoogle(ctx, GoogleIdentity{Sub: "g-123", Email: "Jane@example.com", Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "g-123", user.GoogleSub)
	assert.Equal(t, "Jane Doe", user.FullName)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginWithGoogle(ctx, GoogleIdentity{Email: "x@y.z"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChangePasswordRequiresCurrentAndRevokesOtherSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user, token, err := svc.Signup(ctx, SignupInput{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	current, err := svc.Issuer.Verify(token)
	require.NoError(t, err)
	_, otherToken, err := svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	other, err := svc.Issuer.Verify(otherToken)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, current.ID, ChangePasswordInput{CurrentPassword: "wrong-one", NewPassword: "password2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	err = svc.ChangePassword(ctx, user.ID, current.ID, ChangePasswordInput{CurrentPassword: "password1", NewPassword: "short"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, current.ID, ChangePasswordInput{CurrentPassword: "password1", NewPassword: "password2"}))

	active, err := svc.SessionActive(ctx, current.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = svc.SessionActive(ctx, other.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, active)

	_, _, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "password2"})
	require.NoError(t, err)
}

func TestChangePasswordLetsGoogleAccountSetFirstPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user, token, err := svc.LoginWithGoogle(ctx, GoogleIdentity{Sub: "g-1", Email: "g@example.com"})
	require.NoError(t, err)
	claims, err := svc.Issuer.Verify(token)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, claims.ID, ChangePasswordInput{NewPassword: "password1"}))
	_, _, err = svc.Login(ctx, LoginInput{Email: "g@example.com", Password: "password1"})
	require.NoError(t, err)
}
