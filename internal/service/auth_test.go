package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/auth"
	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/mail"
	"github.com/critiqueapp/critique-server/internal/store/sqlite"
)

// captureMailer records sent bodies so tests can fish out confirmation codes.
type captureMailer struct {
	bodies chan string
}

func (m *captureMailer) Send(_ context.Context, _, _, body string) error {
	m.bodies <- body
	return nil
}

func (m *captureMailer) waitForCode(t *testing.T) string {
	t.Helper()

	select {
	case body := <-m.bodies:
		parts := strings.Split(body, "\n\n")
		require.GreaterOrEqual(t, len(parts), 3, "mail body missing code block")
		return parts[2]
	case <-time.After(5 * time.Second):
		t.Fatal("no confirmation mail sent")
		return ""
	}
}

func newAuthService(t *testing.T, st *sqlite.Store, mailer mail.Mailer) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute)
	require.NoError(t, err)
	confirm, err := auth.NewConfirmationService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	return NewAuthService(st, tokens, confirm, mailer, testLogger)
}

func TestSignupToTokenFlow(t *testing.T) {
	st := newTestStore(t)
	mailer := &captureMailer{bodies: make(chan string, 1)}
	svc := newAuthService(t, st, mailer)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	created, err := st.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.False(t, created.IsSuperuser)

	code := mailer.waitForCode(t)

	tokenResp, err := svc.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)

	claims, err := svc.tokens.VerifyBearer(tokenResp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestSignupIdempotentForExactPair(t *testing.T) {
	st := newTestStore(t)
	mailer := &captureMailer{bodies: make(chan string, 2)}
	svc := newAuthService(t, st, mailer)
	ctx := context.Background()

	req := SignupRequest{Username: "alice", Email: "alice@example.com"}

	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)
	firstCode := mailer.waitForCode(t)

	// Same pair again: no new account, a fresh code is mailed.
	_, err = svc.Signup(ctx, req)
	require.NoError(t, err)
	secondCode := mailer.waitForCode(t)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	// Both codes remain exchangeable while the record is untouched.
	_, err = svc.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: firstCode})
	assert.NoError(t, err)
	_, err = svc.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: secondCode})
	assert.NoError(t, err)
}

func TestSignupPartialCollisions(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st, mail.NewNoop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"username taken", SignupRequest{Username: "alice", Email: "fresh@example.com"}},
		{"email taken", SignupRequest{Username: "fresh", Email: "alice@example.com"}},
		{"pair split across accounts", SignupRequest{Username: "alice", Email: "bob@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, errors.ErrConflict)
		})
	}
}

func TestSignupValidation(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st, mail.NewNoop())
	ctx := context.Background()

	for _, req := range []SignupRequest{
		{Username: "me", Email: "me@example.com"},
		{Username: "has space", Email: "x@example.com"},
		{Username: "alice", Email: "not-an-email"},
		{Username: "", Email: "x@example.com"},
	} {
		_, err := svc.Signup(ctx, req)
		assert.ErrorIs(t, err, errors.ErrValidation, "request %+v", req)
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st, mail.NewNoop())

	_, err := svc.IssueToken(context.Background(), TokenRequest{Username: "ghost", ConfirmationCode: "whatever"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestIssueTokenBadCode(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st, mail.NewNoop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: "forged.code"})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestIssueTokenCodeInvalidatedByProfileEdit(t *testing.T) {
	st := newTestStore(t)
	mailer := &captureMailer{bodies: make(chan string, 1)}
	svc := newAuthService(t, st, mailer)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := mailer.waitForCode(t)

	u, err := st.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	u.Email = "moved@example.com"
	require.NoError(t, st.UpdateUser(ctx, u))

	_, err = svc.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, errors.ErrValidation)
}
