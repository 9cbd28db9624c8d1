package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"authgate/internal/mail"
	"authgate/internal/store"
	"authgate/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []mail.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *fakeMailer) {
	t.Helper()
	st := store.NewMemoryStore()
	mailer := &fakeMailer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer := token.NewIssuer([]byte("test-secret"), time.Hour)
	return NewService(st, issuer, mailer, log, "http://localhost:3000/reset-password"), st, mailer
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	user, tok, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.True(t, store.VerifyPassword(user, "secret123"))
	assert.NotEqual(t, "secret123", user.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "B", "a@x.com", "other456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	user, tok, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, tok)
}

func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(ctx, "nobody@x.com", "secret123")
	_, _, errWrong := svc.Login(ctx, "a@x.com", "wrongpass")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestUpdateDetails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	updated, err := svc.UpdateDetails(ctx, user.ID.Hex(), "Alice", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "alice@x.com", updated.Email)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, _ := newTestService(t)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)
	id := user.ID.Hex()

	_, err = svc.UpdatePassword(ctx, id, "wrongpass", "newpass456")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.UpdatePassword(ctx, id, "secret123", "secret123")
	assert.ErrorIs(t, err, ErrSamePassword)

	tok, err := svc.UpdatePassword(ctx, id, "secret123", "newpass456")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	stored, err := st.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, store.VerifyPassword(stored, "newpass456"))
	assert.False(t, store.VerifyPassword(stored, "secret123"))
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, mailer := newTestService(t)

	err := svc.ForgotPassword(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].To)

	stored, err := st.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ResetPasswordToken)
	assert.True(t, stored.ResetPasswordExpire.After(time.Now()))
	// Only the hash is persisted, never the plaintext from the email.
	assert.NotContains(t, mailer.sent[0].HTML, stored.ResetPasswordToken)
}

func TestForgotPassword_MailFailureRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, mailer := newTestService(t)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)

	mailer.fail = true
	err = svc.ForgotPassword(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)

	stored, err := st.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.True(t, stored.ResetPasswordExpire.IsZero())
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, mailer := newTestService(t)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	plaintext := resetTokenFromEmail(t, mailer.sent[0].HTML)

	tok, err := svc.ResetPassword(ctx, plaintext, "newpass456")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	stored, err := st.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, store.VerifyPassword(stored, "newpass456"))
	assert.Empty(t, stored.ResetPasswordToken)

	// A consumed token cannot be used again.
	_, err = svc.ResetPassword(ctx, plaintext, "thirdpass789")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPassword_WrongOrExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, st, mailer := newTestService(t)

	user, _, err := svc.Register(ctx, "A", "a@x.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	_, err = svc.ResetPassword(ctx, "bogus-token", "newpass456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	// Simulate expiry: move the stored expiry into the past.
	stored, err := st.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.NoError(t, st.SaveResetToken(ctx, user.ID.Hex(), stored.ResetPasswordToken, time.Now().Add(-time.Minute)))

	plaintext := resetTokenFromEmail(t, mailer.sent[0].HTML)
	_, err = svc.ResetPassword(ctx, plaintext, "newpass456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

// resetTokenFromEmail extracts the token from the reset link in the
// delivered message.
func resetTokenFromEmail(t *testing.T, html string) string {
	t.Helper()
	const marker = "http://localhost:3000/reset-password/"
	i := strings.Index(html, marker)
	require.GreaterOrEqual(t, i, 0, "reset link not found in email")
	rest := html[i+len(marker):]
	end := strings.IndexByte(rest, '"')
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}
