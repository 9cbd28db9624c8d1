// Package auth orchestrates the authentication flows: registration,
// login, profile reads and updates, password change, and the
// forgot/reset password pair.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"authgate/internal/mail"
	"authgate/internal/models"
	"authgate/internal/store"
	"authgate/internal/token"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// Service wires the credential store, token issuer, and mailer into the
// auth flows. It holds no per-request state.
type Service struct {
	store    store.UserStore
	issuer   *token.Issuer
	mailer   mail.Mailer
	log      *slog.Logger
	resetURL string
}

// NewService constructs the auth service. resetURL is the frontend base
// the emailed reset token is appended to.
func NewService(st store.UserStore, issuer *token.Issuer, mailer mail.Mailer, log *slog.Logger, resetURL string) *Service {
	return &Service{store: st, issuer: issuer, mailer: mailer, log: log, resetURL: resetURL}
}

// Register creates a new user and returns it with a fresh session
// token. A taken email yields ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user, err := s.store.Create(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("register: %w", err)
	}

	tok, err := s.issuer.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("register: issuing token: %w", err)
	}
	s.log.Info("user registered", "user_id", user.ID.Hex())
	return user, tok, nil
}

// Login verifies the email/password pair and returns the user with a
// session token. Unknown email and wrong password both yield
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if !store.VerifyPassword(user, password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("login: issuing token: %w", err)
	}
	return user, tok, nil
}

// User returns the user record for an already-authenticated identity.
func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateDetails applies name/email changes for the authenticated user.
func (s *Service) UpdateDetails(ctx context.Context, id, name, email string) (*models.User, error) {
	user, err := s.store.UpdateDetails(ctx, id, name, email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update details: %w", err)
	}
	return user, nil
}

// UpdatePassword verifies the current password, rejects a no-op change,
// sets the new password, and returns a fresh session token.
func (s *Service) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (string, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("update password: %w", err)
	}
	if !store.VerifyPassword(user, currentPassword) {
		return "", ErrWrongPassword
	}
	if newPassword == currentPassword {
		return "", ErrSamePassword
	}
	if err := s.store.SetPassword(ctx, id, newPassword); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	tok, err := s.issuer.Issue(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("update password: issuing token: %w", err)
	}
	s.log.Info("password updated", "user_id", user.ID.Hex())
	return tok, nil
}

// ForgotPassword generates a reset token for the account, stores its
// hash with a 10-minute expiry, and emails the plaintext as a link. If
// the email cannot be sent, the stored fields are rolled back so an
// undelivered token cannot later be used.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	plaintext, hash, err := token.NewResetToken()
	if err != nil {
		return fmt.Errorf("forgot password: generating token: %w", err)
	}
	if err := s.store.SaveResetToken(ctx, user.ID.Hex(), hash, time.Now().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTML:    mail.ResetPasswordEmail(user.Name, s.resetURL+"/"+plaintext),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("reset email failed, rolling back token", "user_id", user.ID.Hex(), "err", err)
		if clearErr := s.store.ClearResetToken(ctx, user.ID.Hex()); clearErr != nil {
			s.log.Error("reset token rollback failed", "user_id", user.ID.Hex(), "err", clearErr)
		}
		return ErrEmailDelivery
	}
	s.log.Info("password reset email sent", "user_id", user.ID.Hex())
	return nil
}

// ResetPassword consumes a reset token and sets the new password,
// returning a fresh session token. Wrong and expired tokens yield the
// same ErrInvalidResetToken.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	user, err := s.store.ConsumeResetToken(ctx, token.HashResetToken(resetToken), time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidResetToken
		}
		return "", fmt.Errorf("reset password: %w", err)
	}
	if err := s.store.SetPassword(ctx, user.ID.Hex(), newPassword); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	tok, err := s.issuer.Issue(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("reset password: issuing token: %w", err)
	}
	s.log.Info("password reset completed", "user_id", user.ID.Hex())
	return tok, nil
}
