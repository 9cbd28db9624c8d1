// Package store persists user records and owns password hashing and
// verification. The Mongo implementation backs the running service; the
// in-memory implementation backs tests.
package store

import (
	"context"
	"errors"
	"time"

	"authgate/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write would violate email
	// uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore is the persistence interface the auth flows run against.
type UserStore interface {
	// Create inserts a new user with the default role, hashing the
	// plaintext password before persistence.
	Create(ctx context.Context, name, email, password string) (*models.User, error)

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)

	// UpdateDetails applies the allowed mutable fields. Empty values
	// leave the corresponding field unchanged.
	UpdateDetails(ctx context.Context, id, name, email string) (*models.User, error)

	// SetPassword re-hashes and persists a new password. Callers must
	// have confirmed the user's identity first.
	SetPassword(ctx context.Context, id, password string) error

	// SaveResetToken stores the hash of an outstanding reset token and
	// its absolute expiry on the user record.
	SaveResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// ClearResetToken removes both reset-token fields.
	ClearResetToken(ctx context.Context, id string) error

	// ConsumeResetToken finds the user whose stored token hash matches
	// and whose expiry is after now, clearing both fields in the same
	// operation. The returned record is the one from before the clear.
	// A token can therefore be consumed at most once, even under
	// concurrent attempts.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
}
