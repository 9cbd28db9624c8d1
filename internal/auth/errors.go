package auth

import "errors"

// Flow errors returned to the HTTP layer. Each maps 1:1 to a status and
// a stable message; anything else degrades to a generic 500.
var (
	// ErrEmailTaken means registration or an email change hit an
	// existing account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so the response cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidResetToken covers both a wrong and an expired reset
	// token.
	ErrInvalidResetToken = errors.New("invalid or expired token")

	// ErrEmailDelivery means the reset email could not be sent; the
	// stored token has been rolled back.
	ErrEmailDelivery = errors.New("email could not be sent")

	// ErrWrongPassword means the supplied current password did not
	// match on a password change.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrSamePassword means the new password equals the current one.
	ErrSamePassword = errors.New("new password must be different from the current password")
)
