package store

import (
	"authgate/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword computes the bcrypt hash stored in place of the
// plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the user's stored
// hash. A mismatch is false, not an error.
func VerifyPassword(u *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}
