package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const resetTokenBytes = 20

// NewResetToken creates a random password-reset token. The plaintext is
// what gets emailed to the user; only the hash is ever persisted.
func NewResetToken() (plaintext, hash string, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plaintext = hex.EncodeToString(b)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken computes the deterministic one-way hash under which a
// reset token is stored and later looked up.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
