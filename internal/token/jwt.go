// Package token implements the two credential primitives of the service:
// signed session tokens (JWT, HS256) and random password-reset tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every failure mode — bad
// signature, malformed input, or expiry. Callers must not learn which.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Issuer mints and verifies session tokens bound to a user identifier.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with the given secret. Tokens are
// valid for ttl from issuance.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue produces a signed token embedding userID and an expiry of
// now + ttl.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: userID,
	})
	return tok.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded user
// identifier. Any failure yields ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (string, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid || c.UserID == "" {
		return "", ErrInvalidToken
	}
	return c.UserID, nil
}
