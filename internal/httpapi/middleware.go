package httpapi

import (
	"context"
	"net/http"
	"strings"

	"authgate/internal/models"
)

type contextKey int

const userContextKey contextKey = iota

// requireAuth verifies the bearer token from the Authorization header
// or the token cookie, loads the user, and attaches it to the request
// context. Every failure mode is the same 401.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		userID, err := h.issuer.Verify(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		user, err := h.auth.User(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the session token from the Authorization header,
// falling back to the http-only cookie set in cookie mode.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil && c.Value != "" && c.Value != "none" {
		return c.Value
	}
	return ""
}

// userFrom returns the authenticated user placed in the context by
// requireAuth.
func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}
