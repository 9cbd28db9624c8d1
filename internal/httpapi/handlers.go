// Package httpapi exposes the auth flows over HTTP with the
// { success, message, token, user } response envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	netmail "net/mail"
	"time"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/token"

	"github.com/gorilla/mux"
)

// Handler holds the wiring the endpoints need.
type Handler struct {
	auth   *auth.Service
	issuer *token.Issuer
	log    *slog.Logger

	useCookie    bool
	cookieExpire time.Duration
	secureCookie bool
	devMode      bool

	// pingDB reports store reachability for the health route; nil
	// means unknown.
	pingDB func(ctx context.Context) error
}

// NewHandler constructs the HTTP handler set.
func NewHandler(svc *auth.Service, issuer *token.Issuer, log *slog.Logger, cfg *config.Config, pingDB func(ctx context.Context) error) *Handler {
	return &Handler{
		auth:         svc,
		issuer:       issuer,
		log:          log,
		useCookie:    cfg.UseCookie,
		cookieExpire: cfg.CookieExpire,
		secureCookie: !cfg.IsDevelopment(),
		devMode:      cfg.IsDevelopment(),
		pingDB:       pingDB,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide name, email and password")
		return
	}
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, tok, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{Success: true, Token: tok, User: user.Public()})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, tok, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.internalError(w, err)
		return
	}

	if h.useCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    tok,
			Expires:  time.Now().Add(h.cookieExpire),
			HttpOnly: true,
			Secure:   h.secureCookie,
			Path:     "/",
		})
	}
	writeJSON(w, http.StatusOK, response{Success: true, Token: tok, User: user.Public()})
}

// logout clears the cookie in cookie mode. Issued tokens stay valid
// until their natural expiry; there is no server-side revocation.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if h.useCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    "none",
			Expires:  time.Now().Add(time.Hour),
			HttpOnly: true,
			Path:     "/",
		})
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged out successfully"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, response{Success: true, Data: user.Public()})
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email != "" && !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	user := userFrom(r.Context())
	updated, err := h.auth.UpdateDetails(r.Context(), user.ID.Hex(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: updated.Public()})
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	user := userFrom(r.Context())
	tok, err := h.auth.UpdatePassword(r.Context(), user.ID.Hex(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWrongPassword):
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, auth.ErrSamePassword):
			writeError(w, http.StatusBadRequest, "New password must be different from the current password")
		default:
			h.internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Password updated successfully", Token: tok})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found with that email")
		case errors.Is(err, auth.ErrEmailDelivery):
			writeError(w, http.StatusInternalServerError, "Email could not be sent")
		default:
			h.internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Password reset email sent successfully"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	resetToken := mux.Vars(r)["resettoken"]
	tok, err := h.auth.ResetPassword(r.Context(), resetToken, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			writeError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Password reset successfully", Token: tok})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "unknown"
	if h.pingDB != nil {
		dbStatus = "connected"
		if err := h.pingDB(r.Context()); err != nil {
			dbStatus = "disconnected"
		}
	}
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Authgate API is running",
		Data:    map[string]string{"database": dbStatus},
	})
}

// internalError hides store and infra failures behind a stable message;
// detail is returned only in development mode.
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.log.Error("request failed", "err", err)
	msg := "Server Error"
	if h.devMode {
		msg = "Server Error: " + err.Error()
	}
	writeError(w, http.StatusInternalServerError, msg)
}

func validEmail(email string) bool {
	addr, err := netmail.ParseAddress(email)
	return err == nil && addr.Address == email
}
