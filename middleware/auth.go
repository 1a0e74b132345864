package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"go.uber.org/zap"
)

// Context keys for storing identity in request context
type contextKey string

const userIDContextKey contextKey = "userID"

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid token"
)

// TokenVerifier checks a session token and returns the user id it carries
type TokenVerifier interface {
	VerifySessionToken(token string) (string, error)
}

// Middleware handles authentication middleware. It never touches the store:
// a token that verifies is enough to pass.
type Middleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// New creates a new middleware instance
func New(verifier TokenVerifier, logger *zap.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		logger:   logger,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.MessageResponse{Message: message})
}

// authenticate returns the user id of the request's session token.
// It fails with ErrUnauthorized when no token is presented and with
// ErrForbidden when the token does not verify.
func (m *Middleware) authenticate(r *http.Request) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", errors.ErrUnauthorized
	}

	userID, err := m.verifier.VerifySessionToken(token)
	if err != nil {
		m.logger.Debug("rejected session token",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return "", errors.ErrForbidden
	}
	return userID, nil
}

// Require is the middleware that requires a valid session token.
// No token gives 401, a token that fails verification gives 403.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		switch {
		case errors.Is(err, errors.ErrUnauthorized):
			writeMessage(w, http.StatusUnauthorized, msgNoToken)
			return
		case err != nil:
			writeMessage(w, http.StatusForbidden, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a copy of ctx carrying userID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserID extracts the authenticated user id from the request context.
// It is empty when the request did not pass through Require.
func UserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDContextKey).(string)
	return userID
}
