package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"go.uber.org/zap"
)

const testSecret = "test-secret-test-secret-test-secret"

func newTestMiddleware(t *testing.T) (*Middleware, *crypto.SessionIssuer) {
	t.Helper()
	issuer, err := crypto.NewSessionIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	return New(issuer, zap.NewNop()), issuer
}

// echoUser writes the user id seen by the protected handler
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(UserID(r)))
})

func serve(m *Middleware, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	m.Require(echoUser).ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Message
}

func TestRequire_NoToken(t *testing.T) {
	m, _ := newTestMiddleware(t)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc"} {
		rec := serve(m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Access denied. No token provided.", decodeMessage(t, rec))
	}
}

func TestRequire_InvalidToken(t *testing.T) {
	m, _ := newTestMiddleware(t)

	rec := serve(m, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, rec))
}

func TestRequire_WrongSecret(t *testing.T) {
	m, _ := newTestMiddleware(t)
	other, err := crypto.NewSessionIssuer("another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)

	token, err := other.IssueSessionToken("u1")
	require.NoError(t, err)

	rec := serve(m, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequire_ExpiredToken(t *testing.T) {
	m, _ := newTestMiddleware(t)
	short, err := crypto.NewSessionIssuer(testSecret, time.Nanosecond)
	require.NoError(t, err)

	token, err := short.IssueSessionToken("u1")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	rec := serve(m, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequire_ValidToken(t *testing.T) {
	m, issuer := newTestMiddleware(t)

	token, err := issuer.IssueSessionToken("user-42")
	require.NoError(t, err)

	rec := serve(m, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())

	// scheme is case-insensitive
	rec = serve(m, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserID(req))
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decodeMessage(t, rec))
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAuthenticate_ClassifiesFailures(t *testing.T) {
	m, issuer := newTestMiddleware(t)
	token, err := issuer.IssueSessionToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantID  string
		wantErr error
	}{
		{name: "missing", header: "", wantErr: errors.ErrUnauthorized},
		{name: "wrong scheme", header: "Token " + token, wantErr: errors.ErrUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", wantErr: errors.ErrForbidden},
		{name: "valid", header: "bearer " + token, wantID: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			userID, err := m.authenticate(req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, userID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, userID)
		})
	}
}
