package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabh98s/SammySwipe/internal/common/utils"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, tokenType string) string {
	t.Helper()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    "44444444-4444-4444-4444-444444444444",
		Type:      tokenType,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}, testSecret)
	require.NoError(t, err)
	return token
}

func echoUserID(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetUserIDFromContext(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	var captured string
	handler := NewMiddleware(testSecret).Authenticate(echoUserID(&captured))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "access"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "44444444-4444-4444-4444-444444444444", captured)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	var captured string
	handler := NewMiddleware(testSecret).Authenticate(echoUserID(&captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, captured)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	var captured string
	handler := NewMiddleware(testSecret).Authenticate(echoUserID(&captured))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	var captured string
	handler := NewMiddleware("other-secret").Authenticate(echoUserID(&captured))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "access"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, captured)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	var captured string
	handler := NewMiddleware(testSecret).Authenticate(echoUserID(&captured))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "refresh"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, captured)
}
