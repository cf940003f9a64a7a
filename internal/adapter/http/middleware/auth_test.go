package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

const testSecret = "test-jwt-secret"

func signedToken(t *testing.T, userID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func identityProbe(sm *session.Manager) (http.Handler, *string) {
	var seen string
	chain := Authenticator(sm, testSecret, logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserID(r.Context()); ok {
			seen = id
		}
	}))
	return chain, &seen
}

func TestAuthenticator_SessionCookie(t *testing.T) {
	sm := session.NewManager("test-session-secret")
	chain, seen := identityProbe(sm)

	rec := httptest.NewRecorder()
	seedReq := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sm.SetCurrentUser(rec, seedReq, "user-7"))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.AddCookie(cookie)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-7", *seen)
}

func TestAuthenticator_BearerToken(t *testing.T) {
	sm := session.NewManager("test-session-secret")
	chain, seen := identityProbe(sm)

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-9", testSecret))
	chain.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-9", *seen)
}

func TestAuthenticator_BadTokenIsAnonymous(t *testing.T) {
	sm := session.NewManager("test-session-secret")
	chain, seen := identityProbe(sm)

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-9", "wrong-secret"))
	chain.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, *seen)
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	sm := session.NewManager("test-session-secret")
	chain := RequireAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/new", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
