package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSignIn_RoundTrip(t *testing.T) {
	InitSessionStore("test-secret", false)

	rec := httptest.NewRecorder()
	err := SignIn(rec, httptest.NewRequest(http.MethodPost, "/login", nil),
		SessionUser{ID: "u1", Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	user, ok := CurrentUser(withCookies(t, rec, "/anywhere"))
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
}

func TestCurrentUser_Anonymous(t *testing.T) {
	InitSessionStore("test-secret", false)

	_, ok := CurrentUser(httptest.NewRequest(http.MethodGet, "/anywhere", nil))
	assert.False(t, ok)
}

func TestCurrentUser_TamperedCookie(t *testing.T) {
	InitSessionStore("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/anywhere", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "garbage"})

	_, ok := CurrentUser(req)
	assert.False(t, ok)
}

func TestSignOut_ExpiresSession(t *testing.T) {
	InitSessionStore("test-secret", false)

	signIn := httptest.NewRecorder()
	require.NoError(t, SignIn(signIn, httptest.NewRequest(http.MethodPost, "/login", nil),
		SessionUser{ID: "u1"}))

	signOut := httptest.NewRecorder()
	require.NoError(t, SignOut(signOut, withCookies(t, signIn, "/logout")))

	cookies := signOut.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge, "expired cookie clears the session")
}
