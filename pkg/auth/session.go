package auth

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the login session cookie.
const SessionName = "ada-session"

// Session value keys.
const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
	sessionKeyName   = "name"
)

// sessionMaxAge keeps users signed in for a day.
const sessionMaxAge = 86400

// SessionUser is the identity stored in the cookie. It is a snapshot taken
// at sign-in; the user store stays authoritative.
type SessionUser struct {
	ID    string
	Email string
	Name  string
}

// Store is the process-wide cookie session store. InitSessionStore must run
// before any handler touches it.
var Store *sessions.CookieStore

// InitSessionStore initializes the cookie-based session store.
//
// The secret parameter signs session cookies. It can be any passphrase; it
// is SHA-256 hashed to derive a 32-byte key. The secret must be consistent
// across server restarts and multiple servers behind a load balancer.
//
// Security settings:
// - HttpOnly: true (inaccessible to JavaScript)
// - SameSite: Lax (the app is same-origin, Strict breaks external links)
func InitSessionStore(secret string, secure bool) {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	gob.Register(SessionUser{})
}

// SignIn writes the user's identity into the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, user SessionUser) error {
	session, err := Store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session; ignore.
		session, _ = Store.New(r, SessionName)
	}
	session.Values[sessionKeyUserID] = user.ID
	session.Values[sessionKeyEmail] = user.Email
	session.Values[sessionKeyName] = user.Name
	return session.Save(r, w)
}

// SignOut expires the session cookie.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	return session.Save(r, w)
}

// CurrentUser reads the signed-in identity from the request cookie. The
// boolean is false for anonymous requests.
func CurrentUser(r *http.Request) (SessionUser, bool) {
	if Store == nil {
		return SessionUser{}, false
	}
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return SessionUser{}, false
	}

	id, ok := session.Values[sessionKeyUserID].(string)
	if !ok || id == "" {
		return SessionUser{}, false
	}
	email, _ := session.Values[sessionKeyEmail].(string)
	name, _ := session.Values[sessionKeyName].(string)

	return SessionUser{ID: id, Email: email, Name: name}, true
}
