package middleware

import (
	"net/http"

	"github.com/ada-inc/ada-engine/pkg/auth"
)

// RequireAuth rejects anonymous requests with a 401 JSON body. Handlers
// behind it can read the identity again via auth.CurrentUser.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
			return
		}
		next(w, r)
	}
}
