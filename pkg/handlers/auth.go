package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/auth"
	"github.com/ada-inc/ada-engine/pkg/services"
)

// AuthHandler handles account registration and session login/logout.
type AuthHandler struct {
	users  services.UserStore
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
// Creates an account and signs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}

	user, err := h.users.Register(req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			_ = ErrorResponse(w, http.StatusConflict, "user_exists", err.Error())
			return
		}
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{ID: user.ID, Email: user.Email, Name: user.Name}); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not create session")
		return
	}

	_ = WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{ID: user.ID, Email: user.Email, Name: user.Name}); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not create session")
		return
	}

	_ = WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
// Returns the signed-in identity from the session cookie.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}
