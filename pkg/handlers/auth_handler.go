package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/middleware"
	"github.com/geonexus/console/pkg/services"
)

// SessionMiddleware wraps a handler with the session requirement.
type SessionMiddleware func(http.HandlerFunc) http.HandlerFunc

// LoginRequest for POST /api/session.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthHandler handles the login session endpoints.
type AuthHandler struct {
	authService services.AuthService
	sessions    *middleware.SessionManager
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthService, sessions *middleware.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// RegisterRoutes registers the session routes on the given mux. Login itself
// is the one API route outside the session requirement.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("POST /api/session", h.Login)
	mux.HandleFunc("DELETE /api/session", requireSession(h.Logout))
	mux.HandleFunc("GET /api/session", requireSession(h.Current))
}

// Login handles POST /api/session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		ServiceError(w, h.logger, "login_failed", err)
		return
	}

	if err := h.sessions.SetUser(w, r, user.ID); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		ServiceError(w, h.logger, "session_save_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles DELETE /api/session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "logged_out"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Current handles GET /api/session
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.UserByID(r.Context(), h.sessions.UserID(r))
	if err != nil {
		ServiceError(w, h.logger, "session_user_lookup_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
