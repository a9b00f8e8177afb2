package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// UserRequest for POST /api/users and PUT /api/users/{uid}. The password is
// accepted here and nowhere else; it never serializes back out.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   string `json:"role_id"`
	Password string `json:"password,omitempty"`
}

// UserListResponse for GET /api/users.
type UserListResponse struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
}

// RoleListResponse for GET /api/roles.
type RoleListResponse struct {
	Roles       []models.UserRole `json:"roles"`
	Permissions []string          `json:"permissions"`
	Total       int               `json:"total"`
}

// TogglePermissionRequest for POST /api/roles/{rid}/permissions.
type TogglePermissionRequest struct {
	Permission string `json:"permission"`
}

// UserHandler handles user and role HTTP requests.
type UserHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the user and role routes on the given mux.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/users", requireSession(h.ListUsers))
	mux.HandleFunc("POST /api/users", requireSession(h.CreateUser))
	mux.HandleFunc("GET /api/users/{uid}", requireSession(h.GetUser))
	mux.HandleFunc("PUT /api/users/{uid}", requireSession(h.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{uid}", requireSession(h.DeleteUser))
	mux.HandleFunc("GET /api/roles", requireSession(h.ListRoles))
	mux.HandleFunc("POST /api/roles", requireSession(h.CreateRole))
	mux.HandleFunc("GET /api/roles/{rid}", requireSession(h.GetRole))
	mux.HandleFunc("PUT /api/roles/{rid}", requireSession(h.UpdateRole))
	mux.HandleFunc("DELETE /api/roles/{rid}", requireSession(h.DeleteRole))
	mux.HandleFunc("POST /api/roles/{rid}/permissions", requireSession(h.TogglePermission))
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.userService.ListUsers(r.Context())
	response := UserListResponse{Users: users, Total: len(users)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		RoleID:   req.RoleID,
		Password: req.Password,
	}

	saved, err := h.userService.SaveUser(r.Context(), user)
	if err != nil {
		ServiceError(w, h.logger, "create_user_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetUser handles GET /api/users/{uid}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		ServiceError(w, h.logger, "get_user_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateUser handles PUT /api/users/{uid}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req UserRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	user := &models.User{
		ID:       userID,
		Username: req.Username,
		Email:    req.Email,
		RoleID:   req.RoleID,
		Password: req.Password,
	}

	saved, err := h.userService.SaveUser(r.Context(), user)
	if err != nil {
		ServiceError(w, h.logger, "update_user_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteUser handles DELETE /api/users/{uid}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		ServiceError(w, h.logger, "delete_user_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListRoles handles GET /api/roles
// The valid permission catalog rides along so role editors can render
// checkboxes without a second call.
func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.userService.ListRoles(r.Context())
	response := RoleListResponse{
		Roles:       roles,
		Permissions: models.ValidPermissions,
		Total:       len(roles),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateRole handles POST /api/roles
func (h *UserHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var role models.UserRole
	if !DecodeBody(w, r, h.logger, &role) {
		return
	}
	role.ID = ""

	saved, err := h.userService.SaveRole(r.Context(), &role)
	if err != nil {
		ServiceError(w, h.logger, "create_role_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetRole handles GET /api/roles/{rid}
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := ParseRoleID(w, r, h.logger)
	if !ok {
		return
	}
	role, err := h.userService.GetRole(r.Context(), roleID)
	if err != nil {
		ServiceError(w, h.logger, "get_role_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: role}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateRole handles PUT /api/roles/{rid}
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := ParseRoleID(w, r, h.logger)
	if !ok {
		return
	}
	var role models.UserRole
	if !DecodeBody(w, r, h.logger, &role) {
		return
	}
	role.ID = roleID

	saved, err := h.userService.SaveRole(r.Context(), &role)
	if err != nil {
		ServiceError(w, h.logger, "update_role_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteRole handles DELETE /api/roles/{rid}
func (h *UserHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := ParseRoleID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.userService.DeleteRole(r.Context(), roleID); err != nil {
		ServiceError(w, h.logger, "delete_role_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// TogglePermission handles POST /api/roles/{rid}/permissions
func (h *UserHandler) TogglePermission(w http.ResponseWriter, r *http.Request) {
	roleID, ok := ParseRoleID(w, r, h.logger)
	if !ok {
		return
	}
	var req TogglePermissionRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}

	role, err := h.userService.TogglePermission(r.Context(), roleID, req.Permission)
	if err != nil {
		ServiceError(w, h.logger, "toggle_permission_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: role}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
