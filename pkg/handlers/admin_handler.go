package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/services"
)

// AdminHandler handles the backup and usage stats endpoints.
type AdminHandler struct {
	adminService services.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers the admin routes on the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("POST /api/admin/backup", requireSession(h.StartBackup))
	mux.HandleFunc("GET /api/admin/backup", requireSession(h.BackupStatus))
	mux.HandleFunc("GET /api/stats", requireSession(h.Stats))
}

// StartBackup handles POST /api/admin/backup
func (h *AdminHandler) StartBackup(w http.ResponseWriter, r *http.Request) {
	status, err := h.adminService.StartBackup(r.Context())
	if err != nil {
		ServiceError(w, h.logger, "start_backup_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusAccepted, ApiResponse{Success: true, Data: status}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// BackupStatus handles GET /api/admin/backup
func (h *AdminHandler) BackupStatus(w http.ResponseWriter, r *http.Request) {
	status := h.adminService.BackupStatus(r.Context())
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: status}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stats handles GET /api/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.adminService.Stats(r.Context())
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
