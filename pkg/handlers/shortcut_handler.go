package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// ShortcutListResponse for GET /api/shortcuts.
type ShortcutListResponse struct {
	Shortcuts []models.Shortcut `json:"shortcuts"`
	Total     int               `json:"total"`
}

// ShortcutHandler handles home-screen shortcut HTTP requests.
type ShortcutHandler struct {
	shortcutService services.ShortcutService
	logger          *zap.Logger
}

// NewShortcutHandler creates a new ShortcutHandler.
func NewShortcutHandler(shortcutService services.ShortcutService, logger *zap.Logger) *ShortcutHandler {
	return &ShortcutHandler{
		shortcutService: shortcutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the shortcut handler's routes on the given mux.
func (h *ShortcutHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/shortcuts", requireSession(h.List))
	mux.HandleFunc("POST /api/shortcuts", requireSession(h.Create))
	mux.HandleFunc("GET /api/shortcuts/{scid}", requireSession(h.Get))
	mux.HandleFunc("PUT /api/shortcuts/{scid}", requireSession(h.Update))
	mux.HandleFunc("DELETE /api/shortcuts/{scid}", requireSession(h.Delete))
}

// List handles GET /api/shortcuts
func (h *ShortcutHandler) List(w http.ResponseWriter, r *http.Request) {
	shortcuts := h.shortcutService.ListShortcuts(r.Context())
	response := ShortcutListResponse{Shortcuts: shortcuts, Total: len(shortcuts)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/shortcuts
func (h *ShortcutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var shortcut models.Shortcut
	if !DecodeBody(w, r, h.logger, &shortcut) {
		return
	}
	shortcut.ID = ""

	saved, err := h.shortcutService.SaveShortcut(r.Context(), &shortcut)
	if err != nil {
		ServiceError(w, h.logger, "create_shortcut_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/shortcuts/{scid}
func (h *ShortcutHandler) Get(w http.ResponseWriter, r *http.Request) {
	shortcutID, ok := ParseShortcutID(w, r, h.logger)
	if !ok {
		return
	}
	shortcut, err := h.shortcutService.GetShortcut(r.Context(), shortcutID)
	if err != nil {
		ServiceError(w, h.logger, "get_shortcut_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: shortcut}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/shortcuts/{scid}
func (h *ShortcutHandler) Update(w http.ResponseWriter, r *http.Request) {
	shortcutID, ok := ParseShortcutID(w, r, h.logger)
	if !ok {
		return
	}
	var shortcut models.Shortcut
	if !DecodeBody(w, r, h.logger, &shortcut) {
		return
	}
	shortcut.ID = shortcutID

	saved, err := h.shortcutService.SaveShortcut(r.Context(), &shortcut)
	if err != nil {
		ServiceError(w, h.logger, "update_shortcut_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/shortcuts/{scid}
func (h *ShortcutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shortcutID, ok := ParseShortcutID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.shortcutService.DeleteShortcut(r.Context(), shortcutID); err != nil {
		ServiceError(w, h.logger, "delete_shortcut_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
