package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// DashboardListResponse for GET /api/dashboards.
type DashboardListResponse struct {
	Dashboards []models.DashboardSchema `json:"dashboards"`
	Total      int                      `json:"total"`
}

// DashboardEditRequest for POST /api/dashboards/edit. Carries the client's
// draft plus one editor action to apply to it.
type DashboardEditRequest struct {
	Dashboard models.DashboardSchema `json:"dashboard"`
	Action    string                 `json:"action"`
	Index     int                    `json:"index,omitempty"`
	Key       string                 `json:"key,omitempty"`
	Value     string                 `json:"value,omitempty"`
}

// DashboardHandler handles dashboard HTTP requests.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/dashboards", requireSession(h.List))
	mux.HandleFunc("POST /api/dashboards", requireSession(h.Create))
	mux.HandleFunc("POST /api/dashboards/preview", requireSession(h.Preview))
	mux.HandleFunc("POST /api/dashboards/edit", requireSession(h.Edit))
	mux.HandleFunc("GET /api/dashboards/{did}", requireSession(h.Get))
	mux.HandleFunc("PUT /api/dashboards/{did}", requireSession(h.Update))
	mux.HandleFunc("DELETE /api/dashboards/{did}", requireSession(h.Delete))
}

// List handles GET /api/dashboards
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	dashboards := h.dashboardService.ListDashboards(r.Context())
	response := DashboardListResponse{Dashboards: dashboards, Total: len(dashboards)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/dashboards
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dashboard models.DashboardSchema
	if !DecodeBody(w, r, h.logger, &dashboard) {
		return
	}
	dashboard.ID = ""

	saved, err := h.dashboardService.SaveDashboard(r.Context(), &dashboard)
	if err != nil {
		ServiceError(w, h.logger, "create_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Preview handles POST /api/dashboards/preview
// Evaluates a dashboard draft against the table's records without saving it.
func (h *DashboardHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var dashboard models.DashboardSchema
	if !DecodeBody(w, r, h.logger, &dashboard) {
		return
	}

	preview, err := h.dashboardService.Preview(r.Context(), &dashboard)
	if err != nil {
		ServiceError(w, h.logger, "preview_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: preview}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Edit handles POST /api/dashboards/edit
// Applies one editor action (add/update/remove filter or widget) to the
// client's draft and echoes the result back. Nothing is persisted.
func (h *DashboardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req DashboardEditRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}

	edited, err := h.dashboardService.EditDraft(r.Context(), &req.Dashboard, req.Action, req.Index, req.Key, req.Value)
	if err != nil {
		ServiceError(w, h.logger, "edit_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: edited}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/dashboards/{did}
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboardID, ok := ParseDashboardID(w, r, h.logger)
	if !ok {
		return
	}
	dashboard, err := h.dashboardService.GetDashboard(r.Context(), dashboardID)
	if err != nil {
		ServiceError(w, h.logger, "get_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: dashboard}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/dashboards/{did}
func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	dashboardID, ok := ParseDashboardID(w, r, h.logger)
	if !ok {
		return
	}
	var dashboard models.DashboardSchema
	if !DecodeBody(w, r, h.logger, &dashboard) {
		return
	}
	dashboard.ID = dashboardID

	saved, err := h.dashboardService.SaveDashboard(r.Context(), &dashboard)
	if err != nil {
		ServiceError(w, h.logger, "update_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/dashboards/{did}
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	dashboardID, ok := ParseDashboardID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.dashboardService.DeleteDashboard(r.Context(), dashboardID); err != nil {
		ServiceError(w, h.logger, "delete_dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
