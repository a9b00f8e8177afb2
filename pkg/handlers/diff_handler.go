package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/diff"
)

// DiffRequest for POST /api/diff.
type DiffRequest struct {
	Initial map[string]any `json:"initial"`
	Current map[string]any `json:"current"`
	Labels  []diff.Label   `json:"labels,omitempty"`
}

// DiffResponse for POST /api/diff.
type DiffResponse struct {
	Changed []string `json:"changed"`
	Dirty   bool     `json:"dirty"`
}

// DiffHandler evaluates the dirty-field comparison for editor clients that
// want the confirm-discard summary computed server-side.
type DiffHandler struct {
	logger *zap.Logger
}

// NewDiffHandler creates a new DiffHandler.
func NewDiffHandler(logger *zap.Logger) *DiffHandler {
	return &DiffHandler{logger: logger}
}

// RegisterRoutes registers the diff route on the given mux.
func (h *DiffHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("POST /api/diff", requireSession(h.Diff))
}

// Diff handles POST /api/diff
func (h *DiffHandler) Diff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}

	changed := diff.Changed(req.Initial, req.Current, req.Labels)
	response := DiffResponse{Changed: changed, Dirty: len(changed) > 0}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
