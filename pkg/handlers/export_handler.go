package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/services"
)

// ExportHandler handles collection download requests.
type ExportHandler struct {
	exportService services.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the export route on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/export/{collection}", requireSession(h.Export))
}

// Export handles GET /api/export/{collection}?format=json|csv|sql|xlsx
// Responds with the file body and download headers rather than the JSON
// envelope.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatJSON
	}

	result, err := h.exportService.Export(r.Context(), collection, format)
	if err != nil {
		ServiceError(w, h.logger, "export_failed", err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if _, err := w.Write(result.Data); err != nil {
		h.logger.Error("Failed to write export body", zap.Error(err))
	}
}
