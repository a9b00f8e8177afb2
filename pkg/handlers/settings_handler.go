package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/i18n"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// MapLayerListResponse for GET /api/map-layers.
type MapLayerListResponse struct {
	Layers []models.MapTileLayer `json:"layers"`
	Total  int                   `json:"total"`
}

// TranslationsResponse for GET /api/translations/{lang}.
type TranslationsResponse struct {
	Language  string            `json:"language"`
	Table     map[string]string `json:"table"`
	Available []string          `json:"available"`
}

// SettingsHandler handles map tile layers, UI preferences and translation
// bundle HTTP requests.
type SettingsHandler struct {
	settingsService services.SettingsService
	translator      *i18n.Translator
	logger          *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsService, translator *i18n.Translator, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		translator:      translator,
		logger:          logger,
	}
}

// RegisterRoutes registers the settings routes on the given mux. Translation
// bundles are needed by the login screen, so they stay outside the session
// requirement.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/map-layers", requireSession(h.ListLayers))
	mux.HandleFunc("POST /api/map-layers", requireSession(h.CreateLayer))
	mux.HandleFunc("PUT /api/map-layers/{lid}", requireSession(h.UpdateLayer))
	mux.HandleFunc("DELETE /api/map-layers/{lid}", requireSession(h.DeleteLayer))
	mux.HandleFunc("GET /api/preferences", requireSession(h.GetPreferences))
	mux.HandleFunc("PUT /api/preferences", requireSession(h.PutPreferences))
	mux.HandleFunc("GET /api/translations/{lang}", h.Translations)
}

// ListLayers handles GET /api/map-layers
func (h *SettingsHandler) ListLayers(w http.ResponseWriter, r *http.Request) {
	layers := h.settingsService.ListMapLayers(r.Context())
	response := MapLayerListResponse{Layers: layers, Total: len(layers)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateLayer handles POST /api/map-layers
func (h *SettingsHandler) CreateLayer(w http.ResponseWriter, r *http.Request) {
	var layer models.MapTileLayer
	if !DecodeBody(w, r, h.logger, &layer) {
		return
	}
	layer.ID = ""

	saved, err := h.settingsService.SaveMapLayer(r.Context(), &layer)
	if err != nil {
		ServiceError(w, h.logger, "create_map_layer_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateLayer handles PUT /api/map-layers/{lid}
func (h *SettingsHandler) UpdateLayer(w http.ResponseWriter, r *http.Request) {
	layerID, ok := ParseLayerID(w, r, h.logger)
	if !ok {
		return
	}
	var layer models.MapTileLayer
	if !DecodeBody(w, r, h.logger, &layer) {
		return
	}
	layer.ID = layerID

	saved, err := h.settingsService.SaveMapLayer(r.Context(), &layer)
	if err != nil {
		ServiceError(w, h.logger, "update_map_layer_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteLayer handles DELETE /api/map-layers/{lid}
func (h *SettingsHandler) DeleteLayer(w http.ResponseWriter, r *http.Request) {
	layerID, ok := ParseLayerID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.settingsService.DeleteMapLayer(r.Context(), layerID); err != nil {
		ServiceError(w, h.logger, "delete_map_layer_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetPreferences handles GET /api/preferences
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := h.settingsService.Preferences(r.Context())
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: prefs}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PutPreferences handles PUT /api/preferences
func (h *SettingsHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if !DecodeBody(w, r, h.logger, &prefs) {
		return
	}
	saved, err := h.settingsService.SavePreferences(r.Context(), prefs)
	if err != nil {
		ServiceError(w, h.logger, "save_preferences_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Translations handles GET /api/translations/{lang}
func (h *SettingsHandler) Translations(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	table := h.translator.Table(lang)
	if table == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "language_not_found", "No bundle for language "+lang); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	response := TranslationsResponse{
		Language:  lang,
		Table:     table,
		Available: h.translator.Languages(),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
