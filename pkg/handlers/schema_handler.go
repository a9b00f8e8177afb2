package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// FieldNameRequest for the sublayer and hover-field endpoints.
type FieldNameRequest struct {
	Field string `json:"field"`
}

// MarkerIconRequest for PUT /api/schemas/{sid}/icon.
type MarkerIconRequest struct {
	DataURL string `json:"data_url"`
}

// DefaultDataRequest for PUT /api/schemas/{sid}/default-data.
type DefaultDataRequest struct {
	Force bool `json:"force"`
}

// SchemaListResponse for GET /api/schemas.
type SchemaListResponse struct {
	Schemas []models.TableSchema `json:"schemas"`
	Total   int                  `json:"total"`
}

// SchemaHandler handles table schema, field and data record HTTP requests.
type SchemaHandler struct {
	schemaService services.SchemaService
	recordService services.RecordService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemaService services.SchemaService, recordService services.RecordService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		recordService: recordService,
		logger:        logger,
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/schemas", requireSession(h.List))
	mux.HandleFunc("POST /api/schemas", requireSession(h.Create))
	mux.HandleFunc("GET /api/schemas/{sid}", requireSession(h.Get))
	mux.HandleFunc("PUT /api/schemas/{sid}", requireSession(h.Update))
	mux.HandleFunc("DELETE /api/schemas/{sid}", requireSession(h.Delete))
	mux.HandleFunc("PUT /api/schemas/{sid}/default-data", requireSession(h.SetDefaultData))
	mux.HandleFunc("PUT /api/schemas/{sid}/icon", requireSession(h.SetIcon))
	mux.HandleFunc("POST /api/schemas/{sid}/sublayer-rules", requireSession(h.GenerateSubLayerRules))
	mux.HandleFunc("POST /api/schemas/{sid}/hover-fields", requireSession(h.ToggleHoverField))
	mux.HandleFunc("GET /api/schemas/{sid}/fields/new", requireSession(h.NewField))
	mux.HandleFunc("POST /api/schemas/{sid}/fields", requireSession(h.SaveField))
	mux.HandleFunc("PUT /api/schemas/{sid}/fields/{fid}", requireSession(h.SaveField))
	mux.HandleFunc("DELETE /api/schemas/{sid}/fields/{fid}", requireSession(h.DeleteField))
	mux.HandleFunc("GET /api/schemas/{sid}/records", requireSession(h.ListRecords))
	mux.HandleFunc("POST /api/schemas/{sid}/records", requireSession(h.SaveRecord))
	mux.HandleFunc("PUT /api/schemas/{sid}/records/{rid}", requireSession(h.SaveRecord))
	mux.HandleFunc("DELETE /api/schemas/{sid}/records/{rid}", requireSession(h.DeleteRecord))
}

// List handles GET /api/schemas
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	schemas := h.schemaService.ListSchemas(r.Context())
	response := SchemaListResponse{Schemas: schemas, Total: len(schemas)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/schemas
func (h *SchemaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var schema models.TableSchema
	if !DecodeBody(w, r, h.logger, &schema) {
		return
	}
	schema.ID = ""

	saved, err := h.schemaService.SaveSchema(r.Context(), &schema)
	if err != nil {
		ServiceError(w, h.logger, "create_schema_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/schemas/{sid}
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	schema, err := h.schemaService.GetSchema(r.Context(), schemaID)
	if err != nil {
		ServiceError(w, h.logger, "get_schema_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/schemas/{sid}
func (h *SchemaHandler) Update(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var schema models.TableSchema
	if !DecodeBody(w, r, h.logger, &schema) {
		return
	}
	schema.ID = schemaID

	saved, err := h.schemaService.SaveSchema(r.Context(), &schema)
	if err != nil {
		ServiceError(w, h.logger, "update_schema_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/schemas/{sid}
func (h *SchemaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	res, err := h.schemaService.DeleteSchema(r.Context(), schemaID)
	if err != nil {
		ServiceError(w, h.logger, "delete_schema_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: res}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetDefaultData handles PUT /api/schemas/{sid}/default-data
func (h *SchemaHandler) SetDefaultData(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var req DefaultDataRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	if err := h.schemaService.SetDefaultInData(r.Context(), schemaID, req.Force); err != nil {
		ServiceError(w, h.logger, "set_default_data_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "updated"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetIcon handles PUT /api/schemas/{sid}/icon
func (h *SchemaHandler) SetIcon(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var req MarkerIconRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	if err := h.schemaService.SetMarkerIcon(r.Context(), schemaID, req.DataURL); err != nil {
		ServiceError(w, h.logger, "set_marker_icon_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "updated"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateSubLayerRules handles POST /api/schemas/{sid}/sublayer-rules
func (h *SchemaHandler) GenerateSubLayerRules(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var req FieldNameRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	schema, err := h.schemaService.GenerateSubLayerRules(r.Context(), schemaID, req.Field)
	if err != nil {
		ServiceError(w, h.logger, "generate_sublayer_rules_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ToggleHoverField handles POST /api/schemas/{sid}/hover-fields
func (h *SchemaHandler) ToggleHoverField(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var req FieldNameRequest
	if !DecodeBody(w, r, h.logger, &req) {
		return
	}
	schema, err := h.schemaService.ToggleHoverField(r.Context(), schemaID, req.Field)
	if err != nil {
		ServiceError(w, h.logger, "toggle_hover_field_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// NewField handles GET /api/schemas/{sid}/fields/new
// Returns a pre-seeded field draft for the editor's new-field form.
func (h *SchemaHandler) NewField(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	if _, err := h.schemaService.GetSchema(r.Context(), schemaID); err != nil {
		ServiceError(w, h.logger, "get_schema_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: services.NewFieldDraft()}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveField handles POST /api/schemas/{sid}/fields and
// PUT /api/schemas/{sid}/fields/{fid}
func (h *SchemaHandler) SaveField(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var field models.FieldDefinition
	if !DecodeBody(w, r, h.logger, &field) {
		return
	}
	if r.Method == http.MethodPut {
		fieldID, ok := ParseFieldID(w, r, h.logger)
		if !ok {
			return
		}
		field.ID = fieldID
	} else {
		field.ID = ""
	}

	schema, err := h.schemaService.SaveField(r.Context(), schemaID, &field)
	if err != nil {
		ServiceError(w, h.logger, "save_field_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteField handles DELETE /api/schemas/{sid}/fields/{fid}
func (h *SchemaHandler) DeleteField(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	fieldID, ok := ParseFieldID(w, r, h.logger)
	if !ok {
		return
	}
	schema, err := h.schemaService.DeleteField(r.Context(), schemaID, fieldID)
	if err != nil {
		ServiceError(w, h.logger, "delete_field_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListRecords handles GET /api/schemas/{sid}/records
func (h *SchemaHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	records, err := h.recordService.ListRecords(r.Context(), schemaID)
	if err != nil {
		ServiceError(w, h.logger, "list_records_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: records}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveRecord handles POST /api/schemas/{sid}/records and
// PUT /api/schemas/{sid}/records/{rid}
func (h *SchemaHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	var record models.DataRecord
	if !DecodeBody(w, r, h.logger, &record) {
		return
	}
	if r.Method == http.MethodPut {
		recordID, ok := ParseRecordID(w, r, h.logger)
		if !ok {
			return
		}
		record.ID = recordID
	} else {
		record.ID = ""
	}

	saved, err := h.recordService.SaveRecord(r.Context(), schemaID, &record)
	if err != nil {
		ServiceError(w, h.logger, "save_record_failed", err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	if err := WriteJSON(w, status, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteRecord handles DELETE /api/schemas/{sid}/records/{rid}
func (h *SchemaHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	schemaID, ok := ParseSchemaID(w, r, h.logger)
	if !ok {
		return
	}
	recordID, ok := ParseRecordID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.recordService.DeleteRecord(r.Context(), schemaID, recordID); err != nil {
		ServiceError(w, h.logger, "delete_record_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
