package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// ParseSchemaID extracts the schema ID from the request path.
// Expects path parameter: sid
func ParseSchemaID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "sid", "invalid_schema_id", "Missing schema ID", logger)
}

// ParseFieldID extracts the field ID from the request path.
// Expects path parameter: fid
func ParseFieldID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "fid", "invalid_field_id", "Missing field ID", logger)
}

// ParseRecordID extracts the data record ID from the request path.
// Expects path parameter: rid
func ParseRecordID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "rid", "invalid_record_id", "Missing record ID", logger)
}

// ParseDashboardID extracts the dashboard ID from the request path.
// Expects path parameter: did
func ParseDashboardID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "did", "invalid_dashboard_id", "Missing dashboard ID", logger)
}

// ParseCalendarID extracts the calendar ID from the request path.
// Expects path parameter: cid
func ParseCalendarID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "cid", "invalid_calendar_id", "Missing calendar ID", logger)
}

// ParseUserID extracts the user ID from the request path.
// Expects path parameter: uid
func ParseUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "uid", "invalid_user_id", "Missing user ID", logger)
}

// ParseRoleID extracts the role ID from the request path.
// Expects path parameter: rid
func ParseRoleID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "rid", "invalid_role_id", "Missing role ID", logger)
}

// ParseShortcutID extracts the shortcut ID from the request path.
// Expects path parameter: scid
func ParseShortcutID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "scid", "invalid_shortcut_id", "Missing shortcut ID", logger)
}

// ParseLayerID extracts the map tile layer ID from the request path.
// Expects path parameter: lid
func ParseLayerID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseID(w, r, "lid", "invalid_layer_id", "Missing layer ID", logger)
}

// parseID is the internal helper that does the actual extraction work.
// Entity IDs are opaque strings, so the only check is non-emptiness.
func parseID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (string, bool) {
	id := r.PathValue(pathParam)
	if id == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return id, true
}
