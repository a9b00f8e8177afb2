package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/config"
	"github.com/geonexus/console/pkg/i18n"
	"github.com/geonexus/console/pkg/middleware"
	"github.com/geonexus/console/pkg/services"
	"github.com/geonexus/console/pkg/store"
	"github.com/geonexus/console/pkg/tasks"
)

// testEnv wires the full route surface over a seeded store, the way main
// does, so handler tests exercise real services end to end.
type testEnv struct {
	mux      *http.ServeMux
	store    *store.Store
	sessions *middleware.SessionManager
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		Env:     "test",
		Version: "test",
	}
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTLMinutes = 60
	cfg.Session.CookieName = "geonexus_session"
	cfg.Backup.DurationSeconds = 1

	st := store.NewSeeded()
	translator, err := i18n.Load()
	require.NoError(t, err)

	sessions := middleware.NewSessionManager(cfg, logger)
	scheduler := tasks.NewScheduler(logger)

	authService := services.NewAuthService(st, logger)
	schemaService := services.NewSchemaService(st, logger)
	recordService := services.NewRecordService(st, logger)
	dashboardService := services.NewDashboardService(st, logger)
	calendarService := services.NewCalendarService(st, logger)
	userService := services.NewUserService(st, logger)
	shortcutService := services.NewShortcutService(st, logger)
	settingsService := services.NewSettingsService(st, translator, logger)
	exportService := services.NewExportService(st, logger)
	adminService := services.NewAdminService(st, scheduler, cfg.BackupDuration(), logger)

	mux := http.NewServeMux()
	requireSession := SessionMiddleware(sessions.Require)
	NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	NewAuthHandler(authService, sessions, logger).RegisterRoutes(mux, requireSession)
	NewSchemaHandler(schemaService, recordService, logger).RegisterRoutes(mux, requireSession)
	NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux, requireSession)
	NewCalendarHandler(calendarService, logger).RegisterRoutes(mux, requireSession)
	NewUserHandler(userService, logger).RegisterRoutes(mux, requireSession)
	NewShortcutHandler(shortcutService, logger).RegisterRoutes(mux, requireSession)
	NewSettingsHandler(settingsService, translator, logger).RegisterRoutes(mux, requireSession)
	NewExportHandler(exportService, logger).RegisterRoutes(mux, requireSession)
	NewAdminHandler(adminService, logger).RegisterRoutes(mux, requireSession)
	NewDiffHandler(logger).RegisterRoutes(mux, requireSession)

	return &testEnv{mux: mux, store: st, sessions: sessions, cfg: cfg}
}

// login authenticates as the seeded admin and returns the session cookies.
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/session", map[string]string{
		"identifier": "admin",
		"password":   "admin",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// do runs one request through the mux. body is JSON-marshalled when non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope's data payload into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}
