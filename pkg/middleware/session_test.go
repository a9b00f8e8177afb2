package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/config"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTLMinutes = 60
	cfg.Session.CookieName = "geonexus_session"
	return NewSessionManager(cfg, zap.NewNop())
}

func TestSessionRoundTrip(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetUser(rec, httptest.NewRequest(http.MethodPost, "/", nil), "usr_admin"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	assert.Equal(t, "usr_admin", m.UserID(req))
}

func TestSessionClear(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Clear(rec, httptest.NewRequest(http.MethodDelete, "/", nil)))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequire(t *testing.T) {
	m := newTestManager(t)
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("without session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthenticated")
	})

	t.Run("with session", func(t *testing.T) {
		setRec := httptest.NewRecorder()
		require.NoError(t, m.SetUser(setRec, httptest.NewRequest(http.MethodPost, "/", nil), "usr_admin"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range setRec.Result().Cookies() {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("tampered cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "geonexus_session", Value: "forged"})
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
