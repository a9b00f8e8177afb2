package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/config"
)

const sessionUserKey = "user_id"

// SessionManager wraps the cookie session store behind the login endpoints
// and the session-required middleware. Sessions only carry the user id;
// everything else is looked up per request.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	logger *zap.Logger
}

// NewSessionManager creates a SessionManager from the session config.
func NewSessionManager(cfg *config.Config, logger *zap.Logger) *SessionManager {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((time.Duration(cfg.Session.TTLMinutes) * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{
		store:  store,
		name:   cfg.Session.CookieName,
		logger: logger.Named("session"),
	}
}

// SetUser stores the user id in a fresh session cookie.
func (m *SessionManager) SetUser(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := m.store.Get(r, m.name)
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the user id carried by the request's session cookie, or ""
// when there is no valid session.
func (m *SessionManager) UserID(r *http.Request) string {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		return ""
	}
	id, _ := session.Values[sessionUserKey].(string)
	return id
}

// Require wraps a handler so it only runs with a valid session cookie.
func (m *SessionManager) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.UserID(r) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"error":   "unauthenticated",
				"message": "A valid session is required",
			}); err != nil {
				m.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		next(w, r)
	}
}
