// Package store holds the console's entire configuration state in memory for
// the lifetime of the process. There is no persistence layer by design: every
// collection is seeded at startup and mutated through the narrow per-entity
// API below. All reads return copies so callers can build editor drafts
// without aliasing store state.
package store

import (
	"strings"
	"sync"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
)

// Store is the shared application-state handle injected into services.
type Store struct {
	mu sync.RWMutex

	schemas    []models.TableSchema
	records    []models.DataRecord
	users      []models.User
	roles      []models.UserRole
	shortcuts  []models.Shortcut
	dashboards []models.DashboardSchema
	calendars  []models.CalendarSchema
	mapLayers  []models.MapTileLayer
	prefs      models.Preferences
}

// New returns an empty store. Most callers want NewSeeded.
func New() *Store {
	return &Store{
		prefs: models.Preferences{Language: "en", Theme: models.ThemeLight},
	}
}

// CascadeResult reports what a table schema deletion removed alongside the
// schema itself.
type CascadeResult struct {
	Dashboards int `json:"dashboards"`
	Calendars  int `json:"calendars"`
	Shortcuts  int `json:"shortcuts"`
	Records    int `json:"records"`
}

// ---------------------------------------------------------------------------
// Table schemas
// ---------------------------------------------------------------------------

// TableSchemas returns all table schemas in creation order.
func (s *Store) TableSchemas() []models.TableSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TableSchema, len(s.schemas))
	for i := range s.schemas {
		out[i] = *s.schemas[i].Clone()
	}
	return out
}

// TableSchema returns the schema with the given id.
func (s *Store) TableSchema(id string) (*models.TableSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.schemas {
		if s.schemas[i].ID == id {
			return s.schemas[i].Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertTableSchema appends a new schema.
func (s *Store) InsertTableSchema(schema *models.TableSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas = append(s.schemas, *schema.Clone())
}

// UpdateTableSchema replaces the schema with the same id.
func (s *Store) UpdateTableSchema(schema *models.TableSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schemas {
		if s.schemas[i].ID == schema.ID {
			s.schemas[i] = *schema.Clone()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// SetDefaultDataSchema marks one schema as the default data view, atomically
// clearing the previous holder so at most one schema ever holds the flag.
func (s *Store) SetDefaultDataSchema(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.schemas {
		if s.schemas[i].ID == id {
			found = true
		}
	}
	if !found {
		return apperrors.ErrNotFound
	}
	for i := range s.schemas {
		s.schemas[i].IsDefaultInData = s.schemas[i].ID == id
	}
	return nil
}

// DefaultDataSchema returns the schema currently holding IsDefaultInData,
// or nil when none does.
func (s *Store) DefaultDataSchema() *models.TableSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.schemas {
		if s.schemas[i].IsDefaultInData {
			return s.schemas[i].Clone()
		}
	}
	return nil
}

// DeleteTableSchema removes a schema and cascades to every entity that
// references it: dashboards over the table, calendars bound to it,
// shortcuts pointing at it (directly or via a removed dashboard), and the
// table's data records. Dangling references would otherwise resolve to
// ErrNotFound on later lookups.
func (s *Store) DeleteTableSchema(id string) (CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.schemas {
		if s.schemas[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CascadeResult{}, apperrors.ErrNotFound
	}
	s.schemas = append(s.schemas[:idx], s.schemas[idx+1:]...)

	var res CascadeResult
	removedDashboards := make(map[string]bool)

	kept := s.dashboards[:0]
	for _, d := range s.dashboards {
		if d.TableID == id {
			removedDashboards[d.ID] = true
			res.Dashboards++
			continue
		}
		kept = append(kept, d)
	}
	s.dashboards = kept

	keptCal := s.calendars[:0]
	for _, c := range s.calendars {
		if c.TableID == id {
			res.Calendars++
			continue
		}
		keptCal = append(keptCal, c)
	}
	s.calendars = keptCal

	keptSc := s.shortcuts[:0]
	for _, sc := range s.shortcuts {
		if sc.TableRef() == id || removedDashboards[sc.DashboardRef()] {
			res.Shortcuts++
			continue
		}
		keptSc = append(keptSc, sc)
	}
	s.shortcuts = keptSc

	keptRec := s.records[:0]
	for _, r := range s.records {
		if r.TableID == id {
			res.Records++
			continue
		}
		keptRec = append(keptRec, r)
	}
	s.records = keptRec

	return res, nil
}

// ---------------------------------------------------------------------------
// Data records
// ---------------------------------------------------------------------------

// DataRecords returns all records of a table in insertion order.
func (s *Store) DataRecords(tableID string) []models.DataRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DataRecord
	for i := range s.records {
		if s.records[i].TableID == tableID {
			out = append(out, *s.records[i].Clone())
		}
	}
	return out
}

// InsertDataRecord appends a record.
func (s *Store) InsertDataRecord(record *models.DataRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record.Clone())
}

// UpdateDataRecord replaces the record with the same id.
func (s *Store) UpdateDataRecord(record *models.DataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == record.ID {
			s.records[i] = *record.Clone()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteDataRecord removes the record with the given id.
func (s *Store) DeleteDataRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Users and roles
// ---------------------------------------------------------------------------

// Users returns all users.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

// User returns the user with the given id.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// UserByIdentifier returns the user whose username or email matches
// (case-insensitive on email, exact on username).
func (s *Store) UserByIdentifier(identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Username == identifier ||
			strings.EqualFold(s.users[i].Email, identifier) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertUser appends a user.
func (s *Store) InsertUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, *user)
}

// UpdateUser replaces the user with the same id.
func (s *Store) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteUser removes the user with the given id.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// Roles returns all roles.
func (s *Store) Roles() []models.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserRole, len(s.roles))
	for i := range s.roles {
		out[i] = *s.roles[i].Clone()
	}
	return out
}

// Role returns the role with the given id.
func (s *Store) Role(id string) (*models.UserRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.roles {
		if s.roles[i].ID == id {
			return s.roles[i].Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertRole appends a role.
func (s *Store) InsertRole(role *models.UserRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = append(s.roles, *role.Clone())
}

// UpdateRole replaces the role with the same id.
func (s *Store) UpdateRole(role *models.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.roles {
		if s.roles[i].ID == role.ID {
			s.roles[i] = *role.Clone()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteRole removes the role with the given id.
func (s *Store) DeleteRole(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.roles {
		if s.roles[i].ID == id {
			s.roles = append(s.roles[:i], s.roles[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Dashboards
// ---------------------------------------------------------------------------

// Dashboards returns all dashboards.
func (s *Store) Dashboards() []models.DashboardSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DashboardSchema, len(s.dashboards))
	for i := range s.dashboards {
		out[i] = *s.dashboards[i].Clone()
	}
	return out
}

// Dashboard returns the dashboard with the given id.
func (s *Store) Dashboard(id string) (*models.DashboardSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.dashboards {
		if s.dashboards[i].ID == id {
			return s.dashboards[i].Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertDashboard appends a dashboard.
func (s *Store) InsertDashboard(d *models.DashboardSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboards = append(s.dashboards, *d.Clone())
}

// UpdateDashboard replaces the dashboard with the same id.
func (s *Store) UpdateDashboard(d *models.DashboardSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboards {
		if s.dashboards[i].ID == d.ID {
			s.dashboards[i] = *d.Clone()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteDashboard removes the dashboard with the given id.
func (s *Store) DeleteDashboard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboards {
		if s.dashboards[i].ID == id {
			s.dashboards = append(s.dashboards[:i], s.dashboards[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Calendars
// ---------------------------------------------------------------------------

// Calendars returns all calendars ordered as stored.
func (s *Store) Calendars() []models.CalendarSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CalendarSchema(nil), s.calendars...)
}

// Calendar returns the calendar with the given id.
func (s *Store) Calendar(id string) (*models.CalendarSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.calendars {
		if s.calendars[i].ID == id {
			c := s.calendars[i]
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertCalendar appends a calendar.
func (s *Store) InsertCalendar(c *models.CalendarSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars = append(s.calendars, *c)
}

// UpdateCalendar replaces the calendar with the same id.
func (s *Store) UpdateCalendar(c *models.CalendarSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.calendars {
		if s.calendars[i].ID == c.ID {
			s.calendars[i] = *c
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteCalendar removes the calendar with the given id.
func (s *Store) DeleteCalendar(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.calendars {
		if s.calendars[i].ID == id {
			s.calendars = append(s.calendars[:i], s.calendars[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Shortcuts
// ---------------------------------------------------------------------------

// Shortcuts returns all shortcuts.
func (s *Store) Shortcuts() []models.Shortcut {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Shortcut, len(s.shortcuts))
	for i := range s.shortcuts {
		out[i] = *s.shortcuts[i].Clone()
	}
	return out
}

// ShortcutByID returns the shortcut with the given id.
func (s *Store) ShortcutByID(id string) (*models.Shortcut, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.shortcuts {
		if s.shortcuts[i].ID == id {
			return s.shortcuts[i].Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// InsertShortcut appends a shortcut.
func (s *Store) InsertShortcut(sc *models.Shortcut) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortcuts = append(s.shortcuts, *sc.Clone())
}

// UpdateShortcut replaces the shortcut with the same id.
func (s *Store) UpdateShortcut(sc *models.Shortcut) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shortcuts {
		if s.shortcuts[i].ID == sc.ID {
			s.shortcuts[i] = *sc.Clone()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteShortcut removes the shortcut with the given id.
func (s *Store) DeleteShortcut(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shortcuts {
		if s.shortcuts[i].ID == id {
			s.shortcuts = append(s.shortcuts[:i], s.shortcuts[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Map tile layers
// ---------------------------------------------------------------------------

// MapLayers returns all map tile layers.
func (s *Store) MapLayers() []models.MapTileLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MapTileLayer(nil), s.mapLayers...)
}

// InsertMapLayer appends a tile layer.
func (s *Store) InsertMapLayer(l *models.MapTileLayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapLayers = append(s.mapLayers, *l)
}

// UpdateMapLayer replaces the tile layer with the same id.
func (s *Store) UpdateMapLayer(l *models.MapTileLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mapLayers {
		if s.mapLayers[i].ID == l.ID {
			s.mapLayers[i] = *l
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// DeleteMapLayer removes a tile layer. The map always needs at least one base
// layer, so deleting the last one is a policy violation.
func (s *Store) DeleteMapLayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.mapLayers) <= 1 {
		return apperrors.ErrPolicyViolation
	}
	for i := range s.mapLayers {
		if s.mapLayers[i].ID == id {
			s.mapLayers = append(s.mapLayers[:i], s.mapLayers[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// ---------------------------------------------------------------------------
// Preferences
// ---------------------------------------------------------------------------

// Preferences returns the current UI preferences.
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetPreferences replaces the UI preferences.
func (s *Store) SetPreferences(p models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}
