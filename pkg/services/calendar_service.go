package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// CalendarService provides operations for managing calendar configurations.
type CalendarService interface {
	// ListCalendars returns all calendars.
	ListCalendars(ctx context.Context) []models.CalendarSchema

	// GetCalendar returns a single calendar by ID.
	GetCalendar(ctx context.Context, id string) (*models.CalendarSchema, error)

	// SaveCalendar upserts a calendar after validating its field bindings
	// against the bound table.
	SaveCalendar(ctx context.Context, c *models.CalendarSchema) (*models.CalendarSchema, error)

	// DeleteCalendar removes a calendar by ID.
	DeleteCalendar(ctx context.Context, id string) error

	// EffectiveColor resolves a calendar's display color: its own when set,
	// the bound table's otherwise.
	EffectiveColor(ctx context.Context, c *models.CalendarSchema) string
}

type calendarService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(st *store.Store, logger *zap.Logger) CalendarService {
	return &calendarService{
		store:  st,
		logger: logger.Named("calendar-service"),
	}
}

var _ CalendarService = (*calendarService)(nil)

func (s *calendarService) ListCalendars(ctx context.Context) []models.CalendarSchema {
	return s.store.Calendars()
}

func (s *calendarService) GetCalendar(ctx context.Context, id string) (*models.CalendarSchema, error) {
	return s.store.Calendar(id)
}

func (s *calendarService) SaveCalendar(ctx context.Context, c *models.CalendarSchema) (*models.CalendarSchema, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: calendar name is required", apperrors.ErrValidation)
	}
	table, err := s.store.TableSchema(c.TableID)
	if err != nil {
		return nil, fmt.Errorf("%w: calendar references unknown table %q", apperrors.ErrValidation, c.TableID)
	}

	if c.TitleField == "" || table.FieldByName(c.TitleField) == nil {
		return nil, fmt.Errorf("%w: title field %q not found on table %q", apperrors.ErrValidation, c.TitleField, table.Name)
	}
	start := table.FieldByName(c.StartField)
	if c.StartField == "" || start == nil {
		return nil, fmt.Errorf("%w: start field %q not found on table %q", apperrors.ErrValidation, c.StartField, table.Name)
	}
	if start.Type != models.FieldTypeDate {
		return nil, fmt.Errorf("%w: start field %q must be a date field", apperrors.ErrValidation, c.StartField)
	}
	if c.EndField != "" {
		end := table.FieldByName(c.EndField)
		if end == nil {
			return nil, fmt.Errorf("%w: end field %q not found on table %q", apperrors.ErrValidation, c.EndField, table.Name)
		}
		if end.Type != models.FieldTypeDate {
			return nil, fmt.Errorf("%w: end field %q must be a date field", apperrors.ErrValidation, c.EndField)
		}
	}
	if c.DefaultView == "" {
		c.DefaultView = models.ViewDayGridMonth
	}
	if !models.IsValidCalendarView(c.DefaultView) {
		return nil, fmt.Errorf("%w: unknown calendar view %q", apperrors.ErrValidation, c.DefaultView)
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
		s.store.InsertCalendar(c)
		s.logger.Info("calendar created",
			zap.String("calendar_id", c.ID),
			zap.String("table_id", c.TableID))
		return c, nil
	}
	if err := s.store.UpdateCalendar(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *calendarService) DeleteCalendar(ctx context.Context, id string) error {
	return s.store.DeleteCalendar(id)
}

func (s *calendarService) EffectiveColor(ctx context.Context, c *models.CalendarSchema) string {
	if c.Color != "" {
		return c.Color
	}
	table, err := s.store.TableSchema(c.TableID)
	if err != nil {
		return ""
	}
	return table.Color
}
