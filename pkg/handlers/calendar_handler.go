package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

// CalendarResponse decorates a calendar with its resolved display color.
type CalendarResponse struct {
	models.CalendarSchema
	EffectiveColor string `json:"effective_color"`
}

// CalendarListResponse for GET /api/calendars.
type CalendarListResponse struct {
	Calendars []CalendarResponse `json:"calendars"`
	Total     int                `json:"total"`
}

// CalendarHandler handles calendar HTTP requests.
type CalendarHandler struct {
	calendarService services.CalendarService
	logger          *zap.Logger
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService services.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// RegisterRoutes registers the calendar handler's routes on the given mux.
func (h *CalendarHandler) RegisterRoutes(mux *http.ServeMux, requireSession SessionMiddleware) {
	mux.HandleFunc("GET /api/calendars", requireSession(h.List))
	mux.HandleFunc("POST /api/calendars", requireSession(h.Create))
	mux.HandleFunc("GET /api/calendars/{cid}", requireSession(h.Get))
	mux.HandleFunc("PUT /api/calendars/{cid}", requireSession(h.Update))
	mux.HandleFunc("DELETE /api/calendars/{cid}", requireSession(h.Delete))
}

func (h *CalendarHandler) decorate(r *http.Request, c *models.CalendarSchema) CalendarResponse {
	return CalendarResponse{
		CalendarSchema: *c,
		EffectiveColor: h.calendarService.EffectiveColor(r.Context(), c),
	}
}

// List handles GET /api/calendars
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	calendars := h.calendarService.ListCalendars(r.Context())
	response := CalendarListResponse{Total: len(calendars)}
	for i := range calendars {
		response.Calendars = append(response.Calendars, h.decorate(r, &calendars[i]))
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/calendars
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var calendar models.CalendarSchema
	if !DecodeBody(w, r, h.logger, &calendar) {
		return
	}
	calendar.ID = ""

	saved, err := h.calendarService.SaveCalendar(r.Context(), &calendar)
	if err != nil {
		ServiceError(w, h.logger, "create_calendar_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: h.decorate(r, saved)}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/calendars/{cid}
func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	calendarID, ok := ParseCalendarID(w, r, h.logger)
	if !ok {
		return
	}
	calendar, err := h.calendarService.GetCalendar(r.Context(), calendarID)
	if err != nil {
		ServiceError(w, h.logger, "get_calendar_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: h.decorate(r, calendar)}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/calendars/{cid}
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	calendarID, ok := ParseCalendarID(w, r, h.logger)
	if !ok {
		return
	}
	var calendar models.CalendarSchema
	if !DecodeBody(w, r, h.logger, &calendar) {
		return
	}
	calendar.ID = calendarID

	saved, err := h.calendarService.SaveCalendar(r.Context(), &calendar)
	if err != nil {
		ServiceError(w, h.logger, "update_calendar_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: h.decorate(r, saved)}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/calendars/{cid}
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	calendarID, ok := ParseCalendarID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.calendarService.DeleteCalendar(r.Context(), calendarID); err != nil {
		ServiceError(w, h.logger, "delete_calendar_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
