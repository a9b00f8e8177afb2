package models

// Calendar view constants, matching the view names of the embedding calendar
// component.
const (
	ViewDayGridMonth = "dayGridMonth"
	ViewTimeGridWeek = "timeGridWeek"
	ViewTimeGridDay  = "timeGridDay"
	ViewListWeek     = "listWeek"
)

// ValidCalendarViews contains all valid calendar view values.
var ValidCalendarViews = []string{
	ViewDayGridMonth,
	ViewTimeGridWeek,
	ViewTimeGridDay,
	ViewListWeek,
}

// IsValidCalendarView checks if the given view is valid.
func IsValidCalendarView(view string) bool {
	for _, v := range ValidCalendarViews {
		if v == view {
			return true
		}
	}
	return false
}

// CalendarSchema maps a table's title/date fields to a calendar display.
// An empty Color inherits the table's color.
type CalendarSchema struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TableID     string `json:"table_id"`
	TitleField  string `json:"title_field"`
	StartField  string `json:"start_field"`
	EndField    string `json:"end_field,omitempty"`
	DefaultView string `json:"default_view"`
	TimeZone    string `json:"time_zone"`
	Order       int    `json:"order"`
	Color       string `json:"color,omitempty"`
}
