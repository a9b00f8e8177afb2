package models

import "time"

// FilterOperator constants. The subset that applies to a given filter depends
// on the bound field's type; see services.OperatorsFor.
const (
	OperatorEquals   = "equals"
	OperatorNotEqual = "neq"
	OperatorContains = "contains"
	OperatorGreater  = "gt"
	OperatorLess     = "lt"
)

// FilterLogic constants for combining a dashboard's filters.
const (
	FilterLogicAnd = "and"
	FilterLogicOr  = "or"
)

// WidgetType constants for dashboard widgets.
const (
	WidgetBar     = "bar"
	WidgetPie     = "pie"
	WidgetSummary = "summary"
)

// ValidWidgetTypes contains all valid widget type values.
var ValidWidgetTypes = []string{WidgetBar, WidgetPie, WidgetSummary}

// IsValidWidgetType checks if the given widget type is valid.
func IsValidWidgetType(widgetType string) bool {
	for _, t := range ValidWidgetTypes {
		if t == widgetType {
			return true
		}
	}
	return false
}

// DashboardFilter is one predicate over a field of the dashboard's table.
type DashboardFilter struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// DashboardWidget is one chart/summary element bound to a field.
type DashboardWidget struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Field string `json:"field"`
	Title string `json:"title,omitempty"`
}

// DashboardSchema is a saved view over one table's records: a filter chain
// plus a set of widgets. Filter field references are table-scoped, so
// changing TableID invalidates filters and widgets.
type DashboardSchema struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TableID   string `json:"table_id"`
	IsDefault bool   `json:"is_default"`
	ShowTable bool   `json:"show_table"`

	Filters     []DashboardFilter `json:"filters"`
	FilterLogic string            `json:"filter_logic,omitempty"` // empty means "and"
	Widgets     []DashboardWidget `json:"widgets"`

	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the dashboard.
func (d *DashboardSchema) Clone() *DashboardSchema {
	out := *d
	out.Filters = append([]DashboardFilter(nil), d.Filters...)
	out.Widgets = append([]DashboardWidget(nil), d.Widgets...)
	return &out
}
