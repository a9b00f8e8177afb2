package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// OperatorsFor returns the operator set that applies to a field type:
// numbers compare, dates are on/after/before, selects and booleans are
// is/is-not, and free text adds substring matching.
func OperatorsFor(fieldType string) []string {
	switch fieldType {
	case models.FieldTypeNumber:
		return []string{models.OperatorEquals, models.OperatorGreater, models.OperatorLess, models.OperatorNotEqual}
	case models.FieldTypeDate:
		return []string{models.OperatorEquals, models.OperatorGreater, models.OperatorLess}
	case models.FieldTypeSelect, models.FieldTypeBoolean:
		return []string{models.OperatorEquals, models.OperatorNotEqual}
	case models.FieldTypeText:
		return []string{models.OperatorEquals, models.OperatorContains, models.OperatorNotEqual}
	default:
		return []string{models.OperatorEquals, models.OperatorContains, models.OperatorNotEqual}
	}
}

// operatorAllowed reports whether op is valid for the field type.
func operatorAllowed(fieldType, op string) bool {
	for _, allowed := range OperatorsFor(fieldType) {
		if allowed == op {
			return true
		}
	}
	return false
}

// AddFilter appends a filter defaulted to the table's first field with the
// equals operator and an empty value.
func AddFilter(d *models.DashboardSchema, table *models.TableSchema) error {
	if len(table.Fields) == 0 {
		return fmt.Errorf("%w: table %q has no fields to filter on", apperrors.ErrValidation, table.Name)
	}
	d.Filters = append(d.Filters, models.DashboardFilter{
		ID:       uuid.NewString(),
		Field:    table.Fields[0].Name,
		Operator: models.OperatorEquals,
		Value:    "",
	})
	return nil
}

// UpdateFilter replaces one attribute of the filter at index. Changing the
// field resets operator and value, since the prior operator set may not apply
// to the new field's type.
func UpdateFilter(d *models.DashboardSchema, table *models.TableSchema, index int, key, value string) error {
	if index < 0 || index >= len(d.Filters) {
		return fmt.Errorf("%w: no filter at index %d", apperrors.ErrValidation, index)
	}
	f := &d.Filters[index]
	switch key {
	case "field":
		field := table.FieldByName(value)
		if field == nil {
			return fmt.Errorf("%w: no field named %q", apperrors.ErrValidation, value)
		}
		f.Field = value
		f.Operator = OperatorsFor(field.Type)[0]
		f.Value = ""
	case "operator":
		field := table.FieldByName(f.Field)
		if field == nil {
			return fmt.Errorf("%w: filter references unknown field %q", apperrors.ErrValidation, f.Field)
		}
		if !operatorAllowed(field.Type, value) {
			return fmt.Errorf("%w: operator %q does not apply to %s fields", apperrors.ErrValidation, value, field.Type)
		}
		f.Operator = value
	case "value":
		f.Value = value
	default:
		return fmt.Errorf("%w: unknown filter attribute %q", apperrors.ErrValidation, key)
	}
	return nil
}

// RemoveFilter deletes the filter at index.
func RemoveFilter(d *models.DashboardSchema, index int) error {
	if index < 0 || index >= len(d.Filters) {
		return fmt.Errorf("%w: no filter at index %d", apperrors.ErrValidation, index)
	}
	d.Filters = append(d.Filters[:index], d.Filters[index+1:]...)
	return nil
}

// AddWidget appends an unbound bar widget.
func AddWidget(d *models.DashboardSchema) {
	d.Widgets = append(d.Widgets, models.DashboardWidget{
		ID:   uuid.NewString(),
		Type: models.WidgetBar,
	})
}

// UpdateWidget replaces one attribute of the widget at index.
func UpdateWidget(d *models.DashboardSchema, table *models.TableSchema, index int, key, value string) error {
	if index < 0 || index >= len(d.Widgets) {
		return fmt.Errorf("%w: no widget at index %d", apperrors.ErrValidation, index)
	}
	w := &d.Widgets[index]
	switch key {
	case "type":
		if !models.IsValidWidgetType(value) {
			return fmt.Errorf("%w: unknown widget type %q", apperrors.ErrValidation, value)
		}
		w.Type = value
	case "field":
		if table.FieldByName(value) == nil {
			return fmt.Errorf("%w: no field named %q", apperrors.ErrValidation, value)
		}
		w.Field = value
	case "title":
		w.Title = value
	default:
		return fmt.Errorf("%w: unknown widget attribute %q", apperrors.ErrValidation, key)
	}
	return nil
}

// RemoveWidget deletes the widget at index.
func RemoveWidget(d *models.DashboardSchema, index int) error {
	if index < 0 || index >= len(d.Widgets) {
		return fmt.Errorf("%w: no widget at index %d", apperrors.ErrValidation, index)
	}
	d.Widgets = append(d.Widgets[:index], d.Widgets[index+1:]...)
	return nil
}

// GroupCount is one slice of a bar/pie widget: a field value and how many
// matched records carry it. Label resolves select option labels.
type GroupCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SummaryStats aggregates a summary widget's field over the matched records.
// The numeric aggregates are nil for non-number fields.
type SummaryStats struct {
	Count int      `json:"count"`
	Sum   *float64 `json:"sum,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Avg   *float64 `json:"avg,omitempty"`
}

// WidgetResult is the evaluated data behind one widget. Chart rendering
// itself happens client-side.
type WidgetResult struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Field   string        `json:"field"`
	Title   string        `json:"title,omitempty"`
	Groups  []GroupCount  `json:"groups,omitempty"`
	Summary *SummaryStats `json:"summary,omitempty"`
}

// DashboardPreview is the read-only evaluation of a dashboard configuration
// against the table's live records. Nothing is persisted.
type DashboardPreview struct {
	Total   int                 `json:"total"`
	Matched int                 `json:"matched"`
	Records []models.DataRecord `json:"records"`
	Widgets []WidgetResult      `json:"widgets"`
}

// DashboardService provides operations for managing and evaluating saved
// dashboards.
type DashboardService interface {
	// ListDashboards returns all dashboards.
	ListDashboards(ctx context.Context) []models.DashboardSchema

	// GetDashboard returns a single dashboard by ID.
	GetDashboard(ctx context.Context, id string) (*models.DashboardSchema, error)

	// SaveDashboard upserts a dashboard. Changing the source table clears
	// filters and widgets, whose field references are table-scoped.
	SaveDashboard(ctx context.Context, d *models.DashboardSchema) (*models.DashboardSchema, error)

	// DeleteDashboard removes a dashboard by ID.
	DeleteDashboard(ctx context.Context, id string) error

	// Preview evaluates a dashboard draft without persisting it.
	Preview(ctx context.Context, d *models.DashboardSchema) (*DashboardPreview, error)

	// EditDraft applies one editor action to a dashboard draft without
	// persisting it. The mutated draft is returned for the next round trip.
	EditDraft(ctx context.Context, d *models.DashboardSchema, action string, index int, key, value string) (*models.DashboardSchema, error)
}

// Editor actions accepted by EditDraft.
const (
	EditAddFilter    = "add_filter"
	EditUpdateFilter = "update_filter"
	EditRemoveFilter = "remove_filter"
	EditAddWidget    = "add_widget"
	EditUpdateWidget = "update_widget"
	EditRemoveWidget = "remove_widget"
)

type dashboardService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(st *store.Store, logger *zap.Logger) DashboardService {
	return &dashboardService{
		store:  st,
		logger: logger.Named("dashboard-service"),
	}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) ListDashboards(ctx context.Context) []models.DashboardSchema {
	return s.store.Dashboards()
}

func (s *dashboardService) GetDashboard(ctx context.Context, id string) (*models.DashboardSchema, error) {
	return s.store.Dashboard(id)
}

func (s *dashboardService) SaveDashboard(ctx context.Context, d *models.DashboardSchema) (*models.DashboardSchema, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: dashboard name is required", apperrors.ErrValidation)
	}
	table, err := s.store.TableSchema(d.TableID)
	if err != nil {
		return nil, fmt.Errorf("%w: dashboard references unknown table %q", apperrors.ErrValidation, d.TableID)
	}

	if d.ID != "" {
		prior, err := s.store.Dashboard(d.ID)
		if err != nil {
			return nil, err
		}
		if prior.TableID != d.TableID {
			// Field references do not survive a table change.
			d.Filters = nil
			d.Widgets = nil
		}
		d.CreatedAt = prior.CreatedAt
	}

	if err := s.validateAgainstTable(d, table); err != nil {
		return nil, err
	}

	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now()
		s.store.InsertDashboard(d)
		s.logger.Info("dashboard created",
			zap.String("dashboard_id", d.ID),
			zap.String("table_id", d.TableID))
		return d.Clone(), nil
	}
	if err := s.store.UpdateDashboard(d); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

func (s *dashboardService) validateAgainstTable(d *models.DashboardSchema, table *models.TableSchema) error {
	switch d.FilterLogic {
	case "", models.FilterLogicAnd, models.FilterLogicOr:
	default:
		return fmt.Errorf("%w: unknown filter logic %q", apperrors.ErrValidation, d.FilterLogic)
	}
	for i := range d.Filters {
		f := &d.Filters[i]
		field := table.FieldByName(f.Field)
		if field == nil {
			return fmt.Errorf("%w: filter references unknown field %q", apperrors.ErrValidation, f.Field)
		}
		if !operatorAllowed(field.Type, f.Operator) {
			return fmt.Errorf("%w: operator %q does not apply to %s fields", apperrors.ErrValidation, f.Operator, field.Type)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
	}
	for i := range d.Widgets {
		w := &d.Widgets[i]
		if !models.IsValidWidgetType(w.Type) {
			return fmt.Errorf("%w: unknown widget type %q", apperrors.ErrValidation, w.Type)
		}
		if w.Field == "" {
			return fmt.Errorf("%w: widget %d needs a field binding", apperrors.ErrValidation, i)
		}
		if table.FieldByName(w.Field) == nil {
			return fmt.Errorf("%w: widget references unknown field %q", apperrors.ErrValidation, w.Field)
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
	}
	return nil
}

func (s *dashboardService) DeleteDashboard(ctx context.Context, id string) error {
	return s.store.DeleteDashboard(id)
}

func (s *dashboardService) EditDraft(ctx context.Context, d *models.DashboardSchema, action string, index int, key, value string) (*models.DashboardSchema, error) {
	table, err := s.store.TableSchema(d.TableID)
	if err != nil {
		return nil, fmt.Errorf("%w: dashboard references unknown table %q", apperrors.ErrValidation, d.TableID)
	}

	switch action {
	case EditAddFilter:
		err = AddFilter(d, table)
	case EditUpdateFilter:
		err = UpdateFilter(d, table, index, key, value)
	case EditRemoveFilter:
		err = RemoveFilter(d, index)
	case EditAddWidget:
		AddWidget(d)
	case EditUpdateWidget:
		err = UpdateWidget(d, table, index, key, value)
	case EditRemoveWidget:
		err = RemoveWidget(d, index)
	default:
		err = fmt.Errorf("%w: unknown editor action %q", apperrors.ErrValidation, action)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) Preview(ctx context.Context, d *models.DashboardSchema) (*DashboardPreview, error) {
	table, err := s.store.TableSchema(d.TableID)
	if err != nil {
		return nil, fmt.Errorf("%w: dashboard references unknown table %q", apperrors.ErrValidation, d.TableID)
	}
	if err := s.validateAgainstTable(d, table); err != nil {
		return nil, err
	}

	records := s.store.DataRecords(d.TableID)
	matched := make([]models.DataRecord, 0, len(records))
	for _, r := range records {
		if matchesFilters(&r, d, table) {
			matched = append(matched, r)
		}
	}

	widgets := make([]WidgetResult, len(d.Widgets))
	for i, w := range d.Widgets {
		widgets[i] = evaluateWidget(w, matched, table)
	}

	return &DashboardPreview{
		Total:   len(records),
		Matched: len(matched),
		Records: matched,
		Widgets: widgets,
	}, nil
}

// matchesFilters applies the dashboard's filter chain to one record. An unset
// logic behaves as "and"; an empty chain matches everything.
func matchesFilters(r *models.DataRecord, d *models.DashboardSchema, table *models.TableSchema) bool {
	if len(d.Filters) == 0 {
		return true
	}
	anyLogic := d.FilterLogic == models.FilterLogicOr
	for _, f := range d.Filters {
		field := table.FieldByName(f.Field)
		ok := field != nil && matchesFilter(r.Values[f.Field], &f, field)
		if anyLogic && ok {
			return true
		}
		if !anyLogic && !ok {
			return false
		}
	}
	return !anyLogic
}

// matchesFilter evaluates one predicate with per-type coercion.
func matchesFilter(raw any, f *models.DashboardFilter, field *models.FieldDefinition) bool {
	switch field.Type {
	case models.FieldTypeNumber:
		have, okHave := toFloat(raw)
		want, okWant := toFloat(f.Value)
		if !okHave || !okWant {
			return f.Operator == models.OperatorNotEqual && okWant
		}
		switch f.Operator {
		case models.OperatorEquals:
			return have == want
		case models.OperatorNotEqual:
			return have != want
		case models.OperatorGreater:
			return have > want
		case models.OperatorLess:
			return have < want
		}
		return false
	case models.FieldTypeDate:
		// ISO dates compare correctly as strings.
		have := valueString(raw)
		if have == "" {
			return false
		}
		switch f.Operator {
		case models.OperatorEquals:
			return have == f.Value
		case models.OperatorGreater:
			return have > f.Value
		case models.OperatorLess:
			return have < f.Value
		}
		return false
	case models.FieldTypeBoolean:
		have := valueString(raw)
		switch f.Operator {
		case models.OperatorEquals:
			return have == f.Value
		case models.OperatorNotEqual:
			return have != f.Value
		}
		return false
	default: // text, select
		have := valueString(raw)
		switch f.Operator {
		case models.OperatorEquals:
			return have == f.Value
		case models.OperatorNotEqual:
			return have != f.Value
		case models.OperatorContains:
			return strings.Contains(strings.ToLower(have), strings.ToLower(f.Value))
		}
		return false
	}
}

// evaluateWidget turns matched records into widget data: groupings for
// bar/pie, aggregates for summary.
func evaluateWidget(w models.DashboardWidget, records []models.DataRecord, table *models.TableSchema) WidgetResult {
	out := WidgetResult{ID: w.ID, Type: w.Type, Field: w.Field, Title: w.Title}
	field := table.FieldByName(w.Field)
	if field == nil {
		return out
	}

	switch w.Type {
	case models.WidgetBar, models.WidgetPie:
		counts := make(map[string]int)
		var order []string
		for _, r := range records {
			v := valueString(r.Values[w.Field])
			if _, seen := counts[v]; !seen {
				order = append(order, v)
			}
			counts[v]++
		}
		for _, v := range order {
			label := v
			switch {
			case field.Type == models.FieldTypeSelect:
				if opt := field.OptionByValue(v); opt != nil {
					label = opt.Label
				}
			case field.Type == models.FieldTypeBoolean && field.BooleanLabels != nil:
				if v == "true" {
					label = field.BooleanLabels.True
				} else {
					label = field.BooleanLabels.False
				}
			}
			out.Groups = append(out.Groups, GroupCount{Value: v, Label: label, Count: counts[v]})
		}
	case models.WidgetSummary:
		stats := &SummaryStats{Count: len(records)}
		if field.Type == models.FieldTypeNumber {
			var sum float64
			var minV, maxV float64
			n := 0
			for _, r := range records {
				v, ok := toFloat(r.Values[w.Field])
				if !ok {
					continue
				}
				if n == 0 || v < minV {
					minV = v
				}
				if n == 0 || v > maxV {
					maxV = v
				}
				sum += v
				n++
			}
			if n > 0 {
				avg := sum / float64(n)
				stats.Sum = &sum
				stats.Min = &minV
				stats.Max = &maxV
				stats.Avg = &avg
			}
		}
		out.Summary = stats
	}
	return out
}

// toFloat coerces a record or filter value to a number.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// valueString renders a record value the way filters and groupings compare it.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
