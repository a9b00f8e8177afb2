package models

import "time"

// GeometryType constants for the spatial shape of a table's features.
// A table with GeometryNone is a plain data table and never appears on the map.
const (
	GeometryNone    = "none"
	GeometryPoint   = "point"
	GeometryLine    = "line"
	GeometryPolygon = "polygon"
	GeometryMixed   = "mixed"
)

// ValidGeometryTypes contains all valid geometry type values.
var ValidGeometryTypes = []string{
	GeometryNone,
	GeometryPoint,
	GeometryLine,
	GeometryPolygon,
	GeometryMixed,
}

// IsValidGeometryType checks if the given geometry type is valid.
func IsValidGeometryType(geometryType string) bool {
	for _, t := range ValidGeometryTypes {
		if t == geometryType {
			return true
		}
	}
	return false
}

// MapDisplayMode constants for how a feature's attributes are shown on the map.
const (
	MapDisplayTooltip = "tooltip"
	MapDisplayDialog  = "dialog"
)

// DialogSize presets for the attribute dialog. DialogSizeCustom uses Width/Height.
const (
	DialogSizeSmall  = "small"
	DialogSizeMedium = "medium"
	DialogSizeLarge  = "large"
	DialogSizeCustom = "custom"
)

// DialogConfig sizes the attribute dialog when MapDisplayMode is "dialog".
type DialogConfig struct {
	Size   string `json:"size"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SubLayerRule maps one categorical value of the styling field to a map color.
type SubLayerRule struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// SubLayerConfig is the thematic styling rule set for a table: features are
// colored by the value a select-type field takes, one rule per option value.
type SubLayerConfig struct {
	Enabled bool           `json:"enabled"`
	Field   string         `json:"field"`
	Rules   []SubLayerRule `json:"rules"`
}

// PlanningConfig binds a table's fields to the calendar/planning view.
type PlanningConfig struct {
	Enabled     bool   `json:"enabled"`
	TitleField  string `json:"title_field"`
	StartField  string `json:"start_field"`
	EndField    string `json:"end_field,omitempty"`
	DefaultView string `json:"default_view"`
	TimeZone    string `json:"time_zone"`
}

// TableSchema is a user-defined table/layer definition: its fields, geometry,
// map display settings and bindings to planning and dashboards.
// Fields are kept in display order.
type TableSchema struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	GeometryType string            `json:"geometry_type"`
	Color        string            `json:"color"`
	Fields       []FieldDefinition `json:"fields"`

	VisibleInData        bool `json:"visible_in_data"`
	IsDefaultInData      bool `json:"is_default_in_data"`
	AllowNonSpatialEntry bool `json:"allow_non_spatial_entry"`

	VisibleInMap          bool          `json:"visible_in_map"`
	IsDefaultVisibleInMap bool          `json:"is_default_visible_in_map"`
	MapDisplayMode        string        `json:"map_display_mode,omitempty"`
	DialogConfig          *DialogConfig `json:"dialog_config,omitempty"`
	HoverFields           []string      `json:"hover_fields,omitempty"`
	MarkerIcon            string        `json:"marker_icon,omitempty"` // base64 data URL

	SubLayer *SubLayerConfig `json:"sub_layer,omitempty"`
	Planning *PlanningConfig `json:"planning,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FieldByName returns the field with the given internal name, or nil.
func (s *TableSchema) FieldByName(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldByID returns the field with the given id, or nil.
func (s *TableSchema) FieldByID(id string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the internal names of all fields in display order.
func (s *TableSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Clone returns a deep copy, so store readers never share slices with writers.
func (s *TableSchema) Clone() *TableSchema {
	out := *s
	out.Fields = make([]FieldDefinition, len(s.Fields))
	copy(out.Fields, s.Fields)
	for i := range out.Fields {
		if opts := s.Fields[i].Options; opts != nil {
			out.Fields[i].Options = make([]FieldOption, len(opts))
			copy(out.Fields[i].Options, opts)
		}
		if bl := s.Fields[i].BooleanLabels; bl != nil {
			c := *bl
			out.Fields[i].BooleanLabels = &c
		}
	}
	if s.HoverFields != nil {
		out.HoverFields = append([]string(nil), s.HoverFields...)
	}
	if s.DialogConfig != nil {
		c := *s.DialogConfig
		out.DialogConfig = &c
	}
	if s.SubLayer != nil {
		c := *s.SubLayer
		c.Rules = append([]SubLayerRule(nil), s.SubLayer.Rules...)
		out.SubLayer = &c
	}
	if s.Planning != nil {
		c := *s.Planning
		out.Planning = &c
	}
	return &out
}
