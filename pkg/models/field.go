package models

// FieldType constants for the closed set of field types a table can carry.
const (
	FieldTypeText    = "text"
	FieldTypeNumber  = "number"
	FieldTypeDate    = "date"
	FieldTypeBoolean = "boolean"
	FieldTypeSelect  = "select"
)

// ValidFieldTypes contains all valid field type values.
var ValidFieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeBoolean,
	FieldTypeSelect,
}

// IsValidFieldType checks if the given field type is valid.
func IsValidFieldType(fieldType string) bool {
	for _, t := range ValidFieldTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

// FieldOption is one selectable value of a select-type field.
// The color feeds thematic map styling (sub-layer rules inherit it).
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// BooleanLabels holds the display labels for a boolean field's two states.
type BooleanLabels struct {
	True  string `json:"true"`
	False string `json:"false"`
}

// FieldDefinition describes one column of a user-defined table.
// Name is the internal identifier (alphanumeric + underscore, unique within
// the schema); Label is what editors and map tooltips display.
type FieldDefinition struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Label         string         `json:"label"`
	Type          string         `json:"type"`
	Required      bool           `json:"required"`
	Sortable      bool           `json:"sortable"`
	Filterable    bool           `json:"filterable"`
	Options       []FieldOption  `json:"options,omitempty"`
	BooleanLabels *BooleanLabels `json:"boolean_labels,omitempty"`
}

// OptionByValue returns the option with the given value, or nil.
func (f *FieldDefinition) OptionByValue(value string) *FieldOption {
	for i := range f.Options {
		if f.Options[i].Value == value {
			return &f.Options[i]
		}
	}
	return nil
}
