package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// fieldNamePattern is the only accepted shape for internal field names.
var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// SchemaService provides operations for managing table schemas and their
// fields.
type SchemaService interface {
	// ListSchemas returns all table schemas.
	ListSchemas(ctx context.Context) []models.TableSchema

	// GetSchema returns a single schema by ID.
	GetSchema(ctx context.Context, id string) (*models.TableSchema, error)

	// SaveSchema upserts a schema: insert when the ID is empty, replace
	// otherwise. Geometry transitions adjust map visibility (see below).
	SaveSchema(ctx context.Context, schema *models.TableSchema) (*models.TableSchema, error)

	// DeleteSchema removes a schema and everything referencing it.
	DeleteSchema(ctx context.Context, id string) (store.CascadeResult, error)

	// SetDefaultInData makes one schema the default data view. When another
	// schema currently holds the default and force is false, the call fails
	// with ErrConflict so the client can run its confirmation prompt.
	SetDefaultInData(ctx context.Context, id string, force bool) error

	// SaveField validates and upserts a field into a schema's field list.
	SaveField(ctx context.Context, schemaID string, field *models.FieldDefinition) (*models.TableSchema, error)

	// DeleteField removes a field by ID.
	DeleteField(ctx context.Context, schemaID, fieldID string) (*models.TableSchema, error)

	// GenerateSubLayerRules rebuilds the thematic styling rules from the
	// options of the named select field, replacing any prior rule list.
	GenerateSubLayerRules(ctx context.Context, schemaID, fieldName string) (*models.TableSchema, error)

	// ToggleHoverField adds or removes a field from the map hover tooltip.
	ToggleHoverField(ctx context.Context, schemaID, fieldName string) (*models.TableSchema, error)

	// SetMarkerIcon stores an uploaded marker image as a base64 data URL.
	SetMarkerIcon(ctx context.Context, schemaID, dataURL string) error
}

type schemaService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSchemaService creates a new SchemaService.
func NewSchemaService(st *store.Store, logger *zap.Logger) SchemaService {
	return &schemaService{
		store:  st,
		logger: logger.Named("schema-service"),
	}
}

var _ SchemaService = (*schemaService)(nil)

// NewFieldDraft seeds a field the way the field editor does: text type,
// optional, sortable and filterable, with a generated id.
func NewFieldDraft() models.FieldDefinition {
	return models.FieldDefinition{
		ID:         uuid.NewString(),
		Type:       models.FieldTypeText,
		Required:   false,
		Sortable:   true,
		Filterable: true,
	}
}

// AutoFieldName derives an internal name from a display label: lowercased,
// runs of anything outside [a-z0-9] collapsed to single underscores.
// "Height (m)" becomes "height_m".
func AutoFieldName(label string) string {
	lower := strings.ToLower(label)
	var b strings.Builder
	lastUnderscore := true // suppress leading underscore
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ValidateField checks a field draft against its siblings. The duplicate
// check skips the sibling with the draft's own id, so renaming a field to its
// current name stays legal while renaming onto another field does not.
func ValidateField(draft *models.FieldDefinition, siblings []models.FieldDefinition) error {
	if draft.Name == "" || draft.Label == "" {
		return fmt.Errorf("%w: name and label are required", apperrors.ErrValidation)
	}
	if !fieldNamePattern.MatchString(draft.Name) {
		return fmt.Errorf("%w: field name %q may only contain letters, digits and underscores", apperrors.ErrValidation, draft.Name)
	}
	if !models.IsValidFieldType(draft.Type) {
		return fmt.Errorf("%w: unknown field type %q", apperrors.ErrValidation, draft.Type)
	}
	if draft.Type == models.FieldTypeSelect && len(draft.Options) == 0 {
		return fmt.Errorf("%w: select fields need at least one option", apperrors.ErrValidation)
	}
	for _, sibling := range siblings {
		if sibling.ID != draft.ID && sibling.Name == draft.Name {
			return fmt.Errorf("%w: a field named %q already exists", apperrors.ErrValidation, draft.Name)
		}
	}
	return nil
}

func (s *schemaService) ListSchemas(ctx context.Context) []models.TableSchema {
	return s.store.TableSchemas()
}

func (s *schemaService) GetSchema(ctx context.Context, id string) (*models.TableSchema, error) {
	return s.store.TableSchema(id)
}

func (s *schemaService) SaveSchema(ctx context.Context, schema *models.TableSchema) (*models.TableSchema, error) {
	if strings.TrimSpace(schema.Name) == "" {
		return nil, fmt.Errorf("%w: schema name is required", apperrors.ErrValidation)
	}
	if schema.GeometryType == "" {
		schema.GeometryType = models.GeometryNone
	}
	if !models.IsValidGeometryType(schema.GeometryType) {
		return nil, fmt.Errorf("%w: unknown geometry type %q", apperrors.ErrValidation, schema.GeometryType)
	}
	if schema.MapDisplayMode != "" &&
		schema.MapDisplayMode != models.MapDisplayTooltip &&
		schema.MapDisplayMode != models.MapDisplayDialog {
		return nil, fmt.Errorf("%w: unknown map display mode %q", apperrors.ErrValidation, schema.MapDisplayMode)
	}
	// Inline fields get their ids before validation so the duplicate-name
	// check cannot mistake two id-less drafts for the same field.
	for i := range schema.Fields {
		if schema.Fields[i].ID == "" {
			schema.Fields[i].ID = uuid.NewString()
		}
	}
	for i := range schema.Fields {
		if err := ValidateField(&schema.Fields[i], schema.Fields); err != nil {
			return nil, err
		}
	}

	if schema.ID == "" {
		schema.ID = uuid.NewString()
		schema.CreatedAt = now()
		// A new spatial layer starts visible on the map, a plain table never is.
		schema.VisibleInMap = schema.GeometryType != models.GeometryNone
		// The default-data flag is only granted through SetDefaultInData.
		schema.IsDefaultInData = false
		s.store.InsertTableSchema(schema)
		s.logger.Info("schema created",
			zap.String("schema_id", schema.ID),
			zap.String("name", schema.Name))
		return schema.Clone(), nil
	}

	prior, err := s.store.TableSchema(schema.ID)
	if err != nil {
		return nil, err
	}
	// Geometry transitions force map visibility rather than leaving a
	// spatial layer invisible or a plain table visible.
	if prior.GeometryType == models.GeometryNone && schema.GeometryType != models.GeometryNone {
		schema.VisibleInMap = true
	}
	if schema.GeometryType == models.GeometryNone {
		schema.VisibleInMap = false
		schema.IsDefaultVisibleInMap = false
	}
	schema.IsDefaultInData = prior.IsDefaultInData
	schema.CreatedAt = prior.CreatedAt
	if err := s.store.UpdateTableSchema(schema); err != nil {
		return nil, err
	}
	return schema.Clone(), nil
}

func (s *schemaService) DeleteSchema(ctx context.Context, id string) (store.CascadeResult, error) {
	res, err := s.store.DeleteTableSchema(id)
	if err != nil {
		return res, err
	}
	s.logger.Info("schema deleted",
		zap.String("schema_id", id),
		zap.Int("cascaded_dashboards", res.Dashboards),
		zap.Int("cascaded_calendars", res.Calendars),
		zap.Int("cascaded_shortcuts", res.Shortcuts),
		zap.Int("cascaded_records", res.Records))
	return res, nil
}

func (s *schemaService) SetDefaultInData(ctx context.Context, id string, force bool) error {
	if current := s.store.DefaultDataSchema(); current != nil && current.ID != id && !force {
		return fmt.Errorf("%w: %q is currently the default data view", apperrors.ErrConflict, current.Name)
	}
	return s.store.SetDefaultDataSchema(id)
}

func (s *schemaService) SaveField(ctx context.Context, schemaID string, field *models.FieldDefinition) (*models.TableSchema, error) {
	schema, err := s.store.TableSchema(schemaID)
	if err != nil {
		return nil, err
	}

	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	if field.Name == "" {
		field.Name = AutoFieldName(field.Label)
	}
	if field.Type == "" {
		field.Type = models.FieldTypeText
	}
	if field.Type == models.FieldTypeBoolean && field.BooleanLabels == nil {
		field.BooleanLabels = &models.BooleanLabels{True: "Yes", False: "No"}
	}
	if err := ValidateField(field, schema.Fields); err != nil {
		return nil, err
	}

	replaced := false
	for i := range schema.Fields {
		if schema.Fields[i].ID == field.ID {
			schema.Fields[i] = *field
			replaced = true
			break
		}
	}
	if !replaced {
		schema.Fields = append(schema.Fields, *field)
	}

	if err := s.store.UpdateTableSchema(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *schemaService) DeleteField(ctx context.Context, schemaID, fieldID string) (*models.TableSchema, error) {
	schema, err := s.store.TableSchema(schemaID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range schema.Fields {
		if schema.Fields[i].ID == fieldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}
	schema.Fields = append(schema.Fields[:idx], schema.Fields[idx+1:]...)
	if err := s.store.UpdateTableSchema(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *schemaService) GenerateSubLayerRules(ctx context.Context, schemaID, fieldName string) (*models.TableSchema, error) {
	schema, err := s.store.TableSchema(schemaID)
	if err != nil {
		return nil, err
	}
	field := schema.FieldByName(fieldName)
	if field == nil {
		return nil, fmt.Errorf("%w: no field named %q", apperrors.ErrValidation, fieldName)
	}
	if field.Type != models.FieldTypeSelect {
		return nil, fmt.Errorf("%w: thematic styling needs a select field, %q is %s", apperrors.ErrValidation, fieldName, field.Type)
	}

	rules := make([]models.SubLayerRule, len(field.Options))
	for i, opt := range field.Options {
		rules[i] = models.SubLayerRule{
			Value: opt.Value,
			Label: opt.Label,
			Color: opt.Color,
		}
	}
	schema.SubLayer = &models.SubLayerConfig{
		Enabled: true,
		Field:   fieldName,
		Rules:   rules,
	}
	if err := s.store.UpdateTableSchema(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *schemaService) ToggleHoverField(ctx context.Context, schemaID, fieldName string) (*models.TableSchema, error) {
	schema, err := s.store.TableSchema(schemaID)
	if err != nil {
		return nil, err
	}
	if schema.FieldByName(fieldName) == nil {
		return nil, fmt.Errorf("%w: no field named %q", apperrors.ErrValidation, fieldName)
	}

	removed := false
	for i, name := range schema.HoverFields {
		if name == fieldName {
			schema.HoverFields = append(schema.HoverFields[:i], schema.HoverFields[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		schema.HoverFields = append(schema.HoverFields, fieldName)
	}
	if err := s.store.UpdateTableSchema(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *schemaService) SetMarkerIcon(ctx context.Context, schemaID, dataURL string) error {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return fmt.Errorf("%w: marker icon must be an image data URL", apperrors.ErrValidation)
	}
	schema, err := s.store.TableSchema(schemaID)
	if err != nil {
		return err
	}
	schema.MarkerIcon = dataURL
	return s.store.UpdateTableSchema(schema)
}
