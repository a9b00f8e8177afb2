package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

func newSchemaService(t *testing.T) (SchemaService, *store.Store) {
	t.Helper()
	st := store.NewSeeded()
	return NewSchemaService(st, zap.NewNop()), st
}

func TestAutoFieldName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Height", "height"},
		{"Height (m)", "height_m"},
		{"Planted at", "planted_at"},
		{"  spaced  out  ", "spaced_out"},
		{"Überschrift", "berschrift"},
		{"123go", "123go"},
		{"___", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoFieldName(tt.label))
		})
	}
}

func TestValidateField(t *testing.T) {
	siblings := []models.FieldDefinition{
		{ID: "fld_a", Name: "species", Label: "Species", Type: models.FieldTypeText},
	}

	t.Run("valid", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Name: "height", Label: "Height", Type: models.FieldTypeNumber}
		require.NoError(t, ValidateField(&draft, siblings))
	})

	t.Run("missing name and label", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Type: models.FieldTypeText}
		err := ValidateField(&draft, siblings)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("bad characters in name", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Name: "tree height", Label: "Height", Type: models.FieldTypeText}
		require.ErrorIs(t, ValidateField(&draft, siblings), apperrors.ErrValidation)
	})

	t.Run("unknown type", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Name: "height", Label: "Height", Type: "decimal"}
		require.ErrorIs(t, ValidateField(&draft, siblings), apperrors.ErrValidation)
	})

	t.Run("select without options", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Name: "status", Label: "Status", Type: models.FieldTypeSelect}
		require.ErrorIs(t, ValidateField(&draft, siblings), apperrors.ErrValidation)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_b", Name: "species", Label: "Species 2", Type: models.FieldTypeText}
		require.ErrorIs(t, ValidateField(&draft, siblings), apperrors.ErrValidation)
	})

	t.Run("keeping own name on rename is legal", func(t *testing.T) {
		draft := models.FieldDefinition{ID: "fld_a", Name: "species", Label: "Renamed label", Type: models.FieldTypeText}
		require.NoError(t, ValidateField(&draft, siblings))
	})
}

func TestSaveSchemaNew(t *testing.T) {
	svc, _ := newSchemaService(t)
	ctx := context.Background()

	t.Run("spatial schema starts visible on the map", func(t *testing.T) {
		saved, err := svc.SaveSchema(ctx, &models.TableSchema{
			Name:         "Benches",
			GeometryType: models.GeometryPoint,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.True(t, saved.VisibleInMap)
		assert.False(t, saved.IsDefaultInData)
		assert.False(t, saved.CreatedAt.IsZero())
	})

	t.Run("plain table never starts on the map", func(t *testing.T) {
		saved, err := svc.SaveSchema(ctx, &models.TableSchema{Name: "Notes"})
		require.NoError(t, err)
		assert.Equal(t, models.GeometryNone, saved.GeometryType)
		assert.False(t, saved.VisibleInMap)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.SaveSchema(ctx, &models.TableSchema{Name: "   "})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown geometry rejected", func(t *testing.T) {
		_, err := svc.SaveSchema(ctx, &models.TableSchema{Name: "Bad", GeometryType: "circle"})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("inline fields get generated ids", func(t *testing.T) {
		saved, err := svc.SaveSchema(ctx, &models.TableSchema{
			Name: "Paths",
			Fields: []models.FieldDefinition{
				{Name: "surface", Label: "Surface", Type: models.FieldTypeText},
				{Name: "length", Label: "Length", Type: models.FieldTypeNumber},
			},
		})
		require.NoError(t, err)
		require.Len(t, saved.Fields, 2)
		assert.NotEmpty(t, saved.Fields[0].ID)
		assert.NotEmpty(t, saved.Fields[1].ID)
		assert.NotEqual(t, saved.Fields[0].ID, saved.Fields[1].ID)
	})

	t.Run("duplicate inline field names rejected", func(t *testing.T) {
		_, err := svc.SaveSchema(ctx, &models.TableSchema{
			Name: "Broken",
			Fields: []models.FieldDefinition{
				{Name: "height", Label: "Height", Type: models.FieldTypeNumber},
				{Name: "height", Label: "Height again", Type: models.FieldTypeNumber},
			},
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "height")
	})
}

func TestSaveSchemaGeometryTransitions(t *testing.T) {
	svc, st := newSchemaService(t)
	ctx := context.Background()

	t.Run("gaining geometry forces map visibility", func(t *testing.T) {
		schema, err := st.TableSchema("tbl_inspections")
		require.NoError(t, err)
		schema.GeometryType = models.GeometryPoint
		schema.VisibleInMap = false

		saved, err := svc.SaveSchema(ctx, schema)
		require.NoError(t, err)
		assert.True(t, saved.VisibleInMap)
	})

	t.Run("losing geometry clears map flags", func(t *testing.T) {
		schema, err := st.TableSchema("tbl_trees")
		require.NoError(t, err)
		schema.GeometryType = models.GeometryNone

		saved, err := svc.SaveSchema(ctx, schema)
		require.NoError(t, err)
		assert.False(t, saved.VisibleInMap)
		assert.False(t, saved.IsDefaultVisibleInMap)
	})

	t.Run("update preserves default-in-data and created-at", func(t *testing.T) {
		schema, err := st.TableSchema("tbl_trees")
		require.NoError(t, err)
		created := schema.CreatedAt
		schema.IsDefaultInData = false
		schema.Description = "edited"

		saved, err := svc.SaveSchema(ctx, schema)
		require.NoError(t, err)
		assert.True(t, saved.IsDefaultInData, "flag only moves through SetDefaultInData")
		assert.Equal(t, created, saved.CreatedAt)
	})
}

func TestSetDefaultInData(t *testing.T) {
	svc, st := newSchemaService(t)
	ctx := context.Background()

	t.Run("conflicts while another schema holds the default", func(t *testing.T) {
		err := svc.SetDefaultInData(ctx, "tbl_inspections", false)
		require.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "Trees")
	})

	t.Run("force moves the flag", func(t *testing.T) {
		require.NoError(t, svc.SetDefaultInData(ctx, "tbl_inspections", true))
		holder := st.DefaultDataSchema()
		require.NotNil(t, holder)
		assert.Equal(t, "tbl_inspections", holder.ID)
	})

	t.Run("current holder needs no force", func(t *testing.T) {
		require.NoError(t, svc.SetDefaultInData(ctx, "tbl_inspections", false))
	})

	t.Run("unknown schema", func(t *testing.T) {
		err := svc.SetDefaultInData(ctx, "tbl_missing", true)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSaveField(t *testing.T) {
	svc, _ := newSchemaService(t)
	ctx := context.Background()

	t.Run("derives name from label", func(t *testing.T) {
		field := models.FieldDefinition{Label: "Trunk diameter (cm)"}
		schema, err := svc.SaveField(ctx, "tbl_trees", &field)
		require.NoError(t, err)
		assert.Equal(t, "trunk_diameter_cm", field.Name)
		assert.Equal(t, models.FieldTypeText, field.Type)
		assert.NotNil(t, schema.FieldByName("trunk_diameter_cm"))
	})

	t.Run("boolean gets default labels", func(t *testing.T) {
		field := models.FieldDefinition{Label: "Protected", Type: models.FieldTypeBoolean}
		_, err := svc.SaveField(ctx, "tbl_trees", &field)
		require.NoError(t, err)
		require.NotNil(t, field.BooleanLabels)
		assert.Equal(t, "Yes", field.BooleanLabels.True)
		assert.Equal(t, "No", field.BooleanLabels.False)
	})

	t.Run("upserts by id", func(t *testing.T) {
		field := models.FieldDefinition{ID: "fld_height", Name: "height", Label: "Height (meters)", Type: models.FieldTypeNumber}
		schema, err := svc.SaveField(ctx, "tbl_trees", &field)
		require.NoError(t, err)
		got := schema.FieldByID("fld_height")
		require.NotNil(t, got)
		assert.Equal(t, "Height (meters)", got.Label)
	})

	t.Run("renaming onto a sibling fails", func(t *testing.T) {
		field := models.FieldDefinition{ID: "fld_height", Name: "species", Label: "Height", Type: models.FieldTypeNumber}
		_, err := svc.SaveField(ctx, "tbl_trees", &field)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown schema", func(t *testing.T) {
		field := models.FieldDefinition{Label: "Anything"}
		_, err := svc.SaveField(ctx, "tbl_missing", &field)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeleteField(t *testing.T) {
	svc, _ := newSchemaService(t)
	ctx := context.Background()

	schema, err := svc.DeleteField(ctx, "tbl_trees", "fld_planted")
	require.NoError(t, err)
	assert.Nil(t, schema.FieldByID("fld_planted"))
	assert.Len(t, schema.Fields, 3)

	_, err = svc.DeleteField(ctx, "tbl_trees", "fld_planted")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGenerateSubLayerRules(t *testing.T) {
	svc, _ := newSchemaService(t)
	ctx := context.Background()

	t.Run("rules inherit option colors", func(t *testing.T) {
		schema, err := svc.GenerateSubLayerRules(ctx, "tbl_trees", "species")
		require.NoError(t, err)
		require.NotNil(t, schema.SubLayer)
		assert.True(t, schema.SubLayer.Enabled)
		assert.Equal(t, "species", schema.SubLayer.Field)
		require.Len(t, schema.SubLayer.Rules, 3)
		assert.Equal(t, models.SubLayerRule{Value: "oak", Label: "Oak", Color: "#6d4c41"}, schema.SubLayer.Rules[0])
	})

	t.Run("regeneration replaces the rule list", func(t *testing.T) {
		field := models.FieldDefinition{ID: "fld_species", Name: "species", Label: "Species", Type: models.FieldTypeSelect,
			Options: []models.FieldOption{{Value: "oak", Label: "Oak", Color: "#6d4c41"}}}
		_, err := svc.SaveField(ctx, "tbl_trees", &field)
		require.NoError(t, err)

		schema, err := svc.GenerateSubLayerRules(ctx, "tbl_trees", "species")
		require.NoError(t, err)
		assert.Len(t, schema.SubLayer.Rules, 1)
	})

	t.Run("non-select field rejected", func(t *testing.T) {
		_, err := svc.GenerateSubLayerRules(ctx, "tbl_trees", "height")
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestToggleHoverField(t *testing.T) {
	svc, _ := newSchemaService(t)
	ctx := context.Background()

	schema, err := svc.ToggleHoverField(ctx, "tbl_trees", "healthy")
	require.NoError(t, err)
	assert.Equal(t, []string{"species", "height", "healthy"}, schema.HoverFields)

	schema, err = svc.ToggleHoverField(ctx, "tbl_trees", "species")
	require.NoError(t, err)
	assert.Equal(t, []string{"height", "healthy"}, schema.HoverFields)

	_, err = svc.ToggleHoverField(ctx, "tbl_trees", "nope")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSetMarkerIcon(t *testing.T) {
	svc, st := newSchemaService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetMarkerIcon(ctx, "tbl_trees", "data:image/png;base64,iVBORw0KGgo="))
	schema, err := st.TableSchema("tbl_trees")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", schema.MarkerIcon)

	err = svc.SetMarkerIcon(ctx, "tbl_trees", "https://example.com/icon.png")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteSchemaCascade(t *testing.T) {
	svc, st := newSchemaService(t)
	ctx := context.Background()

	res, err := svc.DeleteSchema(ctx, "tbl_trees")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dashboards)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, 2, res.Shortcuts)

	_, err = st.TableSchema("tbl_trees")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
