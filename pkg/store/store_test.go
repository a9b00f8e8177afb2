package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
)

func TestSetDefaultDataSchema_SingleHolder(t *testing.T) {
	s := NewSeeded()

	// Seed default is the trees table.
	def := s.DefaultDataSchema()
	require.NotNil(t, def)
	assert.Equal(t, "tbl_trees", def.ID)

	require.NoError(t, s.SetDefaultDataSchema("tbl_inspections"))

	holders := 0
	for _, schema := range s.TableSchemas() {
		if schema.IsDefaultInData {
			holders++
			assert.Equal(t, "tbl_inspections", schema.ID)
		}
	}
	assert.Equal(t, 1, holders)
}

func TestSetDefaultDataSchema_UnknownID(t *testing.T) {
	s := NewSeeded()
	assert.ErrorIs(t, s.SetDefaultDataSchema("tbl_missing"), apperrors.ErrNotFound)
}

func TestDeleteTableSchema_Cascades(t *testing.T) {
	s := NewSeeded()

	res, err := s.DeleteTableSchema("tbl_trees")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dashboards)
	assert.Equal(t, 0, res.Calendars)
	assert.Equal(t, 3, res.Records)
	// The quick-add shortcut points at the table directly; the dashboard
	// shortcut goes because its dashboard went. Map presets reference layer
	// lists, not a single table, and stay.
	assert.Equal(t, 2, res.Shortcuts)

	_, err = s.TableSchema("tbl_trees")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Dashboard("dsh_trees")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, s.DataRecords("tbl_trees"))

	remaining := s.Shortcuts()
	require.Len(t, remaining, 1)
	assert.Equal(t, "sct_trees", remaining[0].ID)
}

func TestDeleteTableSchema_NotFound(t *testing.T) {
	s := NewSeeded()
	_, err := s.DeleteTableSchema("tbl_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteMapLayer_LastLayerRejected(t *testing.T) {
	s := NewSeeded()

	require.NoError(t, s.DeleteMapLayer("lyr_topo"))
	err := s.DeleteMapLayer("lyr_osm")
	assert.ErrorIs(t, err, apperrors.ErrPolicyViolation)
	assert.Len(t, s.MapLayers(), 1)
}

func TestTableSchema_ReadsAreCopies(t *testing.T) {
	s := NewSeeded()

	schema, err := s.TableSchema("tbl_trees")
	require.NoError(t, err)
	schema.Fields[0].Name = "mutated"
	schema.Name = "Mutated"

	again, err := s.TableSchema("tbl_trees")
	require.NoError(t, err)
	assert.Equal(t, "Trees", again.Name)
	assert.Equal(t, "species", again.Fields[0].Name)
}

func TestShortcut_ReadsAreCopies(t *testing.T) {
	s := NewSeeded()

	sc, err := s.ShortcutByID("sct_trees")
	require.NoError(t, err)
	require.NotNil(t, sc.Config.MapPreset)
	sc.Config.MapPreset.Layers[0] = "mutated"
	sc.Config.MapPreset.Zoom = 99

	again, err := s.ShortcutByID("sct_trees")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Config.MapPreset.Layers[0])
	assert.NotEqual(t, 99, again.Config.MapPreset.Zoom)

	all := s.Shortcuts()
	for i := range all {
		if all[i].Config.QuickAdd != nil {
			all[i].Config.QuickAdd.TargetTableID = "mutated"
		}
	}
	quickAdd, err := s.ShortcutByID("sct_add_tree")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", quickAdd.Config.QuickAdd.TargetTableID)
}

func TestUpdateTableSchema_ReplacesByID(t *testing.T) {
	s := NewSeeded()

	schema, err := s.TableSchema("tbl_trees")
	require.NoError(t, err)
	schema.Description = "updated"
	require.NoError(t, s.UpdateTableSchema(schema))

	got, err := s.TableSchema("tbl_trees")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	missing := &models.TableSchema{ID: "tbl_missing"}
	assert.ErrorIs(t, s.UpdateTableSchema(missing), apperrors.ErrNotFound)
}

func TestUserByIdentifier(t *testing.T) {
	s := NewSeeded()

	byName, err := s.UserByIdentifier("admin")
	require.NoError(t, err)
	assert.Equal(t, "usr_admin", byName.ID)

	byEmail, err := s.UserByIdentifier("ADMIN@geonexus.local")
	require.NoError(t, err)
	assert.Equal(t, "usr_admin", byEmail.ID)

	_, err = s.UserByIdentifier("nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
