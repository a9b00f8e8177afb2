package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

func TestDataTableName(t *testing.T) {
	tests := []struct {
		schemaName string
		want       string
	}{
		{"Trees", "trees"},
		{"Tree survey", "tree_surveys"},
		{"Inspections", "inspections"},
		{"Status", "statuses"},
	}
	for _, tt := range tests {
		t.Run(tt.schemaName, func(t *testing.T) {
			assert.Equal(t, tt.want, DataTableName(tt.schemaName))
		})
	}
}

func TestExportJSON(t *testing.T) {
	svc := NewExportService(store.NewSeeded(), zap.NewNop())
	ctx := context.Background()

	res, err := svc.Export(ctx, CollectionUsers, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "geonexus_users.json", res.Filename)
	assert.Equal(t, "application/json", res.ContentType)

	var users []models.User
	require.NoError(t, json.Unmarshal(res.Data, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.NotContains(t, string(res.Data), "password", "passwords must never serialize")
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("one user yields header plus one row", func(t *testing.T) {
		st := store.New()
		st.InsertUser(&models.User{
			ID: "usr_1", Username: "solo", Email: "solo@geonexus.local",
			RoleID: "role_admin", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		})
		svc := NewExportService(st, zap.NewNop())

		res, err := svc.Export(ctx, CollectionUsers, FormatCSV)
		require.NoError(t, err)

		rows, err := csv.NewReader(bytes.NewReader(res.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"id", "username", "email", "role_id", "created_at"}, rows[0])
		assert.Equal(t, []string{"usr_1", "solo", "solo@geonexus.local", "role_admin", "2025-06-01T12:00:00Z"}, rows[1])
	})

	t.Run("object cells flatten to json", func(t *testing.T) {
		svc := NewExportService(store.NewSeeded(), zap.NewNop())
		res, err := svc.Export(ctx, CollectionSchemas, FormatCSV)
		require.NoError(t, err)

		rows, err := csv.NewReader(bytes.NewReader(res.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		var fields []models.FieldDefinition
		require.NoError(t, json.Unmarshal([]byte(rows[1][5]), &fields))
		assert.Len(t, fields, 4)
	})
}

func TestExportSQL(t *testing.T) {
	svc := NewExportService(store.NewSeeded(), zap.NewNop())
	ctx := context.Background()

	res, err := svc.Export(ctx, "all", FormatSQL)
	require.NoError(t, err)
	body := string(res.Data)

	assert.Contains(t, body, "INSERT INTO deftable (id, name, description, geometry_type, color, definition) VALUES ('tbl_trees', 'Trees',")
	assert.Contains(t, body, "INSERT INTO defdata (id, table_name, data, created_at) VALUES ('rec_t1', 'trees',")
	assert.Contains(t, body, "INSERT INTO sys_users (id, username, email, role_id, created_at) VALUES ('usr_admin', 'admin', 'admin@geonexus.local', 'role_admin',")
	assert.NotContains(t, body, "'field'", "passwords stay out of the dump")
	assert.Equal(t, 4, strings.Count(body, "INSERT INTO defdata"))
}

func TestExportSQLQuoting(t *testing.T) {
	st := store.New()
	st.InsertUser(&models.User{ID: "usr_1", Username: "o'brien", Email: "o@geonexus.local", RoleID: "r"})
	svc := NewExportService(st, zap.NewNop())

	res, err := svc.Export(context.Background(), CollectionUsers, FormatSQL)
	require.NoError(t, err)
	assert.Contains(t, string(res.Data), "'o''brien'")
}

func TestExportXLSX(t *testing.T) {
	svc := NewExportService(store.NewSeeded(), zap.NewNop())

	res, err := svc.Export(context.Background(), CollectionUsers, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "geonexus_users.xlsx", res.Filename)

	file, err := xlsx.OpenBinary(res.Data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "users", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "id", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "admin", sheet.Rows[1].Cells[1].Value)
}

func TestExportRejectsUnknown(t *testing.T) {
	svc := NewExportService(store.NewSeeded(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Export(ctx, CollectionUsers, "pdf")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Export(ctx, "sessions", FormatJSON)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
