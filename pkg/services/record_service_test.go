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

func TestListRecords(t *testing.T) {
	svc := NewRecordService(store.NewSeeded(), zap.NewNop())
	ctx := context.Background()

	records, err := svc.ListRecords(ctx, "tbl_trees")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = svc.ListRecords(ctx, "tbl_missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns id and coerces values", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		saved, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			Values: map[string]any{
				"species":    "oak",
				"height":     "14.5",
				"planted_at": "2020-05-01",
				"healthy":    "true",
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.Equal(t, 14.5, saved.Values["height"])
		assert.Equal(t, true, saved.Values["healthy"])
	})

	t.Run("missing required field", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		_, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			Values: map[string]any{"height": 10},
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "species")
	})

	t.Run("select value outside the options", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		_, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			Values: map[string]any{"species": "cedar"},
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("non numeric value for a number field", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		_, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			Values: map[string]any{"species": "oak", "height": "tall"},
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown field values are dropped", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		saved, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			Values: map[string]any{"species": "linden", "girth": 2.1},
		})
		require.NoError(t, err)
		assert.NotContains(t, saved.Values, "girth")
	})

	t.Run("update preserves created timestamp", func(t *testing.T) {
		st := store.NewSeeded()
		svc := NewRecordService(st, zap.NewNop())

		prior := st.DataRecords("tbl_trees")[0]
		saved, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			ID:     prior.ID,
			Values: map[string]any{"species": "plane", "height": 13},
		})
		require.NoError(t, err)
		assert.Equal(t, prior.CreatedAt, saved.CreatedAt)
		assert.Equal(t, "plane", saved.Values["species"])
	})

	t.Run("update of unknown record", func(t *testing.T) {
		svc := NewRecordService(store.NewSeeded(), zap.NewNop())
		_, err := svc.SaveRecord(ctx, "tbl_trees", &models.DataRecord{
			ID:     "rec_missing",
			Values: map[string]any{"species": "oak"},
		})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeleteRecord(t *testing.T) {
	st := store.NewSeeded()
	svc := NewRecordService(st, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.DeleteRecord(ctx, "tbl_trees", "rec_t1"))
	assert.Len(t, st.DataRecords("tbl_trees"), 2)

	require.ErrorIs(t, svc.DeleteRecord(ctx, "tbl_trees", "rec_t1"), apperrors.ErrNotFound)
}

func TestDeleteRecordScopedToTable(t *testing.T) {
	st := store.NewSeeded()
	svc := NewRecordService(st, zap.NewNop())
	ctx := context.Background()

	err := svc.DeleteRecord(ctx, "tbl_trees", "rec_i1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Len(t, st.DataRecords("tbl_inspections"), 1, "foreign record must survive")
}
