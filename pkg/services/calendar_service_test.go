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

func newCalendarService(t *testing.T) (CalendarService, *store.Store) {
	t.Helper()
	st := store.NewSeeded()
	return NewCalendarService(st, zap.NewNop()), st
}

func TestSaveCalendar(t *testing.T) {
	svc, _ := newCalendarService(t)
	ctx := context.Background()

	valid := func() *models.CalendarSchema {
		return &models.CalendarSchema{
			Name:       "Surveys",
			TableID:    "tbl_inspections",
			TitleField: "title",
			StartField: "start_date",
			EndField:   "end_date",
		}
	}

	t.Run("defaults fill in", func(t *testing.T) {
		saved, err := svc.SaveCalendar(ctx, valid())
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, models.ViewDayGridMonth, saved.DefaultView)
		assert.Equal(t, "UTC", saved.TimeZone)
	})

	t.Run("name required", func(t *testing.T) {
		c := valid()
		c.Name = " "
		_, err := svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown table", func(t *testing.T) {
		c := valid()
		c.TableID = "tbl_missing"
		_, err := svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("title field must exist", func(t *testing.T) {
		c := valid()
		c.TitleField = "nope"
		_, err := svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("start field must be a date", func(t *testing.T) {
		c := valid()
		c.StartField = "title"
		_, err := svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("end field optional but typed when set", func(t *testing.T) {
		c := valid()
		c.EndField = ""
		_, err := svc.SaveCalendar(ctx, c)
		require.NoError(t, err)

		c = valid()
		c.EndField = "status"
		_, err = svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown view rejected", func(t *testing.T) {
		c := valid()
		c.DefaultView = "yearGrid"
		_, err := svc.SaveCalendar(ctx, c)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestEffectiveColor(t *testing.T) {
	svc, st := newCalendarService(t)
	ctx := context.Background()

	cal, err := st.Calendar("cal_inspections")
	require.NoError(t, err)

	t.Run("falls back to the table color", func(t *testing.T) {
		assert.Equal(t, "#1565c0", svc.EffectiveColor(ctx, cal))
	})

	t.Run("own color wins", func(t *testing.T) {
		cal.Color = "#ff0000"
		assert.Equal(t, "#ff0000", svc.EffectiveColor(ctx, cal))
	})
}

func TestDeleteCalendar(t *testing.T) {
	svc, st := newCalendarService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCalendar(ctx, "cal_inspections"))
	_, err := st.Calendar("cal_inspections")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
