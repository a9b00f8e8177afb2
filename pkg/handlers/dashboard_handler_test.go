package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
)

func TestDashboardCRUD(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/dashboards", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var response DashboardListResponse
		decodeData(t, rec, &response)
		assert.Equal(t, 1, response.Total)
	})

	t.Run("create", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/dashboards", models.DashboardSchema{
			Name:    "Tall trees",
			TableID: "tbl_trees",
			Filters: []models.DashboardFilter{
				{Field: "height", Operator: models.OperatorGreater, Value: "10"},
			},
		}, cookies)
		require.Equal(t, http.StatusCreated, rec.Code)

		var saved models.DashboardSchema
		decodeData(t, rec, &saved)
		assert.NotEmpty(t, saved.ID)
	})

	t.Run("invalid operator rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/dashboards", models.DashboardSchema{
			Name:    "Bad",
			TableID: "tbl_trees",
			Filters: []models.DashboardFilter{
				{Field: "height", Operator: models.OperatorContains, Value: "1"},
			},
		}, cookies)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/dashboards/dsh_trees", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/dashboards/dsh_trees", nil, cookies)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDashboardPreviewEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/dashboards/preview", models.DashboardSchema{
		TableID: "tbl_trees",
		Filters: []models.DashboardFilter{
			{Field: "healthy", Operator: models.OperatorEquals, Value: "true"},
		},
		Widgets: []models.DashboardWidget{
			{Type: models.WidgetPie, Field: "species"},
		},
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var preview services.DashboardPreview
	decodeData(t, rec, &preview)
	assert.Equal(t, 3, preview.Total)
	assert.Equal(t, 2, preview.Matched)
	require.Len(t, preview.Widgets, 1)
	assert.Len(t, preview.Widgets[0].Groups, 2)

	// Nothing was persisted.
	assert.Len(t, env.store.Dashboards(), 1)
}

func TestDashboardEditEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	t.Run("add filter seeds the default predicate", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/dashboards/edit", DashboardEditRequest{
			Dashboard: models.DashboardSchema{TableID: "tbl_trees"},
			Action:    services.EditAddFilter,
		}, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var edited models.DashboardSchema
		decodeData(t, rec, &edited)
		require.Len(t, edited.Filters, 1)
		assert.Equal(t, "species", edited.Filters[0].Field)
		assert.Equal(t, models.OperatorEquals, edited.Filters[0].Operator)
	})

	t.Run("operator outside the field's set is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/dashboards/edit", DashboardEditRequest{
			Dashboard: models.DashboardSchema{
				TableID: "tbl_trees",
				Filters: []models.DashboardFilter{
					{ID: "f1", Field: "height", Operator: models.OperatorEquals},
				},
			},
			Action: services.EditUpdateFilter,
			Index:  0,
			Key:    "operator",
			Value:  models.OperatorContains,
		}, cookies)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("remove widget", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/dashboards/edit", DashboardEditRequest{
			Dashboard: models.DashboardSchema{
				TableID: "tbl_trees",
				Widgets: []models.DashboardWidget{{ID: "w1", Type: models.WidgetBar, Field: "species"}},
			},
			Action: services.EditRemoveWidget,
			Index:  0,
		}, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var edited models.DashboardSchema
		decodeData(t, rec, &edited)
		assert.Empty(t, edited.Widgets)

		// The edited draft stays client-side.
		assert.Len(t, env.store.Dashboards(), 1)
	})
}
