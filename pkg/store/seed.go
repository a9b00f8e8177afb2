package store

import (
	"time"

	"github.com/geonexus/console/pkg/models"
)

// NewSeeded returns a store loaded with the fixed startup records: the system
// roles and admin account, two demo layers with data, a default dashboard, a
// calendar, home-screen shortcuts and the base tile layers.
func NewSeeded() *Store {
	s := New()
	seededAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	s.roles = []models.UserRole{
		{
			ID:          "role_admin",
			Name:        "Administrator",
			Description: "Full access to every console area",
			IsSystem:    true,
			Permissions: append([]string(nil), models.ValidPermissions...),
		},
		{
			ID:          "role_editor",
			Name:        "Editor",
			Description: "Edits data and dashboards, no system administration",
			IsSystem:    true,
			Permissions: []string{
				models.PermManageDashboards,
				models.PermManageCalendars,
				models.PermEditData,
				models.PermViewData,
				models.PermExportData,
			},
		},
		{
			ID:          "role_viewer",
			Name:        "Viewer",
			Description: "Read-only access",
			IsSystem:    true,
			Permissions: []string{models.PermViewData},
		},
	}

	s.users = []models.User{
		{
			ID:        "usr_admin",
			Username:  "admin",
			Email:     "admin@geonexus.local",
			RoleID:    "role_admin",
			Password:  "admin",
			CreatedAt: seededAt,
		},
		{
			ID:        "usr_field",
			Username:  "field_agent",
			Email:     "field@geonexus.local",
			RoleID:    "role_editor",
			Password:  "field",
			CreatedAt: seededAt,
		},
	}

	trees := models.TableSchema{
		ID:           "tbl_trees",
		Name:         "Trees",
		Description:  "Urban tree inventory",
		GeometryType: models.GeometryPoint,
		Color:        "#2e7d32",
		Fields: []models.FieldDefinition{
			{ID: "fld_species", Name: "species", Label: "Species", Type: models.FieldTypeSelect,
				Required: true, Sortable: true, Filterable: true,
				Options: []models.FieldOption{
					{Value: "oak", Label: "Oak", Color: "#6d4c41"},
					{Value: "plane", Label: "Plane", Color: "#8d6e63"},
					{Value: "linden", Label: "Linden", Color: "#a1887f"},
				}},
			{ID: "fld_height", Name: "height", Label: "Height (m)", Type: models.FieldTypeNumber,
				Sortable: true, Filterable: true},
			{ID: "fld_planted", Name: "planted_at", Label: "Planted", Type: models.FieldTypeDate,
				Sortable: true, Filterable: true},
			{ID: "fld_healthy", Name: "healthy", Label: "Healthy", Type: models.FieldTypeBoolean,
				Sortable: false, Filterable: true,
				BooleanLabels: &models.BooleanLabels{True: "Healthy", False: "Needs attention"}},
		},
		VisibleInData:   true,
		IsDefaultInData: true,
		VisibleInMap:    true,
		MapDisplayMode:  models.MapDisplayTooltip,
		HoverFields:     []string{"species", "height"},
		CreatedAt:       seededAt,
	}

	inspections := models.TableSchema{
		ID:           "tbl_inspections",
		Name:         "Inspections",
		Description:  "Scheduled field inspections",
		GeometryType: models.GeometryNone,
		Color:        "#1565c0",
		Fields: []models.FieldDefinition{
			{ID: "fld_title", Name: "title", Label: "Title", Type: models.FieldTypeText,
				Required: true, Sortable: true, Filterable: true},
			{ID: "fld_start", Name: "start_date", Label: "Start date", Type: models.FieldTypeDate,
				Required: true, Sortable: true, Filterable: true},
			{ID: "fld_end", Name: "end_date", Label: "End date", Type: models.FieldTypeDate,
				Sortable: true, Filterable: true},
			{ID: "fld_status", Name: "status", Label: "Status", Type: models.FieldTypeSelect,
				Sortable: true, Filterable: true,
				Options: []models.FieldOption{
					{Value: "planned", Label: "Planned", Color: "#90a4ae"},
					{Value: "done", Label: "Done", Color: "#2e7d32"},
				}},
		},
		VisibleInData:        true,
		AllowNonSpatialEntry: true,
		Planning: &models.PlanningConfig{
			Enabled:     true,
			TitleField:  "title",
			StartField:  "start_date",
			EndField:    "end_date",
			DefaultView: models.ViewDayGridMonth,
			TimeZone:    "Europe/Paris",
		},
		CreatedAt: seededAt,
	}
	s.schemas = []models.TableSchema{trees, inspections}

	s.records = []models.DataRecord{
		{ID: "rec_t1", TableID: "tbl_trees", CreatedAt: seededAt,
			Values: map[string]any{"species": "oak", "height": 12.5, "planted_at": "1998-04-12", "healthy": true}},
		{ID: "rec_t2", TableID: "tbl_trees", CreatedAt: seededAt,
			Values: map[string]any{"species": "plane", "height": 18.0, "planted_at": "1985-10-02", "healthy": false}},
		{ID: "rec_t3", TableID: "tbl_trees", CreatedAt: seededAt,
			Values: map[string]any{"species": "linden", "height": 9.25, "planted_at": "2011-03-21", "healthy": true}},
		{ID: "rec_i1", TableID: "tbl_inspections", CreatedAt: seededAt,
			Values: map[string]any{"title": "Spring survey", "start_date": "2025-04-01", "end_date": "2025-04-05", "status": "planned"}},
	}

	s.dashboards = []models.DashboardSchema{
		{
			ID:        "dsh_trees",
			Name:      "Tree health",
			TableID:   "tbl_trees",
			IsDefault: true,
			ShowTable: true,
			Filters: []models.DashboardFilter{
				{ID: "flt_healthy", Field: "healthy", Operator: models.OperatorEquals, Value: "true"},
			},
			Widgets: []models.DashboardWidget{
				{ID: "wdg_species", Type: models.WidgetPie, Field: "species", Title: "By species"},
				{ID: "wdg_height", Type: models.WidgetSummary, Field: "height", Title: "Heights"},
			},
			CreatedAt: seededAt,
		},
	}

	s.calendars = []models.CalendarSchema{
		{
			ID:          "cal_inspections",
			Name:        "Inspection planning",
			TableID:     "tbl_inspections",
			TitleField:  "title",
			StartField:  "start_date",
			EndField:    "end_date",
			DefaultView: models.ViewDayGridMonth,
			TimeZone:    "Europe/Paris",
			Order:       1,
		},
	}

	s.shortcuts = []models.Shortcut{
		{
			ID: "sct_trees", Name: "Tree map", Icon: "map", Color: "#2e7d32",
			Type:   models.ShortcutMapPreset,
			Config: models.ShortcutConfig{MapPreset: &models.MapPresetConfig{Layers: []string{"tbl_trees"}, Zoom: 14}},
		},
		{
			ID: "sct_add_tree", Name: "Add tree", Icon: "plus", Color: "#1b5e20",
			Type:   models.ShortcutQuickAdd,
			Config: models.ShortcutConfig{QuickAdd: &models.QuickAddConfig{TargetTableID: "tbl_trees"}},
		},
		{
			ID: "sct_health", Name: "Tree health", Icon: "chart", Color: "#ef6c00",
			Type:   models.ShortcutDashboardView,
			Config: models.ShortcutConfig{DashboardView: &models.DashboardViewConfig{DashboardSchemaID: "dsh_trees"}},
		},
	}

	s.mapLayers = []models.MapTileLayer{
		{ID: "lyr_osm", Name: "OpenStreetMap", URL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors", IsDefault: true},
		{ID: "lyr_topo", Name: "Topographic", URL: "https://tile.opentopomap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenTopoMap"},
	}

	return s
}
