package models

import (
	"fmt"
)

// ShortcutType constants for the closed set of quick actions.
const (
	ShortcutMapPreset     = "map_preset"
	ShortcutDataView      = "data_view"
	ShortcutQuickAdd      = "quick_add"
	ShortcutMapSearch     = "map_search"
	ShortcutDashboardView = "dashboard_view"
)

// ValidShortcutTypes contains all valid shortcut type values.
var ValidShortcutTypes = []string{
	ShortcutMapPreset,
	ShortcutDataView,
	ShortcutQuickAdd,
	ShortcutMapSearch,
	ShortcutDashboardView,
}

// IsValidShortcutType checks if the given shortcut type is valid.
func IsValidShortcutType(shortcutType string) bool {
	for _, t := range ValidShortcutTypes {
		if t == shortcutType {
			return true
		}
	}
	return false
}

// MapPresetConfig opens the map on a preset of layers and zoom.
type MapPresetConfig struct {
	Layers []string `json:"layers"`
	Zoom   int      `json:"zoom"`
}

// DataViewConfig opens a table's data view, optionally pre-filtered.
type DataViewConfig struct {
	TableID string `json:"table_id"`
	Search  string `json:"search,omitempty"`
}

// QuickAddConfig opens the feature-creation flow for a table.
type QuickAddConfig struct {
	TargetTableID string `json:"target_table_id"`
}

// MapSearchConfig opens the map search scoped to one layer.
type MapSearchConfig struct {
	FilterLayerID string `json:"filter_layer_id"`
}

// DashboardViewConfig opens a saved dashboard.
type DashboardViewConfig struct {
	DashboardSchemaID string `json:"dashboard_schema_id"`
}

// ShortcutConfig holds the type-specific configuration. Exactly one variant
// is populated, keyed by the shortcut's Type.
type ShortcutConfig struct {
	MapPreset     *MapPresetConfig     `json:"map_preset,omitempty"`
	DataView      *DataViewConfig      `json:"data_view,omitempty"`
	QuickAdd      *QuickAddConfig      `json:"quick_add,omitempty"`
	MapSearch     *MapSearchConfig     `json:"map_search,omitempty"`
	DashboardView *DashboardViewConfig `json:"dashboard_view,omitempty"`
}

// Shortcut is a saved quick action on the console home screen.
type Shortcut struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Icon   string         `json:"icon"`
	Color  string         `json:"color"`
	Type   string         `json:"type"`
	Config ShortcutConfig `json:"config"`
}

// Validate checks that the type is known and that the config variant matching
// the type (and only that variant) is populated.
func (s *Shortcut) Validate() error {
	if !IsValidShortcutType(s.Type) {
		return fmt.Errorf("unknown shortcut type %q", s.Type)
	}
	variants := map[string]bool{
		ShortcutMapPreset:     s.Config.MapPreset != nil,
		ShortcutDataView:      s.Config.DataView != nil,
		ShortcutQuickAdd:      s.Config.QuickAdd != nil,
		ShortcutMapSearch:     s.Config.MapSearch != nil,
		ShortcutDashboardView: s.Config.DashboardView != nil,
	}
	for typ, set := range variants {
		if typ == s.Type && !set {
			return fmt.Errorf("shortcut type %q requires a %s config", s.Type, typ)
		}
		if typ != s.Type && set {
			return fmt.Errorf("shortcut type %q carries a stray %s config", s.Type, typ)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate it freely.
func (s *Shortcut) Clone() *Shortcut {
	out := *s
	if s.Config.MapPreset != nil {
		cp := *s.Config.MapPreset
		cp.Layers = append([]string(nil), s.Config.MapPreset.Layers...)
		out.Config.MapPreset = &cp
	}
	if s.Config.DataView != nil {
		cp := *s.Config.DataView
		out.Config.DataView = &cp
	}
	if s.Config.QuickAdd != nil {
		cp := *s.Config.QuickAdd
		out.Config.QuickAdd = &cp
	}
	if s.Config.MapSearch != nil {
		cp := *s.Config.MapSearch
		out.Config.MapSearch = &cp
	}
	if s.Config.DashboardView != nil {
		cp := *s.Config.DashboardView
		out.Config.DashboardView = &cp
	}
	return &out
}

// TableRef returns the table id the shortcut points at, if any. Used for
// cascade cleanup when a table schema is deleted.
func (s *Shortcut) TableRef() string {
	switch s.Type {
	case ShortcutDataView:
		if s.Config.DataView != nil {
			return s.Config.DataView.TableID
		}
	case ShortcutQuickAdd:
		if s.Config.QuickAdd != nil {
			return s.Config.QuickAdd.TargetTableID
		}
	case ShortcutMapSearch:
		if s.Config.MapSearch != nil {
			return s.Config.MapSearch.FilterLayerID
		}
	}
	return ""
}

// DashboardRef returns the dashboard id the shortcut points at, if any.
func (s *Shortcut) DashboardRef() string {
	if s.Type == ShortcutDashboardView && s.Config.DashboardView != nil {
		return s.Config.DashboardView.DashboardSchemaID
	}
	return ""
}
