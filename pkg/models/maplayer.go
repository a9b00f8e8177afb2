package models

// MapTileLayer is one base tile layer of the map configuration view.
// At least one layer must always remain.
type MapTileLayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

// Preferences holds the per-session UI preferences.
type Preferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// Theme constants.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
