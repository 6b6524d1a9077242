package model

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Zone engine
	GridSize float64 `json:"grid_size"` // Cell size; also the touching tolerance

	// Canvas
	CanvasWidth  float64 `json:"canvas_width"`  // Drawable world width
	CanvasHeight float64 `json:"canvas_height"` // Drawable world height

	// Application preferences
	LogLevel      string   `json:"log_level"`     // logrus level name
	Theme         string   `json:"theme"`         // "light", "dark", "system"
	HistoryDepth  int      `json:"history_depth"` // Undo steps kept, 0 = default
	RecentExports []string `json:"recent_exports"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		GridSize:      1.0,
		CanvasWidth:   60,
		CanvasHeight:  40,
		LogLevel:      "info",
		Theme:         "system",
		HistoryDepth:  50,
		RecentExports: []string{},
	}
}

// AddRecentExport adds a path to the front of the recent exports list.
// It removes duplicates and caps the list at 10 entries.
func (c *AppConfig) AddRecentExport(path string) {
	filtered := []string{path}
	for _, p := range c.RecentExports {
		if p != path {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > 10 {
		filtered = filtered[:10]
	}
	c.RecentExports = filtered
}
