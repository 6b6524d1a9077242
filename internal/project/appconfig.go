// Package project persists application preferences.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ZonePlanner/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.zoneplanner/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".zoneplanner")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields that are missing or out of range are replaced by their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults := model.DefaultAppConfig()
	if config.GridSize <= 0 {
		config.GridSize = defaults.GridSize
	}
	if config.CanvasWidth <= 0 || config.CanvasHeight <= 0 {
		config.CanvasWidth, config.CanvasHeight = defaults.CanvasWidth, defaults.CanvasHeight
	}
	if config.HistoryDepth <= 0 {
		config.HistoryDepth = defaults.HistoryDepth
	}
	if config.RecentExports == nil {
		config.RecentExports = []string{}
	}
	return config, nil
}
