// ZonePlanner: draw rectangles on a grid and track the distinct areas they form.
//
// Build:
//   go build -o zoneplanner ./cmd/zoneplanner
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o zoneplanner.exe ./cmd/zoneplanner
//   GOOS=darwin  GOARCH=amd64 go build -o zoneplanner-darwin ./cmd/zoneplanner
//
// The log level comes from ~/.zoneplanner/config.json and can be overridden
// with ZONEPLANNER_LOG_LEVEL.

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/ZonePlanner/internal/applog"
	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/piwi3910/ZonePlanner/internal/project"
	"github.com/piwi3910/ZonePlanner/internal/ui"
	"github.com/piwi3910/ZonePlanner/internal/zone"
)

func main() {
	cfgPath := project.DefaultConfigPath()
	cfg, cfgErr := project.LoadAppConfig(cfgPath)

	level := cfg.LogLevel
	if env := os.Getenv("ZONEPLANNER_LOG_LEVEL"); env != "" {
		level = env
	}
	log := applog.New(level)
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default config")
		cfg = model.DefaultAppConfig()
	}

	manager, err := zone.NewManager(cfg.GridSize, zone.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("failed to create zone manager")
	}

	application := app.NewWithID("com.piwi3910.zoneplanner")
	application.Settings().SetTheme(ui.NewPlannerTheme(cfg.Theme))

	window := application.NewWindow("ZonePlanner")

	appUI, err := ui.NewApp(window, cfg, cfgPath, manager, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create window")
	}
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	log.WithField("grid", cfg.GridSize).WithField("config", cfgPath).Info("zoneplanner started")
	window.ShowAndRun()
}
