// Package ui provides the ZonePlanner desktop application.
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ZonePlanner/internal/applog"
	"github.com/piwi3910/ZonePlanner/internal/export"
	"github.com/piwi3910/ZonePlanner/internal/grid"
	"github.com/piwi3910/ZonePlanner/internal/importer"
	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/piwi3910/ZonePlanner/internal/project"
	"github.com/piwi3910/ZonePlanner/internal/ui/widgets"
	"github.com/piwi3910/ZonePlanner/internal/zone"
)

const (
	modeDraw   = "Draw"
	modeDelete = "Delete"
)

// ExportKind selects an export format.
type ExportKind int

const (
	ExportPDF ExportKind = iota
	ExportLabels
	ExportExcel
	ExportDXF
)

var exportExtensions = map[ExportKind]string{
	ExportPDF:    ".pdf",
	ExportLabels: ".pdf",
	ExportExcel:  ".xlsx",
	ExportDXF:    ".dxf",
}

var importers = map[string]func(string) importer.ImportResult{
	".csv":  importer.ImportCSV,
	".xlsx": importer.ImportExcel,
	".xlsm": importer.ImportExcel,
	".dxf":  importer.ImportDXF,
}

// ErrUnsupportedFile is returned for import files with an unknown extension.
var ErrUnsupportedFile = errors.New("unsupported file type")

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	log     logrus.FieldLogger
	cfg     model.AppConfig
	cfgPath string

	manager  *zone.Manager
	history  *History
	grid     grid.Grid
	deleting bool

	// UI references for dynamic updates
	canvas       *widgets.ZoneCanvas
	areasLabel   *widget.Label
	squaresLabel *widget.Label
	statusLabel  *widget.Label
	modeRadio    *widget.RadioGroup
	undoBtn      *ttwidget.Button
	redoBtn      *ttwidget.Button
}

// NewApp wires a window to a zone manager. cfgPath is where preference
// changes such as recent exports are saved; empty disables saving.
func NewApp(window fyne.Window, cfg model.AppConfig, cfgPath string, m *zone.Manager, log logrus.FieldLogger) (*App, error) {
	g, err := grid.New(m.GridSize())
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}
	if log == nil {
		log = applog.Discard()
	}
	a := &App{
		window:  window,
		log:     log,
		cfg:     cfg,
		cfgPath: cfgPath,
		manager: m,
		history: NewHistory(cfg.HistoryDepth),
		grid:    g,
	}
	m.OnChange(a.onChange)
	return a, nil
}

// SetupMenus creates the native menu bar and keyboard shortcuts.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import from CSV...", func() { a.showImportDialog(".csv") }),
		fyne.NewMenuItem("Import from Excel...", func() { a.showImportDialog(".xlsx", ".xlsm") }),
		fyne.NewMenuItem("Import from DXF...", func() { a.showImportDialog(".dxf") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() { a.showExportDialog(ExportPDF, "zones.pdf") }),
		fyne.NewMenuItem("Export Zone Labels...", func() { a.showExportDialog(ExportLabels, "zone-labels.pdf") }),
		fyne.NewMenuItem("Export to Excel...", func() { a.showExportDialog(ExportExcel, "zones.xlsx") }),
		fyne.NewMenuItem("Export to DXF...", func() { a.showExportDialog(ExportDXF, "zones.dxf") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Draw Mode", func() { a.modeRadio.SetSelected(modeDraw) }),
		fyne.NewMenuItem("Delete Mode", func() { a.modeRadio.SetSelected(modeDelete) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Layout", a.confirmClear),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))

	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About ZonePlanner",
		"ZonePlanner\n\n"+
			"Draw rectangles on a grid and see which of them\n"+
			"join up into distinct areas.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.canvas = widgets.NewZoneCanvas(a.grid, a.cfg.CanvasWidth, a.cfg.CanvasHeight)
	a.canvas.OnRect = a.applyRect
	a.canvas.OnTap = a.queryPoint

	a.areasLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.squaresLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.statusLabel = widget.NewLabel("Drag on the grid to add a rectangle.")

	a.modeRadio = widget.NewRadioGroup([]string{modeDraw, modeDelete}, func(selected string) {
		a.setDeleteMode(selected == modeDelete)
	})
	a.modeRadio.Horizontal = true
	a.modeRadio.Required = true
	a.modeRadio.SetSelected(modeDraw)

	a.undoBtn = newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo)
	a.redoBtn = newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo)
	clearBtn := newIconButtonWithTooltip(theme.DeleteIcon(), "Clear layout", a.confirmClear)

	toolbar := container.NewHBox(
		a.modeRadio,
		widget.NewSeparator(),
		a.undoBtn,
		a.redoBtn,
		clearBtn,
		layout.NewSpacer(),
		a.areasLabel,
		a.squaresLabel,
	)

	a.refresh()

	content := container.NewBorder(toolbar, a.statusLabel, nil, nil, a.canvas)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) setDeleteMode(deleting bool) {
	a.deleting = deleting
	if a.canvas != nil {
		a.canvas.SetDeleteMode(deleting)
	}
}

// onChange is registered with the manager and keeps the view in sync.
func (a *App) onChange(c zone.Change) {
	a.log.WithFields(logrus.Fields{
		"op":      c.Op,
		"areas":   c.Areas,
		"squares": c.Squares,
	}).Debug("layout changed")
	a.refresh()
}

func (a *App) refresh() {
	if a.canvas == nil {
		return
	}
	a.canvas.SetZones(a.manager.DistinctZoneRects())
	a.areasLabel.SetText(fmt.Sprintf("Distinct Areas: %d", a.manager.DistinctAreas()))
	a.squaresLabel.SetText(fmt.Sprintf("Total Squares: %d", a.manager.SizeOfAllRects()))
	a.updateHistoryButtons()
}

func (a *App) updateHistoryButtons() {
	if a.undoBtn == nil {
		return
	}
	if a.history.CanUndo() {
		a.undoBtn.Enable()
	} else {
		a.undoBtn.Disable()
	}
	if a.history.CanRedo() {
		a.redoBtn.Enable()
	} else {
		a.redoBtn.Disable()
	}
}

func (a *App) setStatus(format string, args ...interface{}) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(fmt.Sprintf(format, args...))
	}
}

// applyRect adds or deletes r depending on the current mode.
func (a *App) applyRect(r model.Rect) {
	label := "Add Rectangle"
	apply := a.manager.AddRect
	if a.deleting {
		label = "Delete Area"
		apply = a.manager.DeleteRect
	}

	before := a.manager.Snapshot(label)
	changed, err := apply(r)
	if err != nil {
		a.rollback(before, err)
		return
	}
	if !changed {
		a.setStatus("%s %v: no change", label, r)
		return
	}
	a.history.Push(before)
	a.updateHistoryButtons()
	a.setStatus("%s %v", label, r)
}

// rollback puts the layout back after an internal engine failure.
func (a *App) rollback(before model.LayoutSnapshot, err error) {
	a.log.WithError(err).WithField("step", before.Label).Error("layout change failed")
	if rerr := a.manager.Restore(before); rerr != nil {
		a.log.WithError(rerr).Error("failed to restore layout")
	}
	dialog.ShowError(err, a.window)
}

// queryPoint reports the area under p. The query uses the centre of the grid
// cell containing p so a tap on a cell edge resolves to that cell.
func (a *App) queryPoint(p model.Point2D) {
	id := a.manager.AreaPointIsIn(a.grid.Cell(p).Center())
	if id == zone.NoArea {
		a.setStatus("(%.1f, %.1f): no area", p.X, p.Y)
		return
	}
	a.setStatus("(%.1f, %.1f): area %d", p.X, p.Y, id)
}

func (a *App) undo() {
	label := a.history.UndoLabel()
	prev, ok := a.history.Undo(a.manager.Snapshot(label))
	if !ok {
		return
	}
	if err := a.manager.Restore(prev); err != nil {
		a.log.WithError(err).Error("undo failed")
		a.history.Clear()
		a.updateHistoryButtons()
		dialog.ShowError(err, a.window)
		return
	}
	a.updateHistoryButtons()
	a.setStatus("Undo %s", label)
}

func (a *App) redo() {
	label := a.history.RedoLabel()
	next, ok := a.history.Redo(a.manager.Snapshot(label))
	if !ok {
		return
	}
	if err := a.manager.Restore(next); err != nil {
		a.log.WithError(err).Error("redo failed")
		a.history.Clear()
		a.updateHistoryButtons()
		dialog.ShowError(err, a.window)
		return
	}
	a.updateHistoryButtons()
	a.setStatus("Redo %s", label)
}

func (a *App) confirmClear() {
	if a.manager.Len() == 0 {
		return
	}
	dialog.ShowConfirm("Clear Layout", "Remove every rectangle?", func(ok bool) {
		if ok {
			a.clearLayout()
		}
	}, a.window)
}

func (a *App) clearLayout() {
	if a.manager.Len() == 0 {
		return
	}
	before := a.manager.Snapshot("Clear Layout")
	a.manager.Clear()
	a.history.Push(before)
	a.updateHistoryButtons()
	a.setStatus("Layout cleared")
}

// ─── Import ─────────────────────────────────────────────────

func (a *App) showImportDialog(extensions ...string) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		msg, err := a.importFile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.Show()
}

// importFile reads operations from path and replays them as a single undo
// step. It returns a summary for the user.
func (a *App) importFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := importers[ext]
	if !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}

	result := read(path)
	for _, w := range result.Warnings {
		a.log.WithField("file", path).Warn(w)
	}
	if len(result.Ops) == 0 {
		return "", fmt.Errorf("nothing to import from %s:\n\n%s", filepath.Base(path), strings.Join(result.Errors, "\n"))
	}

	before := a.manager.Snapshot("Import " + filepath.Base(path))
	applied := importer.Apply(a.manager, result.Ops)
	if applied.Added+applied.Deleted > 0 {
		a.history.Push(before)
		a.updateHistoryButtons()
	}
	a.log.WithFields(logrus.Fields{
		"file":    path,
		"added":   applied.Added,
		"deleted": applied.Deleted,
		"ignored": applied.Ignored,
	}).Info("import applied")

	msg := fmt.Sprintf("Applied %d operations: %d added, %d deleted, %d without effect.",
		len(result.Ops), applied.Added, applied.Deleted, applied.Ignored)
	if n := len(result.Errors) + len(applied.Errors); n > 0 {
		msg += fmt.Sprintf("\n\n%d rows had errors and were skipped:\n%s", n,
			strings.Join(append(result.Errors, applied.Errors...), "\n"))
	}
	a.setStatus("Imported %s", filepath.Base(path))
	return msg, nil
}

// ─── Export ─────────────────────────────────────────────────

func (a *App) showExportDialog(kind ExportKind, defaultName string) {
	if a.manager.Len() == 0 {
		dialog.ShowInformation("Nothing to export", "Draw at least one rectangle first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := a.exportFile(kind, path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{exportExtensions[kind]}))
	d.Show()
}

// exportFile writes the current zones to path and records it in the recent
// exports list.
func (a *App) exportFile(kind ExportKind, path string) error {
	zones := a.manager.Summaries()

	var err error
	switch kind {
	case ExportPDF:
		err = export.ExportPDF(path, zones, a.cfg)
	case ExportLabels:
		err = export.ExportZoneLabels(path, zones)
	case ExportExcel:
		err = export.ExportExcel(path, zones)
	case ExportDXF:
		err = export.ExportDXF(path, zones)
	default:
		err = fmt.Errorf("unknown export kind %d", kind)
	}
	if err != nil {
		a.log.WithError(err).WithField("file", path).Error("export failed")
		return err
	}
	a.log.WithField("file", path).WithField("zones", len(zones)).Info("export written")

	a.cfg.AddRecentExport(path)
	if a.cfgPath != "" {
		if err := project.SaveAppConfig(a.cfgPath, a.cfg); err != nil {
			a.log.WithError(err).Warn("failed to save config")
		}
	}
	a.setStatus("Exported %s", filepath.Base(path))
	return nil
}
