// Package widgets holds custom Fyne widgets for the zone planner.
package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ZonePlanner/internal/grid"
	"github.com/piwi3910/ZonePlanner/internal/model"
)

// Zone colors, cycled by zone index.
var zoneColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// ZoneColor returns the display color of the zone at index.
func ZoneColor(index int) color.NRGBA {
	return zoneColors[index%len(zoneColors)]
}

var (
	drawPreviewColor   = color.NRGBA{R: 33, G: 150, B: 243, A: 90}
	deletePreviewColor = color.NRGBA{R: 244, G: 67, B: 54, A: 90}
	gridLineColor      = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// ZoneCanvas draws the zone layout over a snapping grid and turns drags into
// grid-aligned rectangles.
type ZoneCanvas struct {
	widget.BaseWidget

	// OnRect is called with the snapped rectangle when a drag ends. Drags
	// that snap to a zero-size rectangle are dropped.
	OnRect func(model.Rect)
	// OnTap is called with the world position of a tap.
	OnTap func(model.Point2D)

	grid     grid.Grid
	worldW   float64
	worldH   float64
	zones    [][]model.Rect
	deleting bool

	dragging  bool
	dragStart model.Point2D
	dragEnd   model.Point2D
}

// NewZoneCanvas creates a canvas showing a world of worldW x worldH units.
func NewZoneCanvas(g grid.Grid, worldW, worldH float64) *ZoneCanvas {
	zc := &ZoneCanvas{grid: g, worldW: worldW, worldH: worldH}
	zc.ExtendBaseWidget(zc)
	return zc
}

// SetZones replaces the displayed zones, one slice of rectangles per zone.
func (zc *ZoneCanvas) SetZones(zones [][]model.Rect) {
	zc.zones = zones
	zc.Refresh()
}

// SetDeleteMode switches the drag preview between draw and delete styling.
func (zc *ZoneCanvas) SetDeleteMode(deleting bool) {
	zc.deleting = deleting
	zc.Refresh()
}

// Preview returns the rectangle currently being dragged, if any.
func (zc *ZoneCanvas) Preview() (model.Rect, bool) {
	if !zc.dragging {
		return model.Rect{}, false
	}
	return zc.grid.RectFromCorners(zc.dragStart, zc.dragEnd), true
}

// scale returns pixels per world unit for the current widget size.
func (zc *ZoneCanvas) scale() float32 {
	size := zc.Size()
	if size.Width <= 0 || size.Height <= 0 || zc.worldW <= 0 || zc.worldH <= 0 {
		return 1
	}
	return float32(math.Min(float64(size.Width)/zc.worldW, float64(size.Height)/zc.worldH))
}

// ToWorld converts a widget position to world coordinates.
func (zc *ZoneCanvas) ToWorld(pos fyne.Position) model.Point2D {
	s := zc.scale()
	return model.Point2D{X: float64(pos.X / s), Y: float64(pos.Y / s)}
}

// Dragged implements fyne.Draggable.
func (zc *ZoneCanvas) Dragged(ev *fyne.DragEvent) {
	if !zc.dragging {
		zc.dragging = true
		zc.dragStart = zc.ToWorld(ev.Position.Subtract(ev.Dragged))
	}
	zc.dragEnd = zc.ToWorld(ev.Position)
	zc.Refresh()
}

// DragEnd implements fyne.Draggable.
func (zc *ZoneCanvas) DragEnd() {
	r, ok := zc.Preview()
	zc.dragging = false
	zc.Refresh()
	if !ok || r.Width == 0 || r.Height == 0 || zc.OnRect == nil {
		return
	}
	zc.OnRect(r)
}

// Tapped implements fyne.Tappable.
func (zc *ZoneCanvas) Tapped(ev *fyne.PointEvent) {
	if zc.OnTap != nil {
		zc.OnTap(zc.ToWorld(ev.Position))
	}
}

func (zc *ZoneCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (zc *ZoneCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &zoneCanvasRenderer{zc: zc}
	r.rebuild()
	return r
}

type zoneCanvasRenderer struct {
	zc      *ZoneCanvas
	objects []fyne.CanvasObject
}

func (r *zoneCanvasRenderer) rebuild() {
	r.objects = nil
	zc := r.zc
	scale := zc.scale()
	canvasW := float32(zc.worldW) * scale
	canvasH := float32(zc.worldH) * scale

	bg := canvas.NewRectangle(color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	// Grid lines, skipped when they would be denser than 4 px.
	if float32(zc.grid.CellSize)*scale >= 4 {
		xs, ys := zc.grid.Lines(model.NewRect(0, 0, zc.worldW, zc.worldH))
		for _, x := range xs {
			line := canvas.NewLine(gridLineColor)
			line.Position1 = fyne.NewPos(float32(x)*scale, 0)
			line.Position2 = fyne.NewPos(float32(x)*scale, canvasH)
			r.objects = append(r.objects, line)
		}
		for _, y := range ys {
			line := canvas.NewLine(gridLineColor)
			line.Position1 = fyne.NewPos(0, float32(y)*scale)
			line.Position2 = fyne.NewPos(canvasW, float32(y)*scale)
			r.objects = append(r.objects, line)
		}
	}

	for i, rects := range zc.zones {
		col := ZoneColor(i)
		for _, rect := range rects {
			r.objects = append(r.objects, r.rect(rect, col, scale))
		}
		if len(rects) == 0 {
			continue
		}
		b := model.Bounds(rects)
		if float32(b.Width)*scale > 16 && float32(b.Height)*scale > 14 {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), color.Black)
			label.TextSize = 10
			label.TextStyle = fyne.TextStyle{Bold: true}
			label.Move(fyne.NewPos(float32(b.X)*scale+3, float32(b.Y)*scale+2))
			r.objects = append(r.objects, label)
		}
	}

	if preview, ok := zc.Preview(); ok {
		col := drawPreviewColor
		if zc.deleting {
			col = deletePreviewColor
		}
		p := r.rect(preview, col, scale)
		p.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		p.StrokeWidth = 2
		r.objects = append(r.objects, p)
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)
}

func (r *zoneCanvasRenderer) rect(rect model.Rect, col color.Color, scale float32) *canvas.Rectangle {
	cr := canvas.NewRectangle(col)
	cr.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 120}
	cr.StrokeWidth = 1
	cr.Resize(fyne.NewSize(float32(rect.Width)*scale, float32(rect.Height)*scale))
	cr.Move(fyne.NewPos(float32(rect.X)*scale, float32(rect.Y)*scale))
	return cr
}

func (r *zoneCanvasRenderer) Layout(size fyne.Size)        { r.rebuild() }
func (r *zoneCanvasRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.zc) }
func (r *zoneCanvasRenderer) Destroy()                     {}
func (r *zoneCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *zoneCanvasRenderer) MinSize() fyne.Size           { return r.zc.MinSize() }
