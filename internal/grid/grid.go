// Package grid snaps world coordinates to grid cell corners.
package grid

import (
	"fmt"
	"math"

	"github.com/piwi3910/ZonePlanner/internal/model"
)

// Grid is a square grid anchored at Origin.
type Grid struct {
	CellSize float64
	Origin   model.Point2D
}

// New creates a grid with the given cell size anchored at the origin.
func New(cellSize float64) (Grid, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return Grid{}, fmt.Errorf("cell size %g must be positive", cellSize)
	}
	return Grid{CellSize: cellSize}, nil
}

// NearestCorner returns the grid corner closest to p.
func (g Grid) NearestCorner(p model.Point2D) model.Point2D {
	return model.Point2D{
		X: g.snap(p.X, g.Origin.X),
		Y: g.snap(p.Y, g.Origin.Y),
	}
}

func (g Grid) snap(v, origin float64) float64 {
	// math.Round rounds halves away from zero.
	return origin + math.Round((v-origin)/g.CellSize)*g.CellSize
}

// RectFromCorners snaps both drag endpoints and returns the rectangle they
// span with non-negative extents. The result may have zero width or height
// when both points snap to the same line.
func (g Grid) RectFromCorners(start, end model.Point2D) model.Rect {
	a := g.NearestCorner(start)
	b := g.NearestCorner(end)
	return model.RectFromMinMax(
		math.Min(a.X, b.X), math.Min(a.Y, b.Y),
		math.Max(a.X, b.X), math.Max(a.Y, b.Y),
	)
}

// Cell returns the grid cell containing p.
func (g Grid) Cell(p model.Point2D) model.Rect {
	x := g.Origin.X + math.Floor((p.X-g.Origin.X)/g.CellSize)*g.CellSize
	y := g.Origin.Y + math.Floor((p.Y-g.Origin.Y)/g.CellSize)*g.CellSize
	return model.NewRect(x, y, g.CellSize, g.CellSize)
}

// Lines returns the x and y coordinates of the grid lines inside bounds.
// Each coordinate is computed from its line index, so lines far from the
// origin carry no accumulated rounding error.
func (g Grid) Lines(bounds model.Rect) (xs, ys []float64) {
	return g.lines(bounds.XMin(), bounds.XMax(), g.Origin.X), g.lines(bounds.YMin(), bounds.YMax(), g.Origin.Y)
}

func (g Grid) lines(lo, hi, origin float64) []float64 {
	slack := g.CellSize * 1e-9
	var out []float64
	for i := math.Ceil((lo-origin)/g.CellSize - 1e-9); ; i++ {
		v := origin + i*g.CellSize
		if v > hi+slack {
			break
		}
		out = append(out, v)
	}
	return out
}
