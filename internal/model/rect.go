package model

import (
	"fmt"
	"math"
)

// Point2D represents a 2D coordinate in world units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle with its origin at (X, Y).
//
// Rect is a comparable value: two rectangles are the same rectangle when all
// four fields are exactly equal, regardless of how they were computed. The
// zone partition uses Rect directly as a map key, so coordinates produced by
// different arithmetic paths that differ in the last bit are distinct keys.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectFromMinMax builds a rectangle from its two extreme corners.
func RectFromMinMax(xMin, yMin, xMax, yMax float64) Rect {
	return Rect{X: xMin, Y: yMin, Width: xMax - xMin, Height: yMax - yMin}
}

func (r Rect) XMin() float64 { return r.X }
func (r Rect) YMin() float64 { return r.Y }
func (r Rect) XMax() float64 { return r.X + r.Width }
func (r Rect) YMax() float64 { return r.Y + r.Height }

// Area returns the raw area in square world units.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Normalize returns an equivalent rectangle with non-negative extents.
// Rectangles dragged towards the origin arrive with negative width or height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// IsValid reports whether the rectangle has finite coordinates and strictly
// positive extents.
func (r Rect) IsValid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width > 0 && r.Height > 0
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

func (r Rect) String() string {
	return fmt.Sprintf("(x:%g, y:%g, w:%g, h:%g)", r.X, r.Y, r.Width, r.Height)
}

// Bounds returns the smallest rectangle containing every rectangle in rects.
// It returns the zero Rect for an empty slice.
func Bounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	xMin, yMin := rects[0].XMin(), rects[0].YMin()
	xMax, yMax := rects[0].XMax(), rects[0].YMax()
	for _, r := range rects[1:] {
		xMin = math.Min(xMin, r.XMin())
		yMin = math.Min(yMin, r.YMin())
		xMax = math.Max(xMax, r.XMax())
		yMax = math.Max(yMax, r.YMax())
	}
	return RectFromMinMax(xMin, yMin, xMax, yMax)
}
