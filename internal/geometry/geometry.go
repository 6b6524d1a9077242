// Package geometry provides the axis-aligned rectangle arithmetic used by the
// zone engine: overlap, touching and cutout.
//
// All size comparisons are made in grid squares (area divided by the square
// of the grid cell size), never in raw area.
package geometry

import (
	"math"

	"github.com/piwi3910/ZonePlanner/internal/model"
)

// TouchThreshold is the minimum overlap, in grid squares, between an
// inflated rectangle and its neighbour for the two to count as touching.
// Rectangles that only share a corner stay below it.
const TouchThreshold = 0.25

// Overlaps reports whether the two rectangles intersect on both axes.
// Edges that merely meet do not overlap.
func Overlaps(a, b model.Rect) bool {
	return b.XMax() > a.XMin() && b.XMin() < a.XMax() &&
		b.YMax() > a.YMin() && b.YMin() < a.YMax()
}

// OverlapRegion returns the largest rectangle contained in both a and b, or
// the zero Rect when they do not overlap.
func OverlapRegion(a, b model.Rect) model.Rect {
	if !Overlaps(a, b) {
		return model.Rect{}
	}
	x1 := math.Min(a.XMax(), b.XMax())
	x2 := math.Max(a.XMin(), b.XMin())
	y1 := math.Min(a.YMax(), b.YMax())
	y2 := math.Max(a.YMin(), b.YMin())
	return model.Rect{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Max(0, x1-x2),
		Height: math.Max(0, y1-y2),
	}
}

// NormalizedSize returns the size of r in grid squares.
func NormalizedSize(r model.Rect, tolerance float64) float64 {
	return r.Width / tolerance * (r.Height / tolerance)
}

// OverlapSize returns the size of the overlap between a and b in grid squares.
func OverlapSize(a, b model.Rect, tolerance float64) float64 {
	return NormalizedSize(OverlapRegion(a, b), tolerance)
}

// IsTouching reports whether a and b overlap or share part of an edge.
//
// One rectangle is grown by half a grid cell on every side and tested against
// the other. The overlap must exceed TouchThreshold so that corner contact is
// ignored. Growing a or growing b gives the same answer for grid-aligned
// rectangles; for rectangles thinner than half a cell it can differ, so both
// directions are tried to keep the relation symmetric.
func IsTouching(a, b model.Rect, tolerance float64) bool {
	if a == b {
		return true
	}
	return touchesGrown(a, b, tolerance) || touchesGrown(b, a, tolerance)
}

func touchesGrown(a, b model.Rect, tolerance float64) bool {
	grown := a.Inflate(tolerance / 2)
	if !Overlaps(grown, b) {
		return false
	}
	return OverlapSize(grown, b, tolerance) > TouchThreshold
}

// Contains reports whether p lies inside r. The minimum edges are inclusive
// and the maximum edges exclusive, so a point on a shared edge belongs to
// exactly one of two adjacent rectangles.
func Contains(r model.Rect, p model.Point2D) bool {
	return p.X >= r.XMin() && p.X < r.XMax() &&
		p.Y >= r.YMin() && p.Y < r.YMax()
}

// Cutout subtracts remove from shape and returns the remaining area as up to
// four disjoint rectangles:
//
//	-------------------------
//	|          top          |
//	|-----------------------|
//	| left |  remove | right|
//	|-----------------------|
//	|         bottom        |
//	-------------------------
//
// The top and bottom strips span the full width of shape; the left and right
// strips span only the height of the overlap. Fragments are always emitted in
// top, left, right, bottom order.
func Cutout(shape, remove model.Rect, tolerance float64) []model.Rect {
	if remove.Width == 0 || remove.Height == 0 {
		return []model.Rect{shape}
	}

	overlap := OverlapRegion(shape, remove)
	overlapSize := NormalizedSize(overlap, tolerance)
	if overlapSize >= NormalizedSize(shape, tolerance) {
		return []model.Rect{}
	}
	if overlapSize <= 0 {
		return []model.Rect{shape}
	}

	fragments := make([]model.Rect, 0, 4)

	if h := overlap.YMin() - shape.YMin(); h > 0 {
		fragments = append(fragments, model.Rect{
			X:      shape.XMin(),
			Y:      shape.YMin(),
			Width:  shape.Width,
			Height: h,
		})
	}

	if w := overlap.XMin() - shape.XMin(); w > 0 {
		fragments = append(fragments, model.Rect{
			X:      shape.XMin(),
			Y:      overlap.YMin(),
			Width:  w,
			Height: overlap.Height,
		})
	}

	if w := shape.XMax() - overlap.XMax(); w > 0 {
		fragments = append(fragments, model.Rect{
			X:      overlap.XMax(),
			Y:      overlap.YMin(),
			Width:  w,
			Height: overlap.Height,
		})
	}

	if h := shape.YMax() - overlap.YMax(); h > 0 {
		fragments = append(fragments, model.Rect{
			X:      shape.XMin(),
			Y:      overlap.YMax(),
			Width:  shape.Width,
			Height: h,
		})
	}

	return fragments
}
