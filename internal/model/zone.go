package model

import (
	"time"

	"github.com/google/uuid"
)

// ZoneSummary describes one distinct area for reporting and export.
type ZoneSummary struct {
	ID      int     `json:"id"`      // Group id of the area (opaque, stable until the next mutation)
	Index   int     `json:"index"`   // Position of the area in first-observed order
	Rects   []Rect  `json:"rects"`   // Disjoint rectangles making up the area
	Squares int     `json:"squares"` // Grid squares covered, truncated per rectangle
	Bounds  Rect    `json:"bounds"`  // Bounding box of all rectangles
	Area    float64 `json:"area"`    // Raw area in square world units
}

// TotalSquares sums the grid squares of every zone.
func TotalSquares(zones []ZoneSummary) int {
	total := 0
	for _, z := range zones {
		total += z.Squares
	}
	return total
}

// AssignedRect pairs a live rectangle with its group id.
type AssignedRect struct {
	Rect  Rect `json:"rect"`
	Group int  `json:"group"`
}

// LayoutSnapshot captures the full state of a zone manager so that it can be
// restored exactly, including group ids and the id counter.
type LayoutSnapshot struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"` // Human-readable description (e.g. "Add Zone")
	CreatedAt string         `json:"created_at"`
	GridSize  float64        `json:"grid_size"`
	Rects     []AssignedRect `json:"rects"` // In partition insertion order
	NextGroup int            `json:"next_group"`
}

// NewLayoutSnapshot creates a labelled snapshot with a fresh short id.
func NewLayoutSnapshot(label string, gridSize float64, rects []AssignedRect, nextGroup int) LayoutSnapshot {
	cp := make([]AssignedRect, len(rects))
	copy(cp, rects)
	return LayoutSnapshot{
		ID:        uuid.New().String()[:8],
		Label:     label,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		GridSize:  gridSize,
		Rects:     cp,
		NextGroup: nextGroup,
	}
}
