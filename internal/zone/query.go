package zone

import (
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/geometry"
	"github.com/piwi3910/ZonePlanner/internal/model"
)

// Len returns the number of live rectangles.
func (m *Manager) Len() int {
	return m.uf.Len()
}

// Rects returns the live rectangles in insertion order.
func (m *Manager) Rects() []model.Rect {
	return m.uf.Keys()
}

// DistinctAreas returns the number of distinct areas.
func (m *Manager) DistinctAreas() int {
	return m.uf.GroupCount()
}

// AreaPointIsIn returns the id of the area containing p, or NoArea.
// Ids are opaque and only stable until the next mutation.
func (m *Manager) AreaPointIsIn(p model.Point2D) int {
	for _, r := range m.uf.Keys() {
		if geometry.Contains(r, p) {
			id, err := m.uf.Root(r)
			if err != nil {
				return NoArea
			}
			return id
		}
	}
	return NoArea
}

// SizeOfAllRects returns the number of grid squares covered. Each
// rectangle's size is truncated before summing.
func (m *Manager) SizeOfAllRects() int {
	total := 0
	for _, r := range m.uf.Keys() {
		total += int(m.squares(r))
	}
	return total
}

// DistinctZoneRects returns the rectangles of each area, areas in the order
// their ids are first observed.
func (m *Manager) DistinctZoneRects() [][]model.Rect {
	return m.uf.GroupedByZone()
}

// Summaries describes every area for reporting.
func (m *Manager) Summaries() []model.ZoneSummary {
	ids := m.uf.DistinctGroupIDs()
	summaries := make([]model.ZoneSummary, 0, len(ids))
	for i, id := range ids {
		rects := m.uf.MembersOfGroup(id)
		s := model.ZoneSummary{
			ID:     id,
			Index:  i,
			Rects:  rects,
			Bounds: model.Bounds(rects),
		}
		for _, r := range rects {
			s.Squares += int(m.squares(r))
			s.Area += r.Area()
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Validate checks that no two live rectangles overlap by a positive number
// of grid squares.
func (m *Manager) Validate() error {
	rects := m.uf.Keys()
	for i, a := range rects {
		for _, b := range rects[i+1:] {
			if size := geometry.OverlapSize(a, b, m.tolerance); size > 0 {
				return fmt.Errorf("rects %v and %v overlap by %g squares", a, b, size)
			}
		}
	}
	return nil
}
