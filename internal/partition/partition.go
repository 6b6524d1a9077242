// Package partition implements a union-find over rectangles.
//
// Groups are flat labels: every rectangle maps directly to an integer group
// id and a union relabels every member of one group. There are no parent
// trees, which is what lets Isolate pull a single rectangle out of its group
// without disturbing the others. Union and Isolate are O(n).
package partition

import (
	"errors"
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/model"
)

var (
	// ErrDuplicateKey is returned when adding a rectangle that is already present.
	ErrDuplicateKey = errors.New("rectangle already present")
	// ErrNotFound is returned when operating on a rectangle that is not present.
	ErrNotFound = errors.New("rectangle not found")
)

// Partition maps rectangles to group ids.
// It is not safe for concurrent use.
type Partition struct {
	ids    map[model.Rect]int
	order  []model.Rect // insertion order of live keys
	nextID int
}

// New creates an empty partition. The first id handed out is 1.
func New() *Partition {
	return &Partition{
		ids:    make(map[model.Rect]int),
		nextID: 1,
	}
}

// Len returns the number of rectangles in the partition.
func (p *Partition) Len() int {
	return len(p.order)
}

// Contains reports whether r is in the partition.
func (p *Partition) Contains(r model.Rect) bool {
	_, ok := p.ids[r]
	return ok
}

// NextID returns the id the next Add or Isolate will hand out.
func (p *Partition) NextID() int {
	return p.nextID
}

// Add inserts r in a group of its own.
func (p *Partition) Add(r model.Rect) error {
	if _, ok := p.ids[r]; ok {
		return fmt.Errorf("add %v: %w", r, ErrDuplicateKey)
	}
	p.ids[r] = p.nextID
	p.nextID++
	p.order = append(p.order, r)
	return nil
}

// Remove deletes r from the partition. Other members of its group keep
// their id.
func (p *Partition) Remove(r model.Rect) error {
	if _, ok := p.ids[r]; !ok {
		return fmt.Errorf("remove %v: %w", r, ErrNotFound)
	}
	delete(p.ids, r)
	for i, k := range p.order {
		if k == r {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// Root returns the group id of r.
func (p *Partition) Root(r model.Rect) (int, error) {
	id, ok := p.ids[r]
	if !ok {
		return 0, fmt.Errorf("root %v: %w", r, ErrNotFound)
	}
	return id, nil
}

// Connected reports whether a and b share a group.
func (p *Partition) Connected(a, b model.Rect) (bool, error) {
	ra, err := p.Root(a)
	if err != nil {
		return false, err
	}
	rb, err := p.Root(b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}

// Union moves every member of a's group into b's group.
func (p *Partition) Union(a, b model.Rect) error {
	aid, err := p.Root(a)
	if err != nil {
		return fmt.Errorf("union: %w", err)
	}
	bid, err := p.Root(b)
	if err != nil {
		return fmt.Errorf("union: %w", err)
	}
	if aid == bid {
		return nil
	}
	for _, k := range p.order {
		if p.ids[k] == aid {
			p.ids[k] = bid
		}
	}
	return nil
}

// Isolate gives r a brand-new group id, removing it from its current group.
// The remaining members keep their shared id.
func (p *Partition) Isolate(r model.Rect) error {
	if _, ok := p.ids[r]; !ok {
		return fmt.Errorf("isolate %v: %w", r, ErrNotFound)
	}
	p.ids[r] = p.nextID
	p.nextID++
	return nil
}

// Keys returns every rectangle in insertion order. The slice is a copy and
// may be iterated while the partition is mutated.
func (p *Partition) Keys() []model.Rect {
	keys := make([]model.Rect, len(p.order))
	copy(keys, p.order)
	return keys
}

// MembersOfGroup returns the rectangles carrying the given group id.
func (p *Partition) MembersOfGroup(id int) []model.Rect {
	var members []model.Rect
	for _, k := range p.order {
		if p.ids[k] == id {
			members = append(members, k)
		}
	}
	return members
}

// MembersOfZone returns every rectangle in the same group as r, r included.
func (p *Partition) MembersOfZone(r model.Rect) ([]model.Rect, error) {
	id, err := p.Root(r)
	if err != nil {
		return nil, err
	}
	return p.MembersOfGroup(id), nil
}

// DistinctGroupIDs returns each group id once, in the order it is first seen
// while walking the keys in insertion order.
func (p *Partition) DistinctGroupIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, k := range p.order {
		id := p.ids[k]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// GroupCount returns the number of distinct groups.
func (p *Partition) GroupCount() int {
	return len(p.DistinctGroupIDs())
}

// GroupedByZone partitions every key by group id. Groups appear in
// first-seen order and members in insertion order.
func (p *Partition) GroupedByZone() [][]model.Rect {
	index := make(map[int]int)
	var groups [][]model.Rect
	for _, k := range p.order {
		id := p.ids[k]
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], k)
	}
	return groups
}

// Assignments returns every rectangle with its group id, in insertion order.
func (p *Partition) Assignments() []model.AssignedRect {
	out := make([]model.AssignedRect, len(p.order))
	for i, k := range p.order {
		out[i] = model.AssignedRect{Rect: k, Group: p.ids[k]}
	}
	return out
}

// Load replaces the partition contents with the given assignments and id
// counter. nextID is raised above every loaded id so fresh ids never collide.
func (p *Partition) Load(assignments []model.AssignedRect, nextID int) error {
	ids := make(map[model.Rect]int, len(assignments))
	order := make([]model.Rect, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := ids[a.Rect]; ok {
			return fmt.Errorf("load %v: %w", a.Rect, ErrDuplicateKey)
		}
		ids[a.Rect] = a.Group
		order = append(order, a.Rect)
		if a.Group >= nextID {
			nextID = a.Group + 1
		}
	}
	if nextID < 1 {
		nextID = 1
	}
	p.ids = ids
	p.order = order
	p.nextID = nextID
	return nil
}
