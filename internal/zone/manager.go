// Package zone keeps a set of disjoint rectangles and groups them into
// distinct areas by adjacency.
//
// Rectangles added later take precedence: an added rectangle carves its
// footprint out of every rectangle it overlaps, and the leftover pieces are
// reinserted as new rectangles. Rectangles that touch along an edge belong to
// the same area.
package zone

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ZonePlanner/internal/applog"
	"github.com/piwi3910/ZonePlanner/internal/geometry"
	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/piwi3910/ZonePlanner/internal/partition"
)

// NoArea is returned by AreaPointIsIn when no rectangle contains the point.
const NoArea = -1

// MinSquares is the smallest size, in grid squares, a rectangle must have to
// be stored.
const MinSquares = 1.0

const squareEpsilon = 1e-9

var (
	// ErrInvalidRectangle is returned for rectangles with non-positive or
	// non-finite extents.
	ErrInvalidRectangle = errors.New("invalid rectangle")
	// ErrInvalidGridSize is returned for a grid size that is not a positive
	// finite number.
	ErrInvalidGridSize = errors.New("invalid grid size")
	// ErrGridMismatch is returned when restoring a snapshot taken with a
	// different grid size.
	ErrGridMismatch = errors.New("snapshot grid size does not match")
)

// Op identifies the mutation reported to observers.
type Op string

const (
	OpAdd     Op = "add"
	OpDelete  Op = "delete"
	OpRestore Op = "restore"
	OpClear   Op = "clear"
)

// Change describes a completed mutation.
type Change struct {
	Op      Op
	Rect    model.Rect // Rectangle passed to AddRect or DeleteRect
	Areas   int        // Distinct areas after the mutation
	Rects   int        // Live rectangles after the mutation
	Squares int        // Total grid squares after the mutation
}

// Observer is called synchronously at the end of every mutation that changed
// the layout.
type Observer func(Change)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.OnChange(o)
	}
}

// Manager owns the live rectangles and their area grouping.
//
// A Manager is not safe for concurrent use. Every mutation runs to
// completion before returning.
type Manager struct {
	tolerance float64
	uf        *partition.Partition
	log       logrus.FieldLogger
	observers []Observer
}

// NewManager creates an empty manager. gridSize is the grid cell size: it
// sets the touching tolerance and the unit for every size comparison.
func NewManager(gridSize float64, opts ...Option) (*Manager, error) {
	if gridSize <= 0 || math.IsNaN(gridSize) || math.IsInf(gridSize, 0) {
		return nil, fmt.Errorf("grid size %g: %w", gridSize, ErrInvalidGridSize)
	}
	m := &Manager{
		tolerance: gridSize,
		uf:        partition.New(),
		log:       applog.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// GridSize returns the grid cell size the manager was created with.
func (m *Manager) GridSize() float64 {
	return m.tolerance
}

// OnChange registers an observer.
func (m *Manager) OnChange(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// AddRect adds r to the layout. It returns false without error when r is
// smaller than one grid square or is already stored.
func (m *Manager) AddRect(r model.Rect) (bool, error) {
	if !r.IsValid() {
		return false, fmt.Errorf("add %v: %w", r, ErrInvalidRectangle)
	}
	if m.squares(r) < MinSquares {
		m.log.WithField("rect", r).Debug("rect below minimum size, ignored")
		return false, nil
	}
	if m.uf.Contains(r) {
		m.log.WithField("rect", r).Debug("rect already present, ignored")
		return false, nil
	}

	if _, err := m.settle(r, true); err != nil {
		return false, fmt.Errorf("add %v: %w", r, err)
	}

	m.log.WithFields(logrus.Fields{
		"rect":  r,
		"rects": m.uf.Len(),
		"areas": m.uf.GroupCount(),
	}).Debug("rect added")
	m.notify(OpAdd, r)
	return true, nil
}

// DeleteRect removes area from every rectangle it overlaps and regroups the
// areas that bordered it. It returns true when any rectangle was cut.
func (m *Manager) DeleteRect(area model.Rect) (bool, error) {
	if !area.IsValid() {
		return false, fmt.Errorf("delete %v: %w", area, ErrInvalidRectangle)
	}

	carved, err := m.settle(area, false)
	if err != nil {
		return false, fmt.Errorf("delete %v: %w", area, err)
	}

	// Removing a connecting piece can split an area in two, which unions
	// alone cannot express. Every zone bordering the deleted area is rebuilt.
	rebuilt := make(map[model.Rect]bool)
	for _, r := range m.uf.Keys() {
		if rebuilt[r] || !geometry.IsTouching(r, area, m.tolerance) {
			continue
		}
		members, err := m.uf.MembersOfZone(r)
		if err != nil {
			return false, m.internal("delete", err)
		}
		if err := m.recalculateUnions(members); err != nil {
			return false, m.internal("delete", err)
		}
		for _, member := range members {
			rebuilt[member] = true
		}
	}

	if carved == 0 {
		return false, nil
	}
	m.log.WithFields(logrus.Fields{
		"area":   area,
		"carved": carved,
		"rects":  m.uf.Len(),
		"areas":  m.uf.GroupCount(),
	}).Debug("area deleted")
	m.notify(OpDelete, area)
	return true, nil
}

// Clear removes every rectangle.
func (m *Manager) Clear() {
	if m.uf.Len() == 0 {
		return
	}
	m.uf = partition.New()
	m.log.Debug("layout cleared")
	m.notify(OpClear, model.Rect{})
}

// job is a pending rectangle in the settle worklist. A job either inserts its
// rectangle first or only cuts it out of the rectangles it overlaps.
type job struct {
	rect   model.Rect
	insert bool
}

// settle runs the cutout flow starting from rect: rect is optionally
// inserted, cut out of every live rectangle it overlaps, and the leftover
// fragments are inserted through the same path. Fragments of one rectangle
// are finally unioned with each other where they touch. It returns the number
// of rectangles that were cut.
//
// The flow is driven by an explicit stack rather than recursion. Fragments
// are pushed in reverse so they are inserted in cutout order.
func (m *Manager) settle(rect model.Rect, insert bool) (int, error) {
	stack := []job{{rect: rect, insert: insert}}
	var families [][]model.Rect
	carved := 0

	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if j.insert {
			ok, err := m.insert(j.rect)
			if err != nil {
				return carved, err
			}
			if !ok {
				continue
			}
		}

		for _, victim := range m.uf.Keys() {
			if (j.insert && victim == j.rect) || !m.uf.Contains(victim) {
				continue
			}
			if geometry.OverlapSize(victim, j.rect, m.tolerance) <= 0 {
				continue
			}
			fragments := geometry.Cutout(victim, j.rect, m.tolerance)
			if err := m.uf.Remove(victim); err != nil {
				return carved, m.internal("cutout", err)
			}
			carved++
			m.log.WithFields(logrus.Fields{
				"victim":    victim,
				"cutter":    j.rect,
				"fragments": len(fragments),
			}).Debug("rect cut")

			families = append(families, fragments)
			for i := len(fragments) - 1; i >= 0; i-- {
				stack = append(stack, job{rect: fragments[i], insert: true})
			}
		}
	}

	for _, fragments := range families {
		if err := m.unionSiblings(fragments); err != nil {
			return carved, err
		}
	}
	return carved, nil
}

// insert stores r in an area of its own and joins it to every rectangle it
// touches. Rectangles below the minimum size or already present are skipped.
func (m *Manager) insert(r model.Rect) (bool, error) {
	if m.squares(r) < MinSquares || m.uf.Contains(r) {
		return false, nil
	}
	if err := m.uf.Add(r); err != nil {
		return false, m.internal("insert", err)
	}
	if err := m.calculateUnions(r); err != nil {
		return false, err
	}
	return true, nil
}

// calculateUnions joins r with every live rectangle touching it.
func (m *Manager) calculateUnions(r model.Rect) error {
	for _, other := range m.uf.Keys() {
		if other == r || !geometry.IsTouching(other, r, m.tolerance) {
			continue
		}
		if err := m.uf.Union(r, other); err != nil {
			return m.internal("union", err)
		}
	}
	return nil
}

// recalculateUnions splits every rectangle of a zone into its own area and
// then rejoins the ones that still touch.
func (m *Manager) recalculateUnions(members []model.Rect) error {
	for _, r := range members {
		if err := m.uf.Isolate(r); err != nil {
			return err
		}
	}
	for _, r := range members {
		if err := m.calculateUnions(r); err != nil {
			return err
		}
	}
	return nil
}

// unionSiblings joins the surviving fragments of one cut rectangle where
// they touch, so splitting a rectangle never disconnects it from itself.
func (m *Manager) unionSiblings(fragments []model.Rect) error {
	for i, a := range fragments {
		if !m.uf.Contains(a) {
			continue
		}
		for _, b := range fragments[i+1:] {
			if !m.uf.Contains(b) || !geometry.IsTouching(a, b, m.tolerance) {
				continue
			}
			if err := m.uf.Union(a, b); err != nil {
				return m.internal("union", err)
			}
		}
	}
	return nil
}

// squares returns the whole grid squares r covers. Sizes within
// squareEpsilon below an integer count as that integer, so fragments whose
// edges picked up rounding noise (3*0.1 != 0.3) are not shortchanged.
func (m *Manager) squares(r model.Rect) float64 {
	return math.Floor(geometry.NormalizedSize(r, m.tolerance) + squareEpsilon)
}

// internal logs and wraps partition failures. They only occur if the
// manager's own bookkeeping is wrong.
func (m *Manager) internal(step string, err error) error {
	m.log.WithError(err).WithField("step", step).Error("zone partition out of sync")
	return fmt.Errorf("%s: %w", step, err)
}

func (m *Manager) notify(op Op, r model.Rect) {
	if len(m.observers) == 0 {
		return
	}
	c := Change{
		Op:      op,
		Rect:    r,
		Areas:   m.DistinctAreas(),
		Rects:   m.uf.Len(),
		Squares: m.SizeOfAllRects(),
	}
	for _, o := range m.observers {
		o(c)
	}
}
