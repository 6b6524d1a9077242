package zone

import (
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/piwi3910/ZonePlanner/internal/partition"
)

// Snapshot captures the current layout, including area ids, so that Restore
// can bring it back exactly.
func (m *Manager) Snapshot(label string) model.LayoutSnapshot {
	return model.NewLayoutSnapshot(label, m.tolerance, m.uf.Assignments(), m.uf.NextID())
}

// Restore replaces the layout with a snapshot taken from a manager with the
// same grid size.
func (m *Manager) Restore(s model.LayoutSnapshot) error {
	if s.GridSize != m.tolerance {
		return fmt.Errorf("restore %q (grid %g, manager %g): %w", s.Label, s.GridSize, m.tolerance, ErrGridMismatch)
	}
	uf := partition.New()
	if err := uf.Load(s.Rects, s.NextGroup); err != nil {
		return fmt.Errorf("restore %q: %w", s.Label, err)
	}
	m.uf = uf
	m.log.WithField("label", s.Label).WithField("rects", uf.Len()).Debug("layout restored")
	m.notify(OpRestore, model.Rect{})
	return nil
}
