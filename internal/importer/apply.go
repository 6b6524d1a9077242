package importer

import (
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/zone"
)

// ApplyResult counts what happened when operations were replayed.
type ApplyResult struct {
	Added   int
	Deleted int
	Ignored int // Operations that did not change the layout
	Errors  []string
}

// Apply replays ops against m in order. A failing operation is reported and
// skipped; the remaining operations still run.
func Apply(m *zone.Manager, ops []Operation) ApplyResult {
	var res ApplyResult
	for _, op := range ops {
		var (
			changed bool
			err     error
		)
		switch op.Kind {
		case OpDelete:
			changed, err = m.DeleteRect(op.Rect)
		default:
			changed, err = m.AddRect(op.Rect)
		}

		switch {
		case err != nil:
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", op.Source, err))
		case !changed:
			res.Ignored++
		case op.Kind == OpDelete:
			res.Deleted++
		default:
			res.Added++
		}
	}
	return res
}
