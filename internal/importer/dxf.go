package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// DeleteLayerMarker marks DXF layers whose rectangles are delete operations.
const DeleteLayerMarker = "DELETE"

// chainTolerance is the maximum endpoint gap when joining LINEs.
const chainTolerance = 0.01

// segment is a line segment between two points, used for chaining loose
// LINE entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ImportDXF imports operations from a DXF file. Each closed LWPOLYLINE, and
// each chain of LINEs on one layer, that traces an axis-aligned rectangle
// becomes an operation. Shapes on a layer whose name contains DELETE become
// delete operations; everything else is added.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	segments := make(map[string][]segment)
	var layers []string
	shape := 0

	for _, ent := range entities {
		layer := layerName(ent)
		switch e := ent.(type) {
		case *entity.LwPolyline:
			shape++
			pts := make([]model.Point2D, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				pts = append(pts, model.Point2D{X: v[0], Y: v[1]})
			}
			addShape(&result, pts, layer, fmt.Sprintf("Shape %d", shape))

		case *entity.Line:
			if _, ok := segments[layer]; !ok {
				layers = append(layers, layer)
			}
			segments[layer] = append(segments[layer], segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, layer := range layers {
		for _, chain := range chainSegments(segments[layer], chainTolerance) {
			shape++
			addShape(&result, chain, layer, fmt.Sprintf("Shape %d", shape))
		}
	}

	if len(result.Ops) == 0 {
		result.Errors = append(result.Errors, "No rectangles found in DXF file")
	}
	return result
}

func addShape(result *ImportResult, pts []model.Point2D, layer, source string) {
	r, ok := outlineRect(pts)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: Skipped shape on layer %q that is not an axis-aligned rectangle", source, layer))
		return
	}
	kind := OpAdd
	if strings.Contains(strings.ToUpper(layer), DeleteLayerMarker) {
		kind = OpDelete
	}
	result.Ops = append(result.Ops, Operation{Kind: kind, Rect: r, Source: source})
}

func layerName(e entity.Entity) string {
	l := e.Layer()
	if l == nil {
		return "0"
	}
	return l.Name()
}

// outlineRect returns the rectangle traced by pts when every point lies on a
// corner of the bounding box and all four corners are visited.
func outlineRect(pts []model.Point2D) (model.Rect, bool) {
	if len(pts) > 1 && pointsClose(pts[0], pts[len(pts)-1], chainTolerance) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) != 4 {
		return model.Rect{}, false
	}

	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		xMin, yMin = math.Min(xMin, p.X), math.Min(yMin, p.Y)
		xMax, yMax = math.Max(xMax, p.X), math.Max(yMax, p.Y)
	}
	bounds := model.RectFromMinMax(xMin, yMin, xMax, yMax)
	if !bounds.IsValid() {
		return model.Rect{}, false
	}

	corners := []model.Point2D{{X: xMin, Y: yMin}, {X: xMax, Y: yMin}, {X: xMax, Y: yMax}, {X: xMin, Y: yMax}}
	seen := make([]bool, len(corners))
	for _, p := range pts {
		matched := false
		for i, c := range corners {
			if pointsClose(p, c, chainTolerance) {
				seen[i] = true
				matched = true
			}
		}
		if !matched {
			return model.Rect{}, false
		}
	}
	for _, s := range seen {
		if !s {
			return model.Rect{}, false
		}
	}
	// Consecutive points must differ in exactly one coordinate.
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if math.Abs(a.X-b.X) > chainTolerance && math.Abs(a.Y-b.Y) > chainTolerance {
			return model.Rect{}, false
		}
	}
	return bounds, true
}

// chainSegments connects individual segments into outlines. A chain stops
// growing once it returns to its first point, so outlines that share a corner
// stay separate. tolerance is the maximum distance between endpoints to
// consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]model.Point2D {
	used := make([]bool, len(segs))
	var outlines [][]model.Point2D

	for start := range segs {
		if used[start] {
			continue
		}
		chain := []model.Point2D{segs[start].start, segs[start].end}
		used[start] = true

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			if len(chain) > 3 && pointsClose(tail, chain[0], tolerance) {
				break
			}
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}
	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
