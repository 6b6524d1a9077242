package zone

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ZonePlanner/internal/applog"
	"github.com/piwi3910/ZonePlanner/internal/model"
)

func newManager(t *testing.T, rects ...model.Rect) *Manager {
	t.Helper()
	m, err := NewManager(1)
	require.NoError(t, err)
	for _, r := range rects {
		ok, err := m.AddRect(r)
		require.NoError(t, err)
		require.True(t, ok, "add %v", r)
	}
	return m
}

func TestNewManager_InvalidGridSize(t *testing.T) {
	for _, g := range []float64{0, -1} {
		_, err := NewManager(g)
		assert.ErrorIs(t, err, ErrInvalidGridSize)
	}
}

func TestTouchingRectsShareArea(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(2, 0, 2, 2))

	assert.Equal(t, 1, m.DistinctAreas())
	assert.Equal(t, 8, m.SizeOfAllRects())
	assert.NoError(t, m.Validate())
}

func TestSeparateRectsFormTwoAreas(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(5, 5, 2, 2))

	assert.Equal(t, 2, m.DistinctAreas())
	assert.Len(t, m.DistinctZoneRects(), 2)
}

func TestCornerContactIsNotTouching(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(2, 2, 2, 2))
	assert.Equal(t, 2, m.DistinctAreas())
}

func TestOverlappingAddCarvesOlderRect(t *testing.T) {
	a := model.NewRect(0, 0, 4, 4)
	b := model.NewRect(2, 2, 4, 4)
	m := newManager(t, a, b)

	assert.NoError(t, m.Validate())
	assert.Equal(t, 28, m.SizeOfAllRects(), "union of two 4x4 squares overlapping by 2x2")
	assert.Equal(t, 1, m.DistinctAreas())
	assert.ElementsMatch(t, []model.Rect{
		b,
		model.NewRect(0, 0, 4, 2),
		model.NewRect(0, 2, 2, 2),
	}, m.Rects())
}

func TestAddCoveringRectReplacesOlder(t *testing.T) {
	m := newManager(t, model.NewRect(1, 1, 2, 2), model.NewRect(0, 0, 4, 4))

	assert.Equal(t, []model.Rect{model.NewRect(0, 0, 4, 4)}, m.Rects())
	assert.Equal(t, 16, m.SizeOfAllRects())
}

func TestAddInsideOlderRectSplitsIt(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 6, 6), model.NewRect(2, 2, 2, 2))

	assert.NoError(t, m.Validate())
	assert.Equal(t, 5, m.Len(), "inner rect plus four fragments")
	assert.Equal(t, 36, m.SizeOfAllRects())
	assert.Equal(t, 1, m.DistinctAreas())
}

func TestAddBridgesTwoAreas(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(4, 0, 2, 2))
	require.Equal(t, 2, m.DistinctAreas())

	ok, err := m.AddRect(model.NewRect(1, 0, 4, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, m.DistinctAreas())
	assert.NoError(t, m.Validate())
}

func TestDeleteConnectingStripSplitsArea(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(2, 0, 2, 2))
	require.Equal(t, 1, m.DistinctAreas())

	ok, err := m.DeleteRect(model.NewRect(1, 0, 2, 2))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 2, m.DistinctAreas())
	assert.ElementsMatch(t, []model.Rect{
		model.NewRect(0, 0, 1, 2),
		model.NewRect(3, 0, 1, 2),
	}, m.Rects())
	assert.Equal(t, 4, m.SizeOfAllRects())
}

func TestDeleteMiddleOfChainSplitsDistantMembers(t *testing.T) {
	m := newManager(t,
		model.NewRect(0, 0, 2, 1),
		model.NewRect(2, 0, 2, 1),
		model.NewRect(4, 0, 2, 1),
		model.NewRect(0, 1, 2, 1),
	)
	require.Equal(t, 1, m.DistinctAreas())

	_, err := m.DeleteRect(model.NewRect(2, 0, 2, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, m.DistinctAreas())
	left := m.AreaPointIsIn(model.Point2D{X: 0.5, Y: 1.5})
	right := m.AreaPointIsIn(model.Point2D{X: 4.5, Y: 0.5})
	assert.NotEqual(t, left, right)
	assert.Equal(t, left, m.AreaPointIsIn(model.Point2D{X: 1.5, Y: 0.5}))
}

func TestDeleteExactlyMatchingRect(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2), model.NewRect(5, 0, 2, 2))

	ok, err := m.DeleteRect(model.NewRect(0, 0, 2, 2))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []model.Rect{model.NewRect(5, 0, 2, 2)}, m.Rects())
	assert.Equal(t, 1, m.DistinctAreas())
	assert.Equal(t, 4, m.SizeOfAllRects())
}

func TestNonBinaryGridSizeCountsWholeSquares(t *testing.T) {
	m, err := NewManager(0.1)
	require.NoError(t, err)

	// 0.3/0.1 is 2.9999999999999996 in floating point.
	ok, err := m.AddRect(model.NewRect(0, 0, 0.3, 0.3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9, m.SizeOfAllRects())

	ok, err = m.DeleteRect(model.NewRect(0.1, 0, 0.1, 0.3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, m.SizeOfAllRects())
	assert.Equal(t, 2, m.DistinctAreas())
	assert.Equal(t, 6, model.TotalSquares(m.Summaries()))
}

func TestDeleteWholeRect(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2))

	ok, err := m.DeleteRect(model.NewRect(-1, -1, 4, 4))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, m.Len())
	assert.Zero(t, m.DistinctAreas())
}

func TestDeleteEmptySpace(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2))

	ok, err := m.DeleteRect(model.NewRect(10, 10, 2, 2))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestAddBelowOneSquareIsIgnored(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2))

	ok, err := m.AddRect(model.NewRect(5, 5, 0.5, 0.5))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.DistinctAreas())
}

func TestAddDuplicateIsIgnored(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2))

	ok, err := m.AddRect(model.NewRect(0, 0, 2, 2))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestInvalidRects(t *testing.T) {
	m := newManager(t)

	_, err := m.AddRect(model.NewRect(0, 0, -2, 2))
	assert.ErrorIs(t, err, ErrInvalidRectangle)
	_, err = m.DeleteRect(model.NewRect(0, 0, 0, 2))
	assert.ErrorIs(t, err, ErrInvalidRectangle)
}

func TestGridSizeScalesSquares(t *testing.T) {
	m, err := NewManager(2)
	require.NoError(t, err)

	ok, err := m.AddRect(model.NewRect(0, 0, 4, 4))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, m.SizeOfAllRects())

	ok, err = m.AddRect(model.NewRect(10, 10, 1, 2))
	require.NoError(t, err)
	assert.False(t, ok, "half a square at grid size 2")
}

func TestAreaPointIsIn(t *testing.T) {
	m := newManager(t,
		model.NewRect(0, 0, 2, 2),
		model.NewRect(2, 0, 2, 2),
		model.NewRect(10, 10, 1, 1),
	)

	left := m.AreaPointIsIn(model.Point2D{X: 1, Y: 1})
	right := m.AreaPointIsIn(model.Point2D{X: 3, Y: 1})
	far := m.AreaPointIsIn(model.Point2D{X: 10.5, Y: 10.5})

	assert.NotEqual(t, NoArea, left)
	assert.Equal(t, left, right)
	assert.NotEqual(t, left, far)
	assert.Equal(t, NoArea, m.AreaPointIsIn(model.Point2D{X: 6, Y: 6}))
	assert.Equal(t, NoArea, m.AreaPointIsIn(model.Point2D{X: 4, Y: 1}), "max edge is exclusive")
}

func TestSummaries(t *testing.T) {
	m := newManager(t,
		model.NewRect(0, 0, 2, 2),
		model.NewRect(2, 0, 1, 2),
		model.NewRect(10, 0, 3, 1),
	)

	summaries := m.Summaries()
	require.Len(t, summaries, 2)

	assert.Equal(t, 0, summaries[0].Index)
	assert.Equal(t, 6, summaries[0].Squares)
	assert.Equal(t, model.NewRect(0, 0, 3, 2), summaries[0].Bounds)
	assert.Equal(t, 3, summaries[1].Squares)
	assert.Equal(t, m.SizeOfAllRects(), model.TotalSquares(summaries))
}

func TestObserversSeeEveryChange(t *testing.T) {
	var changes []Change
	m, err := NewManager(1, WithObserver(func(c Change) {
		changes = append(changes, c)
	}))
	require.NoError(t, err)

	_, _ = m.AddRect(model.NewRect(0, 0, 2, 2))
	_, _ = m.AddRect(model.NewRect(0, 0, 2, 2))
	_, _ = m.AddRect(model.NewRect(0, 0, 0.5, 0.5))
	_, _ = m.AddRect(model.NewRect(5, 0, 2, 2))
	_, _ = m.DeleteRect(model.NewRect(20, 20, 1, 1))
	_, _ = m.DeleteRect(model.NewRect(5, 0, 2, 2))
	m.Clear()
	m.Clear()

	require.Len(t, changes, 4, "no-op mutations do not notify")
	assert.Equal(t, Change{Op: OpAdd, Rect: model.NewRect(0, 0, 2, 2), Areas: 1, Rects: 1, Squares: 4}, changes[0])
	assert.Equal(t, 2, changes[1].Areas)
	assert.Equal(t, OpDelete, changes[2].Op)
	assert.Equal(t, 1, changes[2].Areas)
	assert.Equal(t, Change{Op: OpClear}, changes[3])
}

func TestSnapshotRestore(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 4, 4), model.NewRect(2, 2, 4, 4), model.NewRect(10, 0, 1, 1))
	snap := m.Snapshot("before")
	zones := m.DistinctZoneRects()
	point := m.AreaPointIsIn(model.Point2D{X: 0.5, Y: 0.5})

	_, err := m.AddRect(model.NewRect(0, 0, 20, 20))
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	var restored []Change
	m.OnChange(func(c Change) { restored = append(restored, c) })
	require.NoError(t, m.Restore(snap))

	assert.Equal(t, zones, m.DistinctZoneRects())
	assert.Equal(t, point, m.AreaPointIsIn(model.Point2D{X: 0.5, Y: 0.5}))
	require.Len(t, restored, 1)
	assert.Equal(t, OpRestore, restored[0].Op)

	ok, err := m.AddRect(model.NewRect(20, 20, 1, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, m.DistinctAreas(), "fresh ids do not collide with restored ones")
}

func TestRestore_GridMismatch(t *testing.T) {
	m := newManager(t, model.NewRect(0, 0, 2, 2))
	other, err := NewManager(2)
	require.NoError(t, err)

	assert.ErrorIs(t, other.Restore(m.Snapshot("x")), ErrGridMismatch)
}

func TestLoggerReceivesMutations(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewManager(1, WithLogger(applog.NewWithOutput(&buf, "debug")))
	require.NoError(t, err)

	_, _ = m.AddRect(model.NewRect(0, 0, 2, 2))
	_, _ = m.DeleteRect(model.NewRect(0, 0, 1, 1))

	out := buf.String()
	if !strings.Contains(out, "rect added") {
		t.Errorf("expected add to be logged, got %q", out)
	}
	if !strings.Contains(out, "area deleted") {
		t.Errorf("expected delete to be logged, got %q", out)
	}
}

// coverage tracks which grid cells are covered, independently of the manager.
type coverage [16][16]bool

// set marks the cells of r, given in world units on a grid of size g.
func (c *coverage) set(r model.Rect, g float64, v bool) {
	x0, y0 := int(math.Round(r.X/g)), int(math.Round(r.Y/g))
	x1, y1 := int(math.Round(r.XMax()/g)), int(math.Round(r.YMax()/g))
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			if x >= 0 && x < 16 && y >= 0 && y < 16 {
				c[x][y] = v
			}
		}
	}
}

func (c *coverage) count() int {
	n := 0
	for x := range c {
		for y := range c[x] {
			if c[x][y] {
				n++
			}
		}
	}
	return n
}

// components counts 4-connected groups of covered cells.
func (c *coverage) components() int {
	var seen [16][16]bool
	n := 0
	for x := range c {
		for y := range c[x] {
			if !c[x][y] || seen[x][y] {
				continue
			}
			n++
			stack := [][2]int{{x, y}}
			seen[x][y] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p[0]+d[0], p[1]+d[1]
					if nx < 0 || nx >= 16 || ny < 0 || ny >= 16 {
						continue
					}
					if c[nx][ny] && !seen[nx][ny] {
						seen[nx][ny] = true
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}
		}
	}
	return n
}

func TestRandomEditsMatchCellModel(t *testing.T) {
	for _, g := range []float64{1, 0.5} {
		for seed := int64(1); seed <= 20; seed++ {
			rng := rand.New(rand.NewSource(seed))
			m, err := NewManager(g)
			require.NoError(t, err)
			var cells coverage

			for i := 0; i < 200; i++ {
				w := 1 + rng.Intn(5)
				h := 1 + rng.Intn(5)
				r := model.NewRect(float64(rng.Intn(16-w+1))*g, float64(rng.Intn(16-h+1))*g, float64(w)*g, float64(h)*g)

				switch op := rng.Intn(6); {
				case op == 0 && m.Len() > 0:
					// Delete exactly one of the stored rectangles.
					live := m.Rects()
					r = live[rng.Intn(len(live))]
					ok, err := m.DeleteRect(r)
					require.NoError(t, err)
					require.True(t, ok, "grid %g seed %d step %d: delete stored %v", g, seed, i, r)
					cells.set(r, g, false)
				case op <= 1:
					_, err := m.DeleteRect(r)
					require.NoError(t, err)
					cells.set(r, g, false)
				default:
					_, err := m.AddRect(r)
					require.NoError(t, err)
					cells.set(r, g, true)
				}

				require.NoError(t, m.Validate(), "grid %g seed %d step %d: %v", g, seed, i, r)
				require.Equal(t, cells.count(), m.SizeOfAllRects(), "grid %g seed %d step %d: squares", g, seed, i)
				require.Equal(t, cells.components(), m.DistinctAreas(), "grid %g seed %d step %d: areas", g, seed, i)
			}
		}
	}
}
