package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ZonePlanner/internal/model"
)

func TestNew_RejectsBadCellSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-2)
	assert.Error(t, err)

	g, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, g.CellSize)
}

func TestNearestCorner(t *testing.T) {
	g := Grid{CellSize: 1}

	tests := []struct {
		in, want model.Point2D
	}{
		{model.Point2D{X: 0.2, Y: 0.7}, model.Point2D{X: 0, Y: 1}},
		{model.Point2D{X: 2.5, Y: -0.4}, model.Point2D{X: 3, Y: 0}},
		{model.Point2D{X: -1.6, Y: 4}, model.Point2D{X: -2, Y: 4}},
	}
	for _, tt := range tests {
		if got := g.NearestCorner(tt.in); got != tt.want {
			t.Errorf("NearestCorner(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNearestCorner_Origin(t *testing.T) {
	g := Grid{CellSize: 2, Origin: model.Point2D{X: 1, Y: 1}}
	assert.Equal(t, model.Point2D{X: 3, Y: -1}, g.NearestCorner(model.Point2D{X: 3.9, Y: -0.5}))
}

func TestRectFromCorners(t *testing.T) {
	g := Grid{CellSize: 1}

	r := g.RectFromCorners(model.Point2D{X: 3.8, Y: 0.1}, model.Point2D{X: 1.2, Y: 2.4})
	assert.Equal(t, model.NewRect(1, 0, 3, 2), r)

	flat := g.RectFromCorners(model.Point2D{X: 1.1, Y: 1}, model.Point2D{X: 0.9, Y: 5})
	assert.Zero(t, flat.Width)
}

func TestCell(t *testing.T) {
	g := Grid{CellSize: 2}
	assert.Equal(t, model.NewRect(2, -2, 2, 2), g.Cell(model.Point2D{X: 3.5, Y: -0.1}))
}

func TestLines(t *testing.T) {
	g := Grid{CellSize: 1}
	xs, ys := g.Lines(model.NewRect(0, 0, 3, 2))

	assert.Equal(t, []float64{0, 1, 2, 3}, xs)
	assert.Equal(t, []float64{0, 1, 2}, ys)
}

func TestLinesNonBinaryCellSize(t *testing.T) {
	g := Grid{CellSize: 0.1}
	xs, ys := g.Lines(model.NewRect(0, 0, 1, 0.3))

	assert.Len(t, xs, 11)
	assert.Equal(t, 1.0, xs[10])
	assert.Len(t, ys, 4, "0.3 is a grid line even though 3*0.1 != 0.3")
}
