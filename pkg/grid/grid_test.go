package grid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
)

// recorder collects events emitted by a grid.
type recorder struct {
	events []grid.Event
}

func (r *recorder) listen(e grid.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) changed() []grid.Selection {
	var out []grid.Selection
	for _, e := range r.events {
		if c, ok := e.(grid.EventSelectionChanged); ok {
			out = append(out, grid.Selection(c))
		}
	}

	return out
}

func (r *recorder) committed() []grid.Selection {
	var out []grid.Selection
	for _, e := range r.events {
		if c, ok := e.(grid.EventSelectionCommitted); ok {
			out = append(out, grid.Selection(c))
		}
	}

	return out
}

func (r *recorder) canceled() int {
	n := 0
	for _, e := range r.events {
		if _, ok := e.(grid.EventCanceled); ok {
			n++
		}
	}

	return n
}

// newGrid returns a 6x4 grid over 600x400 bounds (100px cells).
func newGrid(t *testing.T) (*grid.Grid, *recorder) {
	t.Helper()

	g, err := grid.New(6, 4, geom.R(0, 0, 600, 400))
	require.NoError(t, err)

	rec := &recorder{}
	g.Subscribe(rec.listen)

	return g, rec
}

func TestNew_InvalidArgument(t *testing.T) {
	t.Parallel()

	_, err := grid.New(0, 4, geom.R(0, 0, 600, 400))
	require.ErrorIs(t, err, geom.ErrInvalidArgument)

	_, err = grid.New(6, -1, geom.R(0, 0, 600, 400))
	require.ErrorIs(t, err, geom.ErrInvalidArgument)
}

func TestGrid_DragSelection(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		start, end geom.Point
		want       grid.Selection
	}{
		"click at origin": {
			start: geom.Pt(0, 0),
			end:   geom.Pt(0, 0),
			want:  grid.Selection{Col: 0, Row: 0, ColSpan: 0, RowSpan: 0},
		},
		"columns one to three": {
			start: geom.Pt(150, 50),
			end:   geom.Pt(350, 50),
			want:  grid.Selection{Col: 1, Row: 0, ColSpan: 2, RowSpan: 0},
		},
		"reverse drag": {
			start: geom.Pt(350, 250),
			end:   geom.Pt(150, 150),
			want:  grid.Selection{Col: 1, Row: 1, ColSpan: 2, RowSpan: 1},
		},
		"end on first pixel of next cell": {
			start: geom.Pt(0, 0),
			end:   geom.Pt(100, 0),
			want:  grid.Selection{Col: 0, Row: 0, ColSpan: 1, RowSpan: 0},
		},
		"end on last pixel of cell": {
			start: geom.Pt(0, 0),
			end:   geom.Pt(99, 99),
			want:  grid.Selection{Col: 0, Row: 0, ColSpan: 0, RowSpan: 0},
		},
		"whole grid": {
			start: geom.Pt(0, 0),
			end:   geom.Pt(599, 399),
			want:  grid.Selection{Col: 0, Row: 0, ColSpan: 5, RowSpan: 3},
		},
		"beyond bounds": {
			start: geom.Pt(-50, -50),
			end:   geom.Pt(900, 900),
			want:  grid.Selection{Col: 0, Row: 0, ColSpan: 5, RowSpan: 3},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g, rec := newGrid(t)

			g.Press(tc.start)
			assert.Equal(t, grid.StateDragging, g.State())
			assert.True(t, g.HasSelection())

			g.Move(tc.end)

			sel, ok := g.Selection()
			require.True(t, ok)
			assert.Equal(t, tc.want, sel)

			g.Release()
			assert.Equal(t, grid.StateIdle, g.State())
			assert.False(t, g.HasSelection())

			require.Equal(t, []grid.Selection{tc.want}, rec.committed())
			assert.Equal(t, tc.want, rec.changed()[len(rec.changed())-1])
		})
	}
}

func TestGrid_ChangedIsDeduplicated(t *testing.T) {
	t.Parallel()

	g, rec := newGrid(t)

	g.Press(geom.Pt(10, 10))
	g.Move(geom.Pt(20, 20))
	g.Move(geom.Pt(50, 90))
	g.Move(geom.Pt(150, 90))
	g.Move(geom.Pt(160, 95))
	g.Move(geom.Pt(40, 40))

	assert.Equal(t, []grid.Selection{
		{Col: 0, Row: 0, ColSpan: 0, RowSpan: 0},
		{Col: 0, Row: 0, ColSpan: 1, RowSpan: 0},
		{Col: 0, Row: 0, ColSpan: 0, RowSpan: 0},
	}, rec.changed())
	assert.Empty(t, rec.committed())
}

func TestGrid_DragOutsideCells(t *testing.T) {
	t.Parallel()

	g, err := grid.New(6, 4, geom.R(10, 10, 600, 400))
	require.NoError(t, err)

	rec := &recorder{}
	g.Subscribe(rec.listen)

	g.Press(geom.Pt(0, 0))
	assert.Empty(t, rec.changed())

	_, ok := g.Selection()
	assert.False(t, ok)

	g.Move(geom.Pt(20, 20))
	g.Move(geom.Pt(5, 5))

	assert.Equal(t, []grid.Selection{
		{Col: 0, Row: 0, ColSpan: 0, RowSpan: 0},
		grid.NoSelection,
	}, rec.changed())

	g.Release()
	assert.Empty(t, rec.committed())
	assert.Equal(t, grid.StateIdle, g.State())
}

func TestGrid_CancelDuringDrag(t *testing.T) {
	t.Parallel()

	g, rec := newGrid(t)

	g.Press(geom.Pt(10, 10))
	g.Move(geom.Pt(250, 250))
	g.Cancel()

	_, ok := g.Selection()
	assert.False(t, ok)
	assert.False(t, g.HasSelection())
	assert.Equal(t, 1, rec.canceled())

	// A release after cancel must not commit the discarded drag.
	g.Release()
	assert.Empty(t, rec.committed())
}

func TestGrid_CancelManualSelection(t *testing.T) {
	t.Parallel()

	g, rec := newGrid(t)

	require.NoError(t, g.SetManualSelection(grid.Selection{Col: 1, Row: 1}))
	g.Cancel()

	assert.False(t, g.HasSelection())
	assert.Equal(t, 1, rec.canceled())

	g.CommitAndClear()
	assert.Empty(t, rec.committed())
}

func TestGrid_ManualSelection(t *testing.T) {
	t.Parallel()

	sel := grid.Selection{Col: 0, Row: 1, ColSpan: 5, RowSpan: 2}

	t.Run("commit and clear", func(t *testing.T) {
		t.Parallel()

		g, rec := newGrid(t)

		require.NoError(t, g.SetManualSelection(sel))
		assert.Equal(t, grid.StateManual, g.State())
		assert.Equal(t, []grid.Selection{sel}, rec.changed())

		got, ok := g.Selection()
		require.True(t, ok)
		assert.Equal(t, sel, got)

		g.CommitAndClear()

		assert.Equal(t, []grid.Selection{sel}, rec.committed())
		assert.False(t, g.HasSelection())

		// A second commit has nothing to emit.
		g.CommitAndClear()
		assert.Len(t, rec.committed(), 1)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		g, rec := newGrid(t)

		require.NoError(t, g.SetManualSelection(sel))
		g.Clear()

		assert.False(t, g.HasSelection())
		assert.Empty(t, rec.committed())
		assert.Zero(t, rec.canceled())
	})

	t.Run("overrides drag", func(t *testing.T) {
		t.Parallel()

		g, _ := newGrid(t)

		g.Press(geom.Pt(10, 10))
		require.NoError(t, g.SetManualSelection(sel))

		got, ok := g.Selection()
		require.True(t, ok)
		assert.Equal(t, sel, got)

		_, dragging := g.DragRect()
		assert.False(t, dragging)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		g, rec := newGrid(t)

		err := g.SetManualSelection(grid.Selection{Col: 3, Row: 0, ColSpan: 3, RowSpan: 0})
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)

		err = g.SetManualSelection(grid.NoSelection)
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)

		err = g.SetManualSelection(grid.Selection{Col: 1, Row: 0, ColSpan: math.MaxInt, RowSpan: 0})
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)

		err = g.SetManualSelection(grid.Selection{Col: 0, Row: 1, ColSpan: 0, RowSpan: math.MaxInt})
		require.ErrorIs(t, err, grid.ErrIndexOutOfRange)

		assert.False(t, g.HasSelection())
		assert.Empty(t, rec.events)
	})
}

func TestGrid_IsCellActive(t *testing.T) {
	t.Parallel()

	t.Run("idle", func(t *testing.T) {
		t.Parallel()

		g, _ := newGrid(t)
		for y := range g.Rows() {
			for x := range g.Cols() {
				assert.False(t, g.IsCellActive(x, y))
			}
		}
	})

	t.Run("dragging", func(t *testing.T) {
		t.Parallel()

		g, _ := newGrid(t)
		g.Press(geom.Pt(150, 150))
		g.Move(geom.Pt(250, 150))

		active := map[[2]int]bool{{1, 1}: true, {2, 1}: true}
		for y := range g.Rows() {
			for x := range g.Cols() {
				assert.Equal(t, active[[2]int{x, y}], g.IsCellActive(x, y), "cell %d,%d", x, y)
			}
		}

		assert.False(t, g.IsCellActive(-1, 0))
		assert.False(t, g.IsCellActive(6, 0))
	})

	t.Run("manual", func(t *testing.T) {
		t.Parallel()

		g, _ := newGrid(t)
		require.NoError(t, g.SetManualSelection(grid.Selection{Col: 2, Row: 0, ColSpan: 1, RowSpan: 3}))

		for y := range g.Rows() {
			for x := range g.Cols() {
				assert.Equal(t, x == 2 || x == 3, g.IsCellActive(x, y), "cell %d,%d", x, y)
			}
		}
	})
}

func TestGrid_PressWhileDraggingRestarts(t *testing.T) {
	t.Parallel()

	g, rec := newGrid(t)

	g.Press(geom.Pt(10, 10))
	g.Move(geom.Pt(550, 350))
	g.Press(geom.Pt(310, 110))
	g.Release()

	assert.Equal(t, []grid.Selection{{Col: 3, Row: 1}}, rec.committed())
}

func TestGrid_SetBounds(t *testing.T) {
	t.Parallel()

	g, _ := newGrid(t)
	g.SetBounds(geom.R(0, 0, 60, 40))

	cell, ok := g.Cell(5, 3)
	require.True(t, ok)
	assert.Equal(t, geom.R(50, 30, 10, 10), cell)

	g.Press(geom.Pt(55, 35))
	sel, ok := g.Selection()
	require.True(t, ok)
	assert.Equal(t, grid.Selection{Col: 5, Row: 3}, sel)
}

func TestGrid_MoveAndReleaseIgnoredWhenIdle(t *testing.T) {
	t.Parallel()

	g, rec := newGrid(t)

	g.Move(geom.Pt(100, 100))
	g.Release()
	g.Clear()

	assert.Empty(t, rec.events)
	assert.Equal(t, grid.StateIdle, g.State())
}
