// Package grid implements the selection state machine behind a grid widget.
//
// A [Grid] subdivides its bounds into Cols x Rows cells and turns pointer
// gestures (press, move, release) or programmatic selections into a
// [Selection] of cell indices. Listeners registered with [Grid.Subscribe]
// receive [EventSelectionChanged], [EventSelectionCommitted] and
// [EventCanceled] synchronously, on the goroutine that drives the grid.
//
// A Grid is not safe for concurrent use.
package grid

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/macropower/gridpick/pkg/geom"
)

// ErrIndexOutOfRange is returned when a selection references cells outside
// the configured grid.
var ErrIndexOutOfRange = errors.New("index out of range")

// Spec describes a grid: the region being subdivided and the subdivision factor.
type Spec struct {
	Bounds geom.Rect
	Cols   int
	Rows   int
}

// Cells subdivides Bounds into Cols x Rows cells. See [geom.Subdivide].
func (s Spec) Cells() ([][]geom.Rect, error) {
	cells, err := geom.Subdivide(s.Bounds, s.Cols, s.Rows)
	if err != nil {
		return nil, fmt.Errorf("grid %dx%d: %w", s.Cols, s.Rows, err)
	}

	return cells, nil
}

// Event represents a notification emitted by a [Grid].
type Event any

type (
	// EventSelectionChanged indicates that the live selection changed.
	// It carries [NoSelection] when a drag no longer covers any cell.
	EventSelectionChanged Selection

	// EventSelectionCommitted indicates that a selection was finalized and
	// downstream action should proceed.
	EventSelectionCommitted Selection

	// EventCanceled indicates that the user canceled the gesture. Any
	// in-progress drag or manual selection has been discarded.
	EventCanceled struct{}
)

// Listener receives events from a [Grid].
type Listener func(Event)

// State is the externally visible state of a [Grid].
type State int

const (
	StateIdle State = iota
	StateDragging
	StateManual
)

func (s State) String() string {
	return map[State]string{
		StateIdle:     "idle",
		StateDragging: "dragging",
		StateManual:   "manually selected",
	}[s]
}

// state is the tagged variant holding the data that belongs to each [State].
type state interface {
	kind() State
}

type (
	idleState struct{}

	dragState struct {
		start   geom.Point
		current geom.Point
	}

	manualState struct {
		sel Selection
	}
)

func (idleState) kind() State   { return StateIdle }
func (dragState) kind() State   { return StateDragging }
func (manualState) kind() State { return StateManual }

// rect returns the drag rectangle. It covers the pixels under both the start
// and the current point, so a press without movement is a 1x1 rectangle.
func (d dragState) rect() geom.Rect {
	r := geom.RectFromPoints(d.start, d.current)
	r.W++
	r.H++

	return r
}

// Grid tracks the selection of a cols x rows grid of cells.
type Grid struct {
	state     state
	name      string
	cells     [][]geom.Rect
	listeners []Listener
	spec      Spec
	// Last range emitted during the current drag, for de-duplication.
	emitted Selection
}

// Opt configures a [Grid].
type Opt func(*Grid)

// WithName sets the name used in log output.
func WithName(name string) Opt {
	return func(g *Grid) {
		g.name = name
	}
}

// New creates a new [Grid] subdividing bounds into cols x rows cells.
// It returns [geom.ErrInvalidArgument] if cols or rows is not positive.
func New(cols, rows int, bounds geom.Rect, opts ...Opt) (*Grid, error) {
	spec := Spec{Cols: cols, Rows: rows, Bounds: bounds}

	cells, err := spec.Cells()
	if err != nil {
		return nil, err
	}

	g := &Grid{
		name:    "grid",
		spec:    spec,
		cells:   cells,
		state:   idleState{},
		emitted: NoSelection,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Subscribe registers l to receive all future events.
func (g *Grid) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

// Spec returns the grid's current spec.
func (g *Grid) Spec() Spec {
	return g.spec
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.spec.Cols
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.spec.Rows
}

// Cell returns the rectangle of the cell at (x, y).
func (g *Grid) Cell(x, y int) (geom.Rect, bool) {
	if x < 0 || x >= g.spec.Cols || y < 0 || y >= g.spec.Rows {
		return geom.Rect{}, false
	}

	return g.cells[y][x], true
}

// SetBounds changes the area that is subdivided, e.g. after the widget was
// resized. An in-progress drag keeps its pixel coordinates.
func (g *Grid) SetBounds(bounds geom.Rect) {
	if bounds == g.spec.Bounds {
		return
	}

	spec := g.spec
	spec.Bounds = bounds

	cells, err := spec.Cells()
	if err != nil {
		// Cols and rows were validated by New.
		panic(err)
	}

	g.spec = spec
	g.cells = cells
}

// State returns the current state.
func (g *Grid) State() State {
	return g.state.kind()
}

// HasSelection reports whether a drag is active or a manual selection is set.
func (g *Grid) HasSelection() bool {
	return g.state.kind() != StateIdle
}

// Selection returns the current selection. A manual selection takes
// precedence; otherwise the range covered by the active drag is returned.
// The second return value is false when nothing is selected.
func (g *Grid) Selection() (Selection, bool) {
	switch s := g.state.(type) {
	case manualState:
		return s.sel, true
	case dragState:
		sel := g.cellRange(s.rect())
		return sel, !sel.IsEmpty()
	}

	return NoSelection, false
}

// DragRect returns the active drag rectangle in local coordinates.
func (g *Grid) DragRect() (geom.Rect, bool) {
	if s, ok := g.state.(dragState); ok {
		return s.rect(), true
	}

	return geom.Rect{}, false
}

// IsCellActive reports whether the cell at (x, y) should be highlighted.
// With a manual selection, cells inside it are active. Otherwise, while
// dragging, cells whose rectangle intersects the drag rectangle are active.
func (g *Grid) IsCellActive(x, y int) bool {
	switch s := g.state.(type) {
	case manualState:
		return s.sel.Contains(x, y)
	case dragState:
		cell, ok := g.Cell(x, y)
		return ok && cell.Intersects(s.rect())
	}

	return false
}

// Press starts a drag at p. A press while already dragging restarts the drag,
// and a press over a manual selection discards it.
func (g *Grid) Press(p geom.Point) {
	g.state = dragState{start: p, current: p}
	g.emitted = NoSelection

	slog.Debug("drag started",
		slog.String("grid", g.name),
		slog.Int("x", p.X),
		slog.Int("y", p.Y),
	)

	g.updateDrag()
}

// Move updates the active drag to end at p. It is ignored when not dragging.
func (g *Grid) Move(p geom.Point) {
	s, ok := g.state.(dragState)
	if !ok {
		return
	}

	s.current = p
	g.state = s

	g.updateDrag()
}

// Release finalizes the active drag and emits [EventSelectionCommitted] with
// the covered range. A drag that covers no cell returns to idle without
// committing. It is ignored when not dragging.
func (g *Grid) Release() {
	s, ok := g.state.(dragState)
	if !ok {
		return
	}

	sel := g.cellRange(s.rect())

	g.state = idleState{}
	g.emitted = NoSelection

	if sel.IsEmpty() {
		slog.Debug("drag released outside of cells", slog.String("grid", g.name))
		return
	}

	slog.Debug("drag released",
		slog.String("grid", g.name),
		slog.String("selection", sel.String()),
	)

	g.emit(EventSelectionCommitted(sel))
}

// Cancel discards any drag or manual selection and emits [EventCanceled].
func (g *Grid) Cancel() {
	g.state = idleState{}
	g.emitted = NoSelection

	slog.Debug("selection canceled", slog.String("grid", g.name))

	g.emit(EventCanceled{})
}

// SetManualSelection overrides the current selection with sel and emits
// [EventSelectionChanged]. It returns [ErrIndexOutOfRange] if sel is not
// within the grid; selections are never clamped.
func (g *Grid) SetManualSelection(sel Selection) error {
	if !sel.Within(g.spec.Cols, g.spec.Rows) {
		return fmt.Errorf("%w: selection %s in %dx%d grid",
			ErrIndexOutOfRange, sel, g.spec.Cols, g.spec.Rows)
	}

	g.state = manualState{sel: sel}
	g.emitted = sel

	g.emit(EventSelectionChanged(sel))

	return nil
}

// CommitAndClear emits [EventSelectionCommitted] with the manual selection and
// returns to idle. It does nothing without a manual selection.
func (g *Grid) CommitAndClear() {
	s, ok := g.state.(manualState)
	if !ok {
		return
	}

	g.state = idleState{}
	g.emitted = NoSelection

	g.emit(EventSelectionCommitted(s.sel))
}

// Clear discards a manual selection without committing it.
func (g *Grid) Clear() {
	if _, ok := g.state.(manualState); !ok {
		return
	}

	g.state = idleState{}
	g.emitted = NoSelection
}

func (g *Grid) updateDrag() {
	s, ok := g.state.(dragState)
	if !ok {
		return
	}

	sel := g.cellRange(s.rect())
	if sel == g.emitted {
		return
	}

	g.emitted = sel
	g.emit(EventSelectionChanged(sel))
}

// cellRange returns the index bounding box of every cell intersecting r.
// The box can include cells that do not intersect r themselves.
func (g *Grid) cellRange(r geom.Rect) Selection {
	minX, maxX := g.spec.Cols, -1
	minY, maxY := g.spec.Rows, -1

	for y, row := range g.cells {
		for x, cell := range row {
			if !r.Intersects(cell) {
				continue
			}

			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 || maxY < 0 {
		return NoSelection
	}

	return Selection{
		Col:     minX,
		Row:     minY,
		ColSpan: maxX - minX,
		RowSpan: maxY - minY,
	}
}

func (g *Grid) emit(e Event) {
	for _, l := range g.listeners {
		l(e)
	}
}
