// Package screen maps grid selections onto the display.
//
// [Map] turns a [grid.Selection] into the pixel rectangle a window should
// occupy. [Provider] implementations supply the available geometry of the
// display that is subdivided.
package screen

import (
	"fmt"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
)

// ErrIndexOutOfRange is returned when a selection references cells outside
// the grid.
var ErrIndexOutOfRange = grid.ErrIndexOutOfRange

// Map returns the pixel rectangle covered by sel when spec.Bounds is
// subdivided into spec.Cols x spec.Rows cells, shrunk by inset on every side.
//
// The result is the bounding box of every cell in the inclusive range
// [Col, Col+ColSpan] x [Row, Row+RowSpan]. Out-of-range selections are
// rejected, never clamped. An inset that consumes the whole rectangle returns
// [geom.ErrInvalidArgument].
func Map(sel grid.Selection, spec grid.Spec, inset int) (geom.Rect, error) {
	cells, err := spec.Cells()
	if err != nil {
		return geom.Rect{}, err
	}

	if !sel.Within(spec.Cols, spec.Rows) {
		return geom.Rect{}, fmt.Errorf("%w: selection %s in %dx%d grid",
			ErrIndexOutOfRange, sel, spec.Cols, spec.Rows)
	}

	result := &cells[sel.Row][sel.Col]
	for i := range sel.ColSpan + 1 {
		for j := range sel.RowSpan + 1 {
			result = geom.BoundingRect(result, &cells[sel.Row+j][sel.Col+i])
		}
	}

	rect := result.Shrink(inset)
	if rect.Empty() {
		return geom.Rect{}, fmt.Errorf("%w: inset %d leaves nothing of %s",
			geom.ErrInvalidArgument, inset, result)
	}

	return rect, nil
}

// Mapper maps selections against the geometry reported by a [Provider].
type Mapper struct {
	provider Provider
	cols     int
	rows     int
	padding  int
}

// NewMapper creates a new [Mapper] for a cols x rows grid. The padding is
// applied as the inset whenever the padding modifier is held.
func NewMapper(provider Provider, cols, rows, padding int) *Mapper {
	return &Mapper{
		provider: provider,
		cols:     cols,
		rows:     rows,
		padding:  padding,
	}
}

// Inset returns the inset to use for the given modifier state.
func (m *Mapper) Inset(padded bool) int {
	if padded {
		return m.padding
	}

	return 0
}

// Spec returns the grid spec over the given display geometry.
func (m *Mapper) Spec(available geom.Rect) grid.Spec {
	return grid.Spec{Cols: m.cols, Rows: m.rows, Bounds: available}
}

// Map maps sel over available using the inset selected by padded.
func (m *Mapper) Map(sel grid.Selection, available geom.Rect, padded bool) (geom.Rect, error) {
	return Map(sel, m.Spec(available), m.Inset(padded))
}

// Provider returns the display geometry provider.
func (m *Mapper) Provider() Provider {
	return m.provider
}

// Cols returns the number of grid columns.
func (m *Mapper) Cols() int {
	return m.cols
}

// Rows returns the number of grid rows.
func (m *Mapper) Rows() int {
	return m.rows
}

// Padding returns the inset applied while the padding modifier is held.
func (m *Mapper) Padding() int {
	return m.padding
}
