// Package linked connects one-dimensional row and column selectors to a
// two-dimensional grid.
//
// Selecting rows in a 1 x Rows selector selects every column of those rows in
// the main grid; selecting columns in a Cols x 1 selector selects every row of
// those columns. The translation is done by the pure functions [FromRows] and
// [FromCols]; [Linker] forwards the resulting selections as events arrive.
package linked

import (
	"log/slog"

	"github.com/macropower/gridpick/pkg/grid"
)

// FromRows expands a row selector selection to all cols of the main grid.
func FromRows(sel grid.Selection, cols int) grid.Selection {
	if sel.IsEmpty() || cols <= 0 {
		return grid.NoSelection
	}

	return grid.Selection{Col: 0, Row: sel.Row, ColSpan: cols - 1, RowSpan: sel.RowSpan}
}

// FromCols expands a column selector selection to all rows of the main grid.
func FromCols(sel grid.Selection, rows int) grid.Selection {
	if sel.IsEmpty() || rows <= 0 {
		return grid.NoSelection
	}

	return grid.Selection{Col: sel.Col, Row: 0, ColSpan: sel.ColSpan, RowSpan: rows - 1}
}

// Linker drives a main grid from a row selector and a column selector.
type Linker struct {
	main *grid.Grid
}

// Link subscribes to the rows and cols selectors and forwards their events
// to main. Either selector may be nil.
func Link(main, rows, cols *grid.Grid) *Linker {
	l := &Linker{main: main}

	if rows != nil {
		rows.Subscribe(l.listener("rows", func(sel grid.Selection) grid.Selection {
			return FromRows(sel, l.main.Cols())
		}))
	}

	if cols != nil {
		cols.Subscribe(l.listener("cols", func(sel grid.Selection) grid.Selection {
			return FromCols(sel, l.main.Rows())
		}))
	}

	return l
}

func (l *Linker) listener(source string, expand func(grid.Selection) grid.Selection) grid.Listener {
	return func(e grid.Event) {
		switch e := e.(type) {
		case grid.EventSelectionChanged:
			l.forward(source, expand(grid.Selection(e)), false)
		case grid.EventSelectionCommitted:
			l.forward(source, expand(grid.Selection(e)), true)
		case grid.EventCanceled:
			l.main.Cancel()
		}
	}
}

func (l *Linker) forward(source string, sel grid.Selection, commit bool) {
	if sel.IsEmpty() {
		return
	}

	err := l.main.SetManualSelection(sel)
	if err != nil {
		slog.Warn("drop linked selection",
			slog.String("source", source),
			slog.String("selection", sel.String()),
			slog.Any("err", err),
		)

		return
	}

	if commit {
		l.main.CommitAndClear()
	}
}
