// Package gridview renders a [grid.Grid] as a block of terminal cells.
//
// The grid's bounds are interpreted in terminal cell coordinates, so every
// terminal cell inside the bounds is one "pixel" of the grid.
package gridview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
	"github.com/macropower/gridpick/pkg/ui/theme"
)

// Fill is what a single terminal cell of the view shows.
type Fill int

const (
	// FillBackground is the widget background, i.e. margins and remainders.
	FillBackground Fill = iota
	// FillCell is an inactive grid cell.
	FillCell
	// FillActive is an active grid cell.
	FillActive
)

// Model renders one grid.
type Model struct {
	grid       *grid.Grid
	styles     theme.GridStyles
	cellMargin int
}

// New creates a new [Model] for g.
func New(g *grid.Grid, styles theme.GridStyles, cellMargin int) *Model {
	return &Model{
		grid:       g,
		styles:     styles,
		cellMargin: max(0, cellMargin),
	}
}

// SetStyles replaces the styles.
func (m *Model) SetStyles(styles theme.GridStyles) {
	m.styles = styles
}

// SetCellMargin sets the gap between cells.
func (m *Model) SetCellMargin(margin int) {
	m.cellMargin = max(0, margin)
}

// Grid returns the rendered grid.
func (m *Model) Grid() *grid.Grid {
	return m.grid
}

// Bounds returns the area covered by the view.
func (m *Model) Bounds() geom.Rect {
	return m.grid.Spec().Bounds
}

// Layout returns the fill of every terminal cell of the view, indexed by
// row, then column. Cells are shrunk on their right and bottom by the cell
// margin, as far as that leaves at least one terminal cell per grid cell.
// Remainder cells that do not belong to any grid cell are background.
func (m *Model) Layout() [][]Fill {
	spec := m.grid.Spec()
	bounds := spec.Bounds

	if bounds.W <= 0 || bounds.H <= 0 {
		return nil
	}

	cellW := bounds.W / spec.Cols
	cellH := bounds.H / spec.Rows
	marginX := min(m.cellMargin, max(0, cellW-1))
	marginY := min(m.cellMargin, max(0, cellH-1))

	fills := make([][]Fill, bounds.H)
	for y := range bounds.H {
		fills[y] = make([]Fill, bounds.W)

		if cellH == 0 {
			continue
		}

		cy, offY := y/cellH, y%cellH
		if cy >= spec.Rows || offY >= cellH-marginY {
			continue
		}

		for x := range bounds.W {
			if cellW == 0 {
				break
			}

			cx, offX := x/cellW, x%cellW
			if cx >= spec.Cols || offX >= cellW-marginX {
				continue
			}

			fills[y][x] = FillCell
			if m.grid.IsCellActive(cx, cy) {
				fills[y][x] = FillActive
			}
		}
	}

	return fills
}

// View renders the grid. Each line is exactly as wide as the bounds.
func (m *Model) View() string {
	layout := m.Layout()
	if len(layout) == 0 {
		return ""
	}

	lines := make([]string, len(layout))
	for y, row := range layout {
		lines[y] = m.renderRow(row)
	}

	return strings.Join(lines, "\n")
}

// renderRow renders runs of equal fill with a single style each.
func (m *Model) renderRow(row []Fill) string {
	var sb strings.Builder

	start := 0
	for x := 1; x <= len(row); x++ {
		if x < len(row) && row[x] == row[start] {
			continue
		}

		sb.WriteString(m.style(row[start]).Render(strings.Repeat(" ", x-start)))
		start = x
	}

	return sb.String()
}

func (m *Model) style(f Fill) lipgloss.Style {
	switch f {
	case FillCell:
		return m.styles.Cell
	case FillActive:
		return m.styles.ActiveCell
	default:
		return m.styles.Background
	}
}
