package gridview_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
	"github.com/macropower/gridpick/pkg/ui/gridview"
	"github.com/macropower/gridpick/pkg/ui/theme"
	"github.com/macropower/gridpick/pkg/uitest"
)

const (
	bg     = gridview.FillBackground
	cell   = gridview.FillCell
	active = gridview.FillActive
)

func TestModel_Layout(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		bounds geom.Rect
		press  *geom.Point
		want   [][]gridview.Fill
		cols   int
		rows   int
		margin int
	}{
		"no margin": {
			cols: 2, rows: 2, bounds: geom.R(0, 0, 4, 2),
			want: [][]gridview.Fill{
				{cell, cell, cell, cell},
				{cell, cell, cell, cell},
			},
		},
		"margin": {
			cols: 2, rows: 1, bounds: geom.R(0, 0, 6, 2), margin: 1,
			want: [][]gridview.Fill{
				{cell, cell, bg, cell, cell, bg},
				{bg, bg, bg, bg, bg, bg},
			},
		},
		"margin limited by cell size": {
			cols: 2, rows: 1, bounds: geom.R(0, 0, 2, 1), margin: 3,
			want: [][]gridview.Fill{
				{cell, cell},
			},
		},
		"remainder is background": {
			cols: 2, rows: 1, bounds: geom.R(0, 0, 5, 1),
			want: [][]gridview.Fill{
				{cell, cell, cell, cell, bg},
			},
		},
		"active cell": {
			cols: 2, rows: 2, bounds: geom.R(10, 5, 4, 2),
			press: &geom.Point{X: 12, Y: 6},
			want: [][]gridview.Fill{
				{cell, cell, cell, cell},
				{cell, cell, active, active},
			},
		},
		"too small": {
			cols: 4, rows: 1, bounds: geom.R(0, 0, 3, 1),
			want: [][]gridview.Fill{
				{bg, bg, bg},
			},
		},
		"empty": {
			cols: 2, rows: 2, bounds: geom.R(0, 0, 0, 0),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g, err := grid.New(tc.cols, tc.rows, tc.bounds)
			require.NoError(t, err)

			if tc.press != nil {
				g.Press(*tc.press)
			}

			m := gridview.New(g, theme.Default.Grid, tc.margin)
			assert.Equal(t, tc.want, m.Layout())
		})
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	uitest.SetupColorProfile()

	g, err := grid.New(3, 2, geom.R(0, 0, 9, 4))
	require.NoError(t, err)

	styles := theme.Colors{
		Background:     "#000000",
		Foreground:     "#ffffff",
		Highlighted:    "#ff0000",
		NonHighlighted: "#00ff00",
	}.Styles()

	m := gridview.New(g, styles, 1)
	require.NoError(t, g.SetManualSelection(grid.Selection{Col: 1, Row: 1}))

	out := m.View()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	for _, l := range lines {
		assert.Equal(t, 9, ansi.StringWidth(l))
	}

	v := uitest.NewANSIStyleVerifier(lines[2])
	assert.Equal(t, []string{"00FF00", "000000", "FF0000", "000000", "00FF00", "000000"}, v.Backgrounds())
	assert.Equal(t, strings.Repeat(" ", 9), v.PlainText())
	assert.Equal(t, "00FF00", v.BackgroundAt(1))
	assert.Equal(t, "FF0000", v.BackgroundAt(3))
	assert.Equal(t, "000000", v.BackgroundAt(5))
	assert.Empty(t, v.BackgroundAt(9))

	m.SetStyles(theme.Colors{Background: "#000000", Highlighted: "#0000ff", NonHighlighted: "#00ff00"}.Styles())
	m.SetCellMargin(0)

	v = uitest.NewANSIStyleVerifier(strings.Split(m.View(), "\n")[3])
	assert.Equal(t, []string{"00FF00", "0000FF", "00FF00"}, v.Backgrounds())
	assert.Equal(t, geom.R(0, 0, 9, 4), m.Bounds())
	assert.Same(t, g, m.Grid())
}
