package statusbar_test

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/ui/statusbar"
	"github.com/macropower/gridpick/pkg/ui/theme"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts     []statusbar.Opt
		msg      string
		preview  string
		contains []string
		excludes []string
		width    int
	}{
		"selection and preview": {
			width:    100,
			msg:      "cols 1-3, rows 0-1",
			preview:  "960x540+0+0",
			contains: []string{"gridpick", "cols 1-3, rows 0-1", "960x540+0+0", "? Help"},
		},
		"message replaces note": {
			width:    100,
			msg:      "cols 1-3",
			opts:     []statusbar.Opt{statusbar.WithMessage("copied 960x540+0+0")},
			contains: []string{"copied 960x540+0+0"},
			excludes: []string{"cols 1-3"},
		},
		"error": {
			width:    100,
			opts:     []statusbar.Opt{statusbar.WithError("no display\nfound")},
			contains: []string{"no display found"},
		},
		"truncated note": {
			width:    40,
			msg:      "a very long note that cannot possibly fit in the status bar",
			contains: []string{"…", "? Help"},
		},
		"zero width": {
			width: 0,
			msg:   "hidden",
		},
		"negative width": {
			width: -5,
			msg:   "hidden",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := statusbar.New(theme.Default, tc.width, tc.opts...).Render(tc.msg, tc.preview)
			plain := ansi.Strip(out)

			assert.Equal(t, max(0, tc.width), ansi.StringWidth(out))

			for _, s := range tc.contains {
				assert.Contains(t, plain, s)
			}

			for _, s := range tc.excludes {
				assert.NotContains(t, plain, s)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1920x1080+0+0 (2,073,600 px)", statusbar.Preview(geom.R(0, 0, 1920, 1080)))
	assert.Equal(t, "10x10+5-5 (100 px)", statusbar.Preview(geom.R(5, -5, 10, 10)))
}
