package statusbar_test

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/gridpick/pkg/keys"
	"github.com/macropower/gridpick/pkg/ui/statusbar"
	"github.com/macropower/gridpick/pkg/ui/theme"
)

func TestHelpRenderer(t *testing.T) {
	t.Parallel()

	quit := keys.NewBind("quit", keys.New("q"))
	pad := keys.NewBind("toggle padding", keys.New("p"))
	yank := keys.NewBind("copy geometry", keys.New("y"))

	kbr := &keys.Renderer{}
	kbr.AddColumn(&quit, &pad)
	kbr.AddColumn(&yank)

	r := statusbar.NewHelpRenderer(theme.Default, kbr)

	out := ansi.Strip(r.Render(80))
	assert.Contains(t, out, "q  quit")
	assert.Contains(t, out, "p  toggle padding")
	assert.Contains(t, out, "y  copy geometry")
	assert.Equal(t, 2, r.Height(80))
}
