package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/gridpick/pkg/ui/theme"
)

// KeyBindRenderer renders key binding help within a width.
type KeyBindRenderer interface {
	Render(width int) string
}

// HelpRenderer renders the help view.
type HelpRenderer struct {
	theme    *theme.Theme
	keyBinds KeyBindRenderer
}

// NewHelpRenderer creates a new [HelpRenderer].
func NewHelpRenderer(t *theme.Theme, keyBinds KeyBindRenderer) *HelpRenderer {
	return &HelpRenderer{theme: t, keyBinds: keyBinds}
}

// Render renders the help view at the given width.
func (r *HelpRenderer) Render(width int) string {
	content := lipgloss.NewStyle().
		Padding(0, 1).
		Width(max(0, width)).
		Render(r.keyBinds.Render(max(0, width-2)))

	return r.theme.HelpStyle.Render(content)
}

// Height returns the number of lines [HelpRenderer.Render] produces.
func (r *HelpRenderer) Height(width int) int {
	return strings.Count(r.Render(width), "\n") + 1
}
