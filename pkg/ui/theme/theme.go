// Package theme derives the gridpick lipgloss styles from a chroma style.
//
// Any of the four grid colors can be overridden by [Colors] from the config;
// everything else follows the chroma palette.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")

	Default = New("github")
)

// Colors names the colors of a grid widget. Empty values fall back to the
// theme. Values are anything lipgloss accepts, e.g. "#1e1e2e" or "212".
type Colors struct {
	// Background fills the widget, including the gaps between cells.
	Background string `json:"background,omitempty" jsonschema:"title=Background"`
	// Foreground is used for text drawn over the widget.
	Foreground string `json:"foreground,omitempty" jsonschema:"title=Foreground"`
	// Highlighted fills active cells.
	Highlighted string `json:"highlighted,omitempty" jsonschema:"title=Highlighted"`
	// NonHighlighted fills inactive cells.
	NonHighlighted string `json:"nonHighlighted,omitempty" jsonschema:"title=Non-Highlighted"`
}

// GridStyles are the styles used to draw one grid widget.
type GridStyles struct {
	Background lipgloss.Style
	Cell       lipgloss.Style
	ActiveCell lipgloss.Style
}

// Theme holds every style used by the picker.
type Theme struct {
	ChromaStyle *chroma.Style

	Grid     GridStyles
	Selector GridStyles

	LogoStyle            lipgloss.Style
	StatusBarStyle       lipgloss.Style
	StatusBarNoteStyle   lipgloss.Style
	StatusBarPosStyle    lipgloss.Style
	StatusBarHelpStyle   lipgloss.Style
	StatusBarErrorStyle  lipgloss.Style
	StatusBarActiveStyle lipgloss.Style
	HelpStyle            lipgloss.Style
	SubtleStyle          lipgloss.Style
	ErrorTitleStyle      lipgloss.Style

	Ellipsis string
}

// Opt configures a [Theme].
type Opt func(*options)

type options struct {
	grid     Colors
	selector Colors
}

// WithGridColors overrides the colors of the main grid.
func WithGridColors(c Colors) Opt {
	return func(o *options) {
		o.grid = c
	}
}

// WithSelectorColors overrides the colors of the row and column selectors.
func WithSelectorColors(c Colors) Opt {
	return func(o *options) {
		o.selector = c
	}
}

// New creates a [Theme] from the chroma style called name. "auto" (or an
// empty name) picks a light or dark style for the terminal background.
func New(name string, opts ...Opt) *Theme {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cs := newChromaStyle(name)

	defaults := Colors{
		Background:     cs.bg(chroma.Background, 0),
		Foreground:     cs.fg(chroma.Background, 0),
		Highlighted:    cs.fg(chroma.NameTag, 0),
		NonHighlighted: cs.bg(chroma.Background, 0.12),
	}
	selectorDefaults := Colors{
		Background:     defaults.Background,
		Foreground:     defaults.Foreground,
		Highlighted:    cs.fg(chroma.NameTag, 0.25),
		NonHighlighted: cs.bg(chroma.Background, 0.06),
	}

	grid := o.grid.Merge(defaults)
	selector := o.selector.Merge(selectorDefaults)

	statusBg := lipgloss.Color(cs.bg(chroma.Background, 0.1))
	subtle := lipgloss.NewStyle().Foreground(lipgloss.Color(cs.fg(chroma.Comment, 0)))

	return &Theme{
		ChromaStyle: cs.style,

		Grid:     grid.Styles(),
		Selector: selector.Styles(),

		LogoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.bg(chroma.Background, 0))).
			Background(lipgloss.Color(grid.Highlighted)).
			Bold(true),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Background, 0))).
			Background(statusBg),
		StatusBarNoteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Comment, 0))).
			Background(statusBg),
		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Background, 0))).
			Background(lipgloss.Color(cs.bg(chroma.Background, 0.15))),
		StatusBarHelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Background, 0.2))).
			Background(lipgloss.Color(cs.bg(chroma.Background, 0.2))),
		StatusBarErrorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.bg(chroma.Background, 0))).
			Background(lipgloss.Color(cs.fg(chroma.GenericDeleted, 0))),
		StatusBarActiveStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.bg(chroma.Background, 0))).
			Background(lipgloss.Color(cs.fg(chroma.NameTag, 0.15))),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Background, 0.2))).
			Background(lipgloss.Color(cs.bg(chroma.Background, 0.2))),
		SubtleStyle: subtle,
		ErrorTitleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.fg(chroma.Background, 0))).
			Background(lipgloss.Color(cs.fg(chroma.GenericDeleted, 0))),

		Ellipsis: Ellipsis,
	}
}

// Merge returns c with empty fields taken from def.
func (c Colors) Merge(def Colors) Colors {
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.Foreground == "" {
		c.Foreground = def.Foreground
	}
	if c.Highlighted == "" {
		c.Highlighted = def.Highlighted
	}
	if c.NonHighlighted == "" {
		c.NonHighlighted = def.NonHighlighted
	}

	return c
}

// Styles converts the colors into [GridStyles].
func (c Colors) Styles() GridStyles {
	bg := lipgloss.NewStyle().
		Background(lipgloss.Color(c.Background)).
		Foreground(lipgloss.Color(c.Foreground))

	return GridStyles{
		Background: bg,
		Cell:       bg.Background(lipgloss.Color(c.NonHighlighted)),
		ActiveCell: bg.Background(lipgloss.Color(c.Highlighted)),
	}
}

// Register adds a custom chroma style that can then be used by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(s)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s := styles.Get(resolveStyleName(name))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

// fg returns the token's foreground color, brightened or darkened by factor.
func (cs chromaStyle) fg(t chroma.TokenType, factor float64) string {
	c := cs.style.Get(t).Colour //nolint:misspell // Chroma naming.
	if factor != 0 {
		c = c.BrightenOrDarken(factor)
	}

	return c.String()
}

// bg returns the token's background color, brightened or darkened by factor.
func (cs chromaStyle) bg(t chroma.TokenType, factor float64) string {
	c := cs.style.Get(t).Background
	if factor != 0 {
		c = c.BrightenOrDarken(factor)
	}

	return c.String()
}

func resolveStyleName(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return detectStyleName()
	}

	return name
}

func detectStyleName() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ""
	}
	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
