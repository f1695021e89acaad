// Package statusbar renders the picker's status bar and help view.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/ui/theme"
	"github.com/macropower/gridpick/pkg/version"
)

const helpText = " ? Help "

// Style selects the colors of the note.
type Style int

const (
	StyleNormal Style = iota
	StyleActive
	StyleError
)

// Renderer renders the status bar.
type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

// Opt configures a [Renderer].
type Opt func(*Renderer)

// WithMessage shows message instead of the selection.
func WithMessage(message string) Opt {
	return func(r *Renderer) {
		r.style = StyleActive
		r.message = message
	}
}

// WithError shows message as an error.
func WithError(message string) Opt {
	return func(r *Renderer) {
		r.style = StyleError
		r.message = message
	}
}

// New creates a new [Renderer] for the given width.
func New(t *theme.Theme, width int, opts ...Opt) *Renderer {
	r := &Renderer{theme: t, width: max(0, width), style: StyleNormal}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render renders the status bar with msg as the note, and preview on the
// right. It is exactly as wide as the renderer.
func (r *Renderer) Render(msg, preview string) string {
	logo := r.logoView()
	help := r.theme.StatusBarHelpStyle.Render(helpText)

	pos := ""
	if preview != "" {
		pos = r.theme.StatusBarPosStyle.Render(" " + preview + " ")
	}

	note := r.renderNote(msg, ansi.StringWidth(logo)+ansi.StringWidth(pos)+ansi.StringWidth(help))
	space := r.noteStyle().Render(strings.Repeat(" ",
		max(0, r.width-ansi.StringWidth(logo)-ansi.StringWidth(note)-ansi.StringWidth(pos)-ansi.StringWidth(help))))

	return ansi.Truncate(logo+note+space+pos+help, r.width, "")
}

// Preview formats a target rectangle and its area, e.g.
// "1920x1080+0+0 (2,073,600 px)".
func Preview(rect geom.Rect) string {
	return fmt.Sprintf("%s (%s px)", rect, humanize.Comma(int64(rect.Area())))
}

func (r *Renderer) renderNote(msg string, used int) string {
	if r.message != "" {
		msg = r.message
	}

	msg = strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
	note := ansi.Truncate(" "+msg+" ", max(0, r.width-used), r.theme.Ellipsis)

	return r.noteStyle().Render(note)
}

func (r *Renderer) noteStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorStyle
	case StyleActive:
		return r.theme.StatusBarActiveStyle
	default:
		return r.theme.StatusBarNoteStyle
	}
}

func (r *Renderer) logoView() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" gridpick %s ", version.GetVersion()))
}
