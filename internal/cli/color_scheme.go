package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/macropower/gridpick/pkg/config"
	"github.com/macropower/gridpick/pkg/ui/theme"
)

// ColorSchemeFunc styles the help and error output with the theme named in
// the config file, falling back to the default theme.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	l, err := config.NewLoaderFromFile(config.GetPath(), config.WithThemeFromData())
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(l.Theme(), c)
}

// ThemeColorScheme converts t into a [fang.ColorScheme].
func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	text := t.StatusBarStyle.GetForeground()
	accent := t.StatusBarActiveStyle.GetBackground()
	subtle := t.SubtleStyle.GetForeground()

	return fang.ColorScheme{
		Base:           text,
		Title:          t.LogoStyle.GetBackground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        accent,
		Command:        accent,
		DimmedArgument: subtle,
		Comment:        subtle,
		Flag:           accent,
		Argument:       text,
		Description:    text,
		FlagDefault:    t.StatusBarNoteStyle.GetForeground(),
		QuotedString:   text,
		ErrorHeader: [2]color.Color{
			t.ErrorTitleStyle.GetForeground(),
			t.ErrorTitleStyle.GetBackground(),
		},
	}
}
