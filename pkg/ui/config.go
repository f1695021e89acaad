package ui

import (
	"github.com/macropower/gridpick/pkg/ui/theme"
)

// Defaults for [Config].
const (
	DefaultTheme         = "auto"
	DefaultContentMargin = 1
	DefaultCellMargin    = 1
)

// Config contains TUI-specific configuration.
type Config struct {
	// KeyBinds overrides the default key bindings.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`
	// Colors of the main grid. Unset colors follow the theme.
	Colors *theme.Colors `json:"colors,omitempty" jsonschema:"title=Grid Colors"`
	// SelectorColors of the row and column selectors.
	SelectorColors *theme.Colors `json:"selectorColors,omitempty" jsonschema:"title=Selector Colors"`
	// ContentMargin is the number of cells left blank around the grids.
	ContentMargin *int `json:"contentMargin,omitempty" jsonschema:"title=Content Margin,minimum=0"`
	// CellMargin is the gap between two grid cells, in terminal cells.
	CellMargin *int `json:"cellMargin,omitempty" jsonschema:"title=Cell Margin,minimum=0"`
	// Theme is a chroma style name, or one of "auto", "dark" and "light".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = NewKeyBinds()
	} else {
		c.KeyBinds.EnsureDefaults()
	}

	if c.Colors == nil {
		c.Colors = &theme.Colors{}
	}
	if c.SelectorColors == nil {
		c.SelectorColors = &theme.Colors{}
	}

	if c.ContentMargin == nil {
		m := DefaultContentMargin
		c.ContentMargin = &m
	}
	if c.CellMargin == nil {
		m := DefaultCellMargin
		c.CellMargin = &m
	}

	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

// Validate checks requirements that the JSON schema cannot express.
func (c *Config) Validate() error {
	if c.KeyBinds == nil {
		return nil
	}

	return c.KeyBinds.Validate()
}

// NewTheme creates the [theme.Theme] described by c.
func (c *Config) NewTheme() *theme.Theme {
	var opts []theme.Opt
	if c.Colors != nil {
		opts = append(opts, theme.WithGridColors(*c.Colors))
	}
	if c.SelectorColors != nil {
		opts = append(opts, theme.WithSelectorColors(*c.SelectorColors))
	}

	return theme.New(c.Theme, opts...)
}
