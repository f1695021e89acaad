package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/screen"
	"github.com/macropower/gridpick/pkg/ui"
	"github.com/macropower/gridpick/pkg/wm"
	"github.com/macropower/gridpick/pkg/yaml"
)

// Defaults for [GridConfig].
const (
	DefaultCols         = 6
	DefaultRows         = 4
	DefaultPadding      = 10
	DefaultSelectorSize = 3
)

// ErrInvalidConfig is returned for configuration values that are invalid in
// ways the JSON schema does not capture.
var ErrInvalidConfig = errors.New("invalid config")

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	ValidAPIVersions = []string{
		"gridpick.macropower.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	schemaJSON = MustGenerateSchema()

	DefaultValidator = yaml.MustNewValidator("/"+SchemaFile, schemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Grid controls the grid the display is divided into.
	Grid *GridConfig `json:"grid,omitempty" jsonschema:"title=Grid"`
	// UI controls the look of the picker.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// Display selects how the available screen geometry is found.
	Display *DisplayConfig `json:"display,omitempty" jsonschema:"title=Display"`
	// Window selects how the target window is moved and resized.
	Window *WindowConfig `json:"window,omitempty" jsonschema:"title=Window"`
	// Commands configures the external programs gridpick runs.
	Commands *Commands `json:"commands,omitempty" jsonschema:"title=Commands"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version,required"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind,required"`
}

// GridConfig describes the grid.
type GridConfig struct {
	// Padding is the inset applied while the padding modifier is active.
	Padding *int `json:"padding,omitempty" jsonschema:"title=Padding,minimum=0"`
	// Cols is the number of columns.
	Cols int `json:"cols,omitempty" jsonschema:"title=Columns,minimum=1"`
	// Rows is the number of rows.
	Rows int `json:"rows,omitempty" jsonschema:"title=Rows,minimum=1"`
	// SelectorSize is the thickness of the row and column selectors.
	SelectorSize int `json:"selectorSize,omitempty" jsonschema:"title=Selector Size,minimum=1"`
}

// DisplayConfig selects the display geometry provider.
type DisplayConfig struct {
	// Static is the geometry used by the "static" provider.
	Static *StaticGeometry `json:"static,omitempty" jsonschema:"title=Static Geometry"`
	// Provider is the name of the geometry provider.
	Provider string `json:"provider,omitempty" jsonschema:"title=Provider,enum=workarea,enum=xdotool,enum=screenshot,enum=static"`
	// Index is the display used by the "screenshot" provider.
	Index int `json:"index,omitempty" jsonschema:"title=Display Index,minimum=0"`
}

// StaticGeometry is a fixed screen rectangle in pixels.
type StaticGeometry struct {
	X      int `json:"x"      jsonschema:"title=X"`
	Y      int `json:"y"      jsonschema:"title=Y"`
	Width  int `json:"width"  jsonschema:"title=Width,minimum=1,required"`
	Height int `json:"height" jsonschema:"title=Height,minimum=1,required"`
}

// Rect returns the geometry as a [geom.Rect].
func (s StaticGeometry) Rect() geom.Rect {
	return geom.R(s.X, s.Y, s.Width, s.Height)
}

// WindowConfig selects the window manipulation backend.
type WindowConfig struct {
	// Command holds the templates used by the "command" backend.
	Command *wm.Templates `json:"command,omitempty" jsonschema:"title=Command Templates"`
	// Backend is the name of the window manipulation backend.
	Backend string `json:"backend,omitempty" jsonschema:"title=Backend,enum=xdotool,enum=command"`
	// RetryDelay is the wait between attempts, e.g. "100ms".
	RetryDelay string `json:"retryDelay,omitempty" jsonschema:"title=Retry Delay,pattern=^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"`
	// Attempts is the number of times a failed move is tried.
	Attempts int `json:"attempts,omitempty" jsonschema:"title=Attempts,minimum=1,maximum=10"`
}

// Commands configures the external programs used by the providers and
// backends.
type Commands struct {
	Xdotool *execs.Command `json:"xdotool,omitempty" jsonschema:"title=xdotool"`
	Xprop   *execs.Command `json:"xprop,omitempty"   jsonschema:"title=xprop"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: ValidAPIVersions[0],
		Kind:       ValidKinds[0],
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Grid == nil {
		c.Grid = &GridConfig{}
	}

	c.Grid.EnsureDefaults()

	if c.UI == nil {
		c.UI = ui.NewConfig()
	} else {
		c.UI.EnsureDefaults()
	}

	if c.Display == nil {
		c.Display = &DisplayConfig{}
	}
	if c.Display.Provider == "" {
		c.Display.Provider = screen.ProviderWorkArea
	}

	if c.Window == nil {
		c.Window = &WindowConfig{}
	}

	c.Window.EnsureDefaults()

	if c.Commands == nil {
		c.Commands = &Commands{}
	}
	if c.Commands.Xdotool == nil {
		c.Commands.Xdotool = &execs.Command{Command: "xdotool"}
	}
	if c.Commands.Xprop == nil {
		c.Commands.Xprop = &execs.Command{Command: "xprop"}
	}
}

// Validate checks requirements that cannot be represented in the schema.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Grid.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: ui: %w", ErrInvalidConfig, err))
	}
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Window.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// EnsureDefaults initializes unset fields to their default values.
func (g *GridConfig) EnsureDefaults() {
	if g.Cols == 0 {
		g.Cols = DefaultCols
	}
	if g.Rows == 0 {
		g.Rows = DefaultRows
	}
	if g.SelectorSize == 0 {
		g.SelectorSize = DefaultSelectorSize
	}
	if g.Padding == nil {
		p := DefaultPadding
		g.Padding = &p
	}
}

// Validate checks the grid dimensions.
func (g *GridConfig) Validate() error {
	if g.Cols < 1 || g.Rows < 1 {
		return fmt.Errorf("%w: grid: %dx%d must have at least one cell", ErrInvalidConfig, g.Cols, g.Rows)
	}
	if g.Padding != nil && *g.Padding < 0 {
		return fmt.Errorf("%w: grid: padding %d is negative", ErrInvalidConfig, *g.Padding)
	}

	return nil
}

// Validate checks the provider name and its settings.
func (d *DisplayConfig) Validate() error {
	if !slices.Contains(screen.AllProviders, d.Provider) {
		return fmt.Errorf("%w: display: %w: %q", ErrInvalidConfig, screen.ErrUnknownProvider, d.Provider)
	}
	if d.Provider == screen.ProviderStatic && (d.Static == nil || d.Static.Rect().Empty()) {
		return fmt.Errorf("%w: display: provider %q requires a non-empty static geometry", ErrInvalidConfig, d.Provider)
	}

	return nil
}

// StaticRect returns the static geometry, or an empty rectangle when unset.
func (d *DisplayConfig) StaticRect() geom.Rect {
	if d.Static == nil {
		return geom.Rect{}
	}

	return d.Static.Rect()
}

// EnsureDefaults initializes unset fields to their default values.
func (w *WindowConfig) EnsureDefaults() {
	if w.Backend == "" {
		w.Backend = wm.BackendXdotool
	}
	if w.Attempts == 0 {
		w.Attempts = wm.DefaultAttempts
	}
	if w.RetryDelay == "" {
		w.RetryDelay = wm.DefaultRetryDelay.String()
	}
}

// Validate checks the backend name, its templates and the retry policy.
func (w *WindowConfig) Validate() error {
	if !slices.Contains(wm.AllBackends, w.Backend) {
		return fmt.Errorf("%w: window: %w: %q", ErrInvalidConfig, wm.ErrUnknownBackend, w.Backend)
	}
	if w.Backend == wm.BackendCommand && (w.Command == nil || w.Command.MoveResize == "") {
		return fmt.Errorf("%w: window: backend %q requires command.moveResize", ErrInvalidConfig, w.Backend)
	}

	_, err := w.RetryPolicy()

	return err
}

// RetryPolicy returns the [wm.RetryPolicy] described by w.
func (w *WindowConfig) RetryPolicy() (wm.RetryPolicy, error) {
	delay, err := time.ParseDuration(w.RetryDelay)
	if err != nil {
		return wm.RetryPolicy{}, fmt.Errorf("%w: window: retryDelay: %w", ErrInvalidConfig, err)
	}
	if delay < 0 {
		return wm.RetryPolicy{}, fmt.Errorf("%w: window: retryDelay %s is negative", ErrInvalidConfig, delay)
	}

	return wm.RetryPolicy{Attempts: w.Attempts, Delay: delay}, nil
}

// Templates returns the command templates, or empty templates when unset.
func (w *WindowConfig) Templates() wm.Templates {
	if w.Command == nil {
		return wm.Templates{}
	}

	return *w.Command
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := yaml.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// Write writes the config to path if it doesn't already exist.
func (c Config) Write(path string) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.Mode().IsRegular() {
			return nil // Config already exists.
		}
		if pathInfo.IsDir() {
			return fmt.Errorf("%s: path is a directory", path)
		}

		return fmt.Errorf("%s: unknown file state", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, b, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
