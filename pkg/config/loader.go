package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/gridpick/pkg/ui/theme"
	"github.com/macropower/gridpick/pkg/yaml"
)

// Validator validates decoded configuration data.
type Validator interface {
	Validate(data any) error
}

// Loader validates and loads configuration data.
type Loader struct {
	cv        Validator
	theme     *theme.Theme
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator replaces the [DefaultValidator].
func WithValidator(cv Validator) LoaderOpt {
	return func(l *Loader) {
		l.cv = cv
	}
}

// WithThemeFromData styles errors with the theme named in the data itself.
func WithThemeFromData() LoaderOpt {
	return func(l *Loader) {
		l.theme = getTheme(l.data)
	}
}

// NewLoaderFromBytes creates a [Loader] for data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		cv:    DefaultValidator,
		theme: theme.Default,
		data:  data,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.yamlError = yaml.NewErrorWrapper(
		yaml.WithStyle(l.theme.ChromaStyle),
		yaml.WithSource(l.data),
		yaml.WithSourceLines(4),
	)

	return l
}

// NewLoaderFromFile creates a [Loader] for the file at path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the data against the JSON schema without decoding it
// into a [Config].
func (l *Loader) Validate() error {
	var anyConfig any

	err := yaml.NewDecoder(bytes.NewReader(l.data), false).Decode(&anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	err = l.cv.Validate(anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Load decodes the data into a [Config] with defaults applied.
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	err := yaml.NewDecoder(bytes.NewReader(l.data), true).Decode(c)
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Theme returns the theme used to style errors.
func (l *Loader) Theme() *theme.Theme {
	return l.theme
}

// LoadFile validates and loads the config file at path.
func LoadFile(path string, opts ...LoaderOpt) (*Config, error) {
	l, err := NewLoaderFromFile(path, opts...)
	if err != nil {
		return nil, err
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config %q: %w", path, err)
	}

	c, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	return c, nil
}

// WriteDefaultConfig writes the default config.yaml to path, and the JSON
// schema next to it. An existing config is kept unless force is set, in which
// case it is moved to a backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration", slog.String("path", path))

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema", slog.String("path", schemaPath))

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// DefaultConfigYAML returns the embedded default config file.
func DefaultConfigYAML() []byte {
	return bytes.Clone(defaultConfigYAML)
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "gridpick", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "gridpick", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "gridpick", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}
	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func getTheme(data []byte) *theme.Theme {
	var themeName string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &themeName)
	if err != nil || themeName == "" {
		slog.Debug("could not read theme, config might be invalid")

		return theme.Default
	}

	return theme.New(themeName)
}
