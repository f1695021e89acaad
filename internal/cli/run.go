package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/gridpick/pkg/config"
	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
	"github.com/macropower/gridpick/pkg/log"
	"github.com/macropower/gridpick/pkg/screen"
	"github.com/macropower/gridpick/pkg/ui"
	"github.com/macropower/gridpick/pkg/ui/theme"
	"github.com/macropower/gridpick/pkg/wm"
)

const (
	cmdExamples = `  # Pick a geometry for the active window:
  gridpick

  # Pick a geometry for a specific window:
  gridpick --window 62914567

  # Place the active window on the left third without the picker:
  gridpick --select 0,0,1,3

  # Print the padded geometry of a selection instead of applying it:
  gridpick --select 0,0,1,3 --padded --dry-run

  # Reload colors and margins when the config file changes:
  gridpick --watch`
)

var (
	// ErrUsage is returned for invalid flag combinations.
	ErrUsage = errors.New("invalid usage")

	// ErrNotTerminal is returned when the picker cannot take over the terminal.
	ErrNotTerminal = errors.New("not a terminal")
)

type RunArgs struct {
	*RootArgs

	ConfigPath  string
	Window      string
	Select      string
	Padded      bool
	DryRun      bool
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the gridpick configuration file")
	cmd.Flags().StringVarP(&ra.Window, "window", "w", "", "Window to place, defaults to the active window")
	cmd.Flags().StringVarP(&ra.Select, "select", "s", "",
		"Apply the selection COL,ROW,COLSPAN,ROWSPAN without starting the picker")
	cmd.Flags().BoolVar(&ra.Padded, "padded", false, "Apply the grid padding to --select")
	cmd.Flags().BoolVar(&ra.DryRun, "dry-run", false, "Print the target geometry instead of placing the window")
	cmd.Flags().BoolVar(&ra.Watch, "watch", false, "Reload the configuration file when it changes")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// Validate checks flag combinations.
func (ra *RunArgs) Validate() error {
	if ra.Padded && ra.Select == "" {
		return fmt.Errorf("%w: --padded requires --select", ErrUsage)
	}
	if ra.Watch && ra.Select != "" {
		return fmt.Errorf("%w: --watch cannot be combined with --select", ErrUsage)
	}

	return nil
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	err := ra.Validate()
	if err != nil {
		return err
	}

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err = config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	cfg, t, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		return showConfig(cmd.OutOrStdout(), cfg, t)
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if ra.Select != "" {
		return runSelect(ctx, cmd.OutOrStdout(), ra, s)
	}

	return runPicker(ctx, cmd, ra, s, configPath)
}

func loadConfig(path string) (*config.Config, *theme.Theme, error) {
	l, err := config.NewLoaderFromFile(path, config.WithThemeFromData())
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return config.NewConfig(), theme.Default, nil
	}

	err = l.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, l.Theme(), nil
}

// showConfig prints cfg as YAML, highlighted when w is a terminal.
func showConfig(w io.Writer, cfg *config.Config, t *theme.Theme) error {
	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if !isTerminal(w) {
		_, err = w.Write(b)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	it, err := lexers.Get("yaml").Tokenise(nil, string(b))
	if err != nil {
		return fmt.Errorf("tokenise config: %w", err)
	}

	err = formatters.Get("terminal256").Format(w, t.ChromaStyle, it)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// session holds the collaborators built from one configuration.
type session struct {
	mapper      *screen.Mapper
	manipulator wm.Manipulator
	cfg         *config.Config
	policy      wm.RetryPolicy
}

func newSession(cfg *config.Config) (*session, error) {
	runner := execs.NewExecutor("")
	baseEnv := os.Environ()

	xdotool := *cfg.Commands.Xdotool
	xdotool.SetBaseEnv(baseEnv)

	xprop := *cfg.Commands.Xprop
	xprop.SetBaseEnv(baseEnv)

	for name, c := range map[string]*execs.Command{"xdotool": &xdotool, "xprop": &xprop} {
		err := c.CompilePatterns()
		if err != nil {
			return nil, fmt.Errorf("commands.%s: %w", name, err)
		}
	}

	provider, err := screen.NewProvider(cfg.Display.Provider, screen.Options{
		Runner:       runner,
		Xdotool:      xdotool,
		Xprop:        xprop,
		Static:       cfg.Display.StaticRect(),
		DisplayIndex: cfg.Display.Index,
	})
	if err != nil {
		return nil, fmt.Errorf("create display provider: %w", err)
	}

	m, err := wm.New(cfg.Window.Backend, wm.Options{
		Runner:    runner,
		Xdotool:   xdotool,
		BaseEnv:   baseEnv,
		Templates: cfg.Window.Templates(),
	})
	if err != nil {
		return nil, fmt.Errorf("create window backend: %w", err)
	}

	policy, err := cfg.Window.RetryPolicy()
	if err != nil {
		return nil, err
	}

	return &session{
		mapper:      screen.NewMapper(provider, cfg.Grid.Cols, cfg.Grid.Rows, *cfg.Grid.Padding),
		manipulator: m,
		cfg:         cfg,
		policy:      policy,
	}, nil
}

// applyFunc places the window id, or prints the geometry to w when dryRun is
// set.
func (s *session) applyFunc(id wm.WindowID, w io.Writer, dryRun bool) ui.ApplyFunc {
	return func(ctx context.Context, r geom.Rect) error {
		if dryRun {
			_, err := fmt.Fprintln(w, r)
			if err != nil {
				return fmt.Errorf("write geometry: %w", err)
			}

			return nil
		}

		return wm.Apply(ctx, s.manipulator, id, r, s.policy)
	}
}

func (s *session) options(apply ui.ApplyFunc) ui.Options {
	return ui.Options{
		Config:       s.cfg.UI,
		Mapper:       s.mapper,
		Apply:        apply,
		SelectorSize: s.cfg.Grid.SelectorSize,
	}
}

// target resolves the window to place. Dry runs never touch a window.
func (s *session) target(ctx context.Context, ra *RunArgs) (wm.WindowID, error) {
	if ra.DryRun {
		return "", nil
	}

	id, err := wm.Target(ctx, s.manipulator, wm.WindowID(ra.Window))
	if err != nil {
		return "", fmt.Errorf("resolve target window: %w", err)
	}

	return id, nil
}

func runSelect(ctx context.Context, w io.Writer, ra *RunArgs, s *session) error {
	sel, err := grid.ParseSelection(ra.Select)
	if err != nil {
		return fmt.Errorf("%w: --select: %w", ErrUsage, err)
	}

	id, err := s.target(ctx, ra)
	if err != nil {
		return err
	}

	available, err := s.mapper.Provider().AvailableGeometry(ctx)
	if err != nil {
		return fmt.Errorf("get display geometry: %w", err)
	}

	r, err := s.mapper.Map(sel, available, ra.Padded)
	if err != nil {
		return fmt.Errorf("map selection %s: %w", sel, err)
	}

	return s.applyFunc(id, w, ra.DryRun)(ctx, r)
}

func runPicker(ctx context.Context, cmd *cobra.Command, ra *RunArgs, s *session, configPath string) error {
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("%w: the picker needs a terminal, use --select instead", ErrNotTerminal)
	}

	id, err := s.target(ctx, ra)
	if err != nil {
		return err
	}

	// Geometry printed by a dry run must not be mixed into the picker's
	// output, so it is written once the program has exited.
	var dryRunRect *geom.Rect

	apply := s.applyFunc(id, cmd.OutOrStdout(), false)
	if ra.DryRun {
		apply = func(_ context.Context, r geom.Rect) error {
			dryRunRect = &r
			return nil
		}
	}

	logBuf := log.NewBacklog(log.DefaultBacklogSize)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, m, err := ui.NewProgram(ctx, s.options(apply),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if err != nil {
		return fmt.Errorf("create picker: %w", err)
	}

	if ra.Watch {
		err = watchConfig(ctx, configPath, apply, p)
		if err != nil {
			slog.Error("watch config", slog.Any("err", err))
		}
	}

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("ui program failure: %w", err)
	}

	res := m.Result()
	if errors.Is(res.Err, ui.ErrCanceled) {
		slog.Debug("picker canceled")

		return nil
	}
	if res.Err != nil {
		return fmt.Errorf("place window: %w", res.Err)
	}

	if dryRunRect != nil {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), dryRunRect)
		if err != nil {
			return fmt.Errorf("write geometry: %w", err)
		}
	}

	return nil
}

// sender delivers messages to a running program.
type sender interface {
	Send(msg tea.Msg)
}

// watchConfig forwards config reloads to p until ctx is done.
func watchConfig(ctx context.Context, path string, apply ui.ApplyFunc, p sender) error {
	w, err := config.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	reloads := make(chan config.Reload)

	go w.Watch(ctx, reloads)
	go func() {
		defer func() {
			err := w.Close()
			if err != nil {
				slog.Debug("close config watcher", slog.Any("err", err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case r := <-reloads:
				p.Send(reloadMsg(r, apply))
			}
		}
	}()

	return nil
}

func reloadMsg(r config.Reload, apply ui.ApplyFunc) ui.ReloadMsg {
	if r.Err != nil {
		return ui.ReloadMsg{Err: r.Err}
	}

	s, err := newSession(r.Config)
	if err != nil {
		return ui.ReloadMsg{Err: err}
	}

	return ui.ReloadMsg{Options: s.options(apply)}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
}

func flushLogs(w io.Writer, buf *log.Backlog) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("dropped", buf.Dropped()),
	)

	err := buf.Flush(w)
	if err != nil {
		panic(err)
	}
}
