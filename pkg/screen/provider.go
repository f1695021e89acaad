package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kbinani/screenshot"

	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
)

var (
	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown display provider")

	// ErrNoDisplay is returned when the requested display does not exist.
	ErrNoDisplay = errors.New("display not found")

	// ErrParseGeometry is returned when a tool's output cannot be parsed.
	ErrParseGeometry = errors.New("parse geometry")
)

// Provider names.
const (
	ProviderXdotool    = "xdotool"
	ProviderWorkArea   = "workarea"
	ProviderScreenshot = "screenshot"
	ProviderStatic     = "static"
)

// AllProviders lists the supported provider names.
var AllProviders = []string{
	ProviderWorkArea,
	ProviderXdotool,
	ProviderScreenshot,
	ProviderStatic,
}

// Provider supplies the available geometry of the display, i.e. the usable
// screen area excluding docks and panels where the provider knows about them.
type Provider interface {
	AvailableGeometry(ctx context.Context) (geom.Rect, error)
}

// ProviderFunc adapts a function to [Provider].
type ProviderFunc func(ctx context.Context) (geom.Rect, error)

// AvailableGeometry calls f.
func (f ProviderFunc) AvailableGeometry(ctx context.Context) (geom.Rect, error) {
	return f(ctx)
}

// Static is a [Provider] returning a fixed rectangle.
type Static geom.Rect

// AvailableGeometry returns the rectangle.
func (s Static) AvailableGeometry(context.Context) (geom.Rect, error) {
	return geom.Rect(s), nil
}

// Xdotool reports the full display size using `xdotool getdisplaygeometry`.
type Xdotool struct {
	runner execs.Runner
	cmd    execs.Command
}

// NewXdotool creates a new [Xdotool] provider. The cmd is the base xdotool
// command; its arguments are extended for the query.
func NewXdotool(runner execs.Runner, cmd execs.Command) *Xdotool {
	return &Xdotool{runner: runner, cmd: cmd}
}

// AvailableGeometry returns the display rectangle anchored at the origin.
func (x *Xdotool) AvailableGeometry(ctx context.Context) (geom.Rect, error) {
	res, err := x.runner.Run(ctx, x.cmd.WithArgs("getdisplaygeometry"))
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get display geometry: %w", err)
	}

	fields := strings.Fields(res.Stdout)
	if len(fields) != 2 {
		return geom.Rect{}, fmt.Errorf("%w: %q", ErrParseGeometry, res.Stdout)
	}

	nums, err := atoiAll(fields)
	if err != nil {
		return geom.Rect{}, err
	}

	return geom.R(0, 0, nums[0], nums[1]), nil
}

// WorkArea reports the EWMH work area (`_NET_WORKAREA` of the root window),
// which excludes panels and docks.
type WorkArea struct {
	runner execs.Runner
	cmd    execs.Command
}

// NewWorkArea creates a new [WorkArea] provider. The cmd is the base xprop
// command; its arguments are extended for the query.
func NewWorkArea(runner execs.Runner, cmd execs.Command) *WorkArea {
	return &WorkArea{runner: runner, cmd: cmd}
}

// AvailableGeometry returns the work area of the first desktop.
func (w *WorkArea) AvailableGeometry(ctx context.Context) (geom.Rect, error) {
	res, err := w.runner.Run(ctx, w.cmd.WithArgs("-root", "-notype", "_NET_WORKAREA"))
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get work area: %w", err)
	}

	return parseWorkArea(res.Stdout)
}

// parseWorkArea parses xprop output such as
// "_NET_WORKAREA = 0, 27, 1920, 1053, 0, 27, 1920, 1053".
func parseWorkArea(out string) (geom.Rect, error) {
	_, values, ok := strings.Cut(out, "=")
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: %q", ErrParseGeometry, strings.TrimSpace(out))
	}

	fields := strings.FieldsFunc(values, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) < 4 {
		return geom.Rect{}, fmt.Errorf("%w: %q", ErrParseGeometry, strings.TrimSpace(out))
	}

	nums, err := atoiAll(fields[:4])
	if err != nil {
		return geom.Rect{}, err
	}

	return geom.R(nums[0], nums[1], nums[2], nums[3]), nil
}

// Screenshot reports the bounds of an active display as seen by
// [github.com/kbinani/screenshot].
type Screenshot struct {
	index int
}

// NewScreenshot creates a new [Screenshot] provider for the display at index.
func NewScreenshot(index int) *Screenshot {
	return &Screenshot{index: index}
}

// AvailableGeometry returns the display bounds.
func (s *Screenshot) AvailableGeometry(context.Context) (geom.Rect, error) {
	n := screenshot.NumActiveDisplays()
	if s.index < 0 || s.index >= n {
		return geom.Rect{}, fmt.Errorf("%w: index %d of %d active displays", ErrNoDisplay, s.index, n)
	}

	b := screenshot.GetDisplayBounds(s.index)

	return geom.R(b.Min.X, b.Min.Y, b.Dx(), b.Dy()), nil
}

// Options configures [NewProvider].
type Options struct {
	Runner       execs.Runner
	Xdotool      execs.Command
	Xprop        execs.Command
	Static       geom.Rect
	DisplayIndex int
}

// NewProvider returns the [Provider] registered under name.
func NewProvider(name string, opts Options) (Provider, error) {
	slog.Debug("create display provider", slog.String("provider", name))

	switch name {
	case ProviderXdotool:
		return NewXdotool(opts.Runner, opts.Xdotool), nil
	case ProviderWorkArea:
		return NewWorkArea(opts.Runner, opts.Xprop), nil
	case ProviderScreenshot:
		return NewScreenshot(opts.DisplayIndex), nil
	case ProviderStatic:
		if opts.Static.Empty() {
			return nil, fmt.Errorf("%s: static geometry must not be empty", name)
		}

		return Static(opts.Static), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

func atoiAll(fields []string) ([]int, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseGeometry, err)
		}

		nums[i] = n
	}

	return nums, nil
}
