package wm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
)

// Xdotool is a [Manipulator] using the xdotool command.
type Xdotool struct {
	runner execs.Runner
	cmd    execs.Command
}

// NewXdotool creates a new [Xdotool]. The cmd is the base xdotool command;
// its arguments are extended per operation.
func NewXdotool(runner execs.Runner, cmd execs.Command) *Xdotool {
	return &Xdotool{runner: runner, cmd: cmd}
}

// ActiveWindow implements [Manipulator].
func (x *Xdotool) ActiveWindow(ctx context.Context) (WindowID, error) {
	out, err := x.run(ctx, "getactivewindow")
	if err != nil {
		return "", err
	}

	return parseWindowID(out)
}

// WindowName implements [Manipulator].
func (x *Xdotool) WindowName(ctx context.Context, id WindowID) (string, error) {
	return x.run(ctx, "getwindowname", string(id))
}

// MoveResize implements [Manipulator].
func (x *Xdotool) MoveResize(ctx context.Context, id WindowID, r geom.Rect) error {
	_, err := x.run(ctx, "windowmove", string(id), strconv.Itoa(r.X), strconv.Itoa(r.Y))
	if err != nil {
		return err
	}

	_, err = x.run(ctx, "windowsize", string(id), strconv.Itoa(r.W), strconv.Itoa(r.H))

	return err
}

// Raise brings the window to the front.
func (x *Xdotool) Raise(ctx context.Context, id WindowID) error {
	_, err := x.run(ctx, "windowraise", string(id))
	return err
}

func (x *Xdotool) run(ctx context.Context, args ...string) (string, error) {
	res, err := x.runner.Run(ctx, x.cmd.WithArgs(args...))
	if err != nil {
		return "", fmt.Errorf("xdotool %s: %w", args[0], err)
	}

	return strings.TrimSpace(res.Stdout), nil
}
