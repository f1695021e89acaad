// Package wm moves and resizes windows through external window manager tools.
//
// A [Manipulator] resolves the active window, looks up window names, and
// applies a geometry. [Apply] wraps [Manipulator.MoveResize] with the retry
// policy used by callers.
package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/macropower/gridpick/pkg/geom"
)

var (
	// ErrNoWindow is returned when no target window could be resolved.
	ErrNoWindow = errors.New("no window")

	// ErrUnknownBackend is returned for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown window backend")
)

// Backend names.
const (
	BackendXdotool = "xdotool"
	BackendCommand = "command"
)

// Defaults for [Apply].
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 100 * time.Millisecond
)

// WindowID identifies a window, e.g. an X11 window id in decimal.
type WindowID string

// Manipulator moves and resizes windows.
type Manipulator interface {
	// ActiveWindow returns the currently focused window.
	ActiveWindow(ctx context.Context) (WindowID, error)
	// WindowName returns the title of the window.
	WindowName(ctx context.Context, id WindowID) (string, error)
	// MoveResize moves the window to r's origin, then resizes it to r's size.
	MoveResize(ctx context.Context, id WindowID, r geom.Rect) error
}

// Raiser is implemented by manipulators that can bring a window to the front.
type Raiser interface {
	Raise(ctx context.Context, id WindowID) error
}

// RetryPolicy controls how [Apply] retries a failed [Manipulator.MoveResize].
type RetryPolicy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int
	// Delay is the constant wait between tries.
	Delay time.Duration
}

// DefaultRetryPolicy returns the default [RetryPolicy].
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultRetryDelay}
}

// Apply moves and resizes the window id to r, retrying failures according to
// policy. The error of the last attempt is returned. If m is a [Raiser], the
// window is raised afterwards; a failed raise is only logged.
func Apply(ctx context.Context, m Manipulator, id WindowID, r geom.Rect, policy RetryPolicy) error {
	if id == "" {
		return ErrNoWindow
	}

	attempts := max(policy.Attempts, 1)
	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++

		err := m.MoveResize(ctx, id, r)
		if err != nil {
			slog.DebugContext(ctx, "move and resize failed",
				slog.String("window", string(id)),
				slog.String("geometry", r.String()),
				slog.Int("attempt", attempt),
				slog.Any("err", err),
			)

			return struct{}{}, err
		}

		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(policy.Delay)),
		backoff.WithMaxTries(uint(attempts)), //nolint:gosec // G115: attempts is at least 1.
	)
	if err != nil {
		return fmt.Errorf("apply %s to window %s after %d attempts: %w", r, id, attempt, err)
	}

	if raiser, ok := m.(Raiser); ok {
		if err := raiser.Raise(ctx, id); err != nil {
			slog.WarnContext(ctx, "raise window",
				slog.String("window", string(id)),
				slog.Any("err", err),
			)
		}
	}

	slog.InfoContext(ctx, "window placed",
		slog.String("window", string(id)),
		slog.String("geometry", r.String()),
		slog.Int("attempts", attempt),
	)

	return nil
}

// Target resolves the window to act on: id when set, otherwise the active
// window. The window name is looked up and logged; a failed lookup is not an
// error.
func Target(ctx context.Context, m Manipulator, id WindowID) (WindowID, error) {
	if id == "" {
		active, err := m.ActiveWindow(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoWindow, err)
		}

		id = active
	}

	name, err := m.WindowName(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "get window name",
			slog.String("window", string(id)),
			slog.Any("err", err),
		)
	} else {
		slog.InfoContext(ctx, "target window",
			slog.String("window", string(id)),
			slog.String("name", name),
		)
	}

	return id, nil
}

func parseWindowID(out string) (WindowID, error) {
	id := strings.TrimSpace(out)
	if id == "" || strings.ContainsAny(id, " \t\n") {
		return "", fmt.Errorf("%w: unexpected window id %q", ErrNoWindow, id)
	}

	return WindowID(id), nil
}
