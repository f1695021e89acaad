package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/gridpick/pkg/log"
)

// DefaultDebounce is how long [Watcher] waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Reload is the result of reloading the config file.
type Reload struct {
	Config *Config
	Err    error
}

// Watcher reloads the config file whenever it changes.
//
// The parent directory is watched rather than the file, so that editors which
// replace the file on save keep triggering reloads.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	opts     []LoaderOpt
	debounce time.Duration
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets how long to wait after the last change before reloading.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLoaderOpts sets the options used to load the file.
func WithLoaderOpts(opts ...LoaderOpt) WatcherOpt {
	return func(w *Watcher) {
		w.opts = opts
	}
}

// NewWatcher creates a [Watcher] for the config file at path.
func NewWatcher(path string, opts ...WatcherOpt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	err = fw.Add(filepath.Dir(w.path))
	if err != nil {
		_ = fw.Close() //nolint:errcheck // Already failing.

		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	return w, nil
}

// Watch sends a [Reload] to ch after every change to the file, until ctx is
// done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, ch chan<- Reload) {
	logger := log.WithContext(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "config file changed", slog.String("event", evt.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			cfg, err := LoadFile(w.path, w.opts...)
			if err != nil {
				logger.WarnContext(ctx, "reload config", slog.Any("error", err))
			} else {
				logger.InfoContext(ctx, "reloaded config", slog.String("path", w.path))
			}

			select {
			case ch <- Reload{Config: cfg, Err: err}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			logger.ErrorContext(ctx, "watch config", slog.Any("error", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
