package wm

import (
	"fmt"

	"github.com/macropower/gridpick/pkg/execs"
)

// AllBackends lists the supported backend names.
var AllBackends = []string{BackendXdotool, BackendCommand}

// Options configures [New].
type Options struct {
	Runner    execs.Runner
	Xdotool   execs.Command
	BaseEnv   []string
	Templates Templates
}

// New returns the [Manipulator] registered under backend.
func New(backend string, opts Options) (Manipulator, error) {
	switch backend {
	case BackendXdotool:
		return NewXdotool(opts.Runner, opts.Xdotool), nil
	case BackendCommand:
		c, err := NewCommand(opts.Runner, opts.BaseEnv, opts.Templates)
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
