package screen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/screen"
)

type fakeRunner struct {
	err    error
	stdout string
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, cmd execs.Command) (*execs.Result, error) {
	f.calls = append(f.calls, cmd.String())
	if f.err != nil {
		return nil, f.err
	}

	return &execs.Result{Stdout: f.stdout}, nil
}

func TestXdotool_AvailableGeometry(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err    error
		runErr error
		stdout string
		want   geom.Rect
	}{
		"display geometry": {
			stdout: "1920 1080\n",
			want:   geom.R(0, 0, 1920, 1080),
		},
		"malformed": {
			stdout: "1920\n",
			err:    screen.ErrParseGeometry,
		},
		"not a number": {
			stdout: "wide 1080\n",
			err:    screen.ErrParseGeometry,
		},
		"command fails": {
			runErr: execs.ErrCommandExecution,
			err:    execs.ErrCommandExecution,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{stdout: tc.stdout, err: tc.runErr}
			p := screen.NewXdotool(runner, execs.NewCommand(nil, "xdotool"))

			got, err := p.AvailableGeometry(t.Context())
			assert.Equal(t, []string{"xdotool getdisplaygeometry"}, runner.calls)

			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWorkArea_AvailableGeometry(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err    error
		stdout string
		want   geom.Rect
	}{
		"single desktop": {
			stdout: "_NET_WORKAREA = 0, 27, 1920, 1053\n",
			want:   geom.R(0, 27, 1920, 1053),
		},
		"multiple desktops": {
			stdout: "_NET_WORKAREA = 48, 0, 2512, 1440, 48, 0, 2512, 1440\n",
			want:   geom.R(48, 0, 2512, 1440),
		},
		"property missing": {
			stdout: "_NET_WORKAREA:  not found.\n",
			err:    screen.ErrParseGeometry,
		},
		"too few values": {
			stdout: "_NET_WORKAREA = 0, 0, 1920\n",
			err:    screen.ErrParseGeometry,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{stdout: tc.stdout}
			p := screen.NewWorkArea(runner, execs.NewCommand(nil, "xprop"))

			got, err := p.AvailableGeometry(t.Context())
			assert.Equal(t, []string{"xprop -root -notype _NET_WORKAREA"}, runner.calls)

			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScreenshot_InvalidIndex(t *testing.T) {
	t.Parallel()

	_, err := screen.NewScreenshot(-1).AvailableGeometry(t.Context())
	require.ErrorIs(t, err, screen.ErrNoDisplay)
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	opts := screen.Options{
		Runner:  &fakeRunner{stdout: "800 600"},
		Xdotool: execs.NewCommand(nil, "xdotool"),
		Xprop:   execs.NewCommand(nil, "xprop"),
		Static:  geom.R(0, 0, 1280, 720),
	}

	tcs := map[string]struct {
		want     any
		provider string
		opts     screen.Options
		err      bool
	}{
		"xdotool": {
			provider: screen.ProviderXdotool,
			opts:     opts,
			want:     &screen.Xdotool{},
		},
		"workarea": {
			provider: screen.ProviderWorkArea,
			opts:     opts,
			want:     &screen.WorkArea{},
		},
		"screenshot": {
			provider: screen.ProviderScreenshot,
			opts:     opts,
			want:     &screen.Screenshot{},
		},
		"static": {
			provider: screen.ProviderStatic,
			opts:     opts,
			want:     screen.Static{},
		},
		"static without geometry": {
			provider: screen.ProviderStatic,
			opts:     screen.Options{},
			err:      true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := screen.NewProvider(tc.provider, tc.opts)
			if tc.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tc.want, p)
		})
	}

	_, err := screen.NewProvider("wayland", opts)
	require.ErrorIs(t, err, screen.ErrUnknownProvider)
}

func TestStatic_AvailableGeometry(t *testing.T) {
	t.Parallel()

	p, err := screen.NewProvider(screen.ProviderStatic, screen.Options{Static: geom.R(0, 0, 1280, 720)})
	require.NoError(t, err)

	got, err := p.AvailableGeometry(t.Context())
	require.NoError(t, err)
	assert.Equal(t, geom.R(0, 0, 1280, 720), got)
}
