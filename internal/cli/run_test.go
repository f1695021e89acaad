package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/internal/cli"
	"github.com/macropower/gridpick/pkg/config"
	"github.com/macropower/gridpick/pkg/screen"
)

const staticConfig = `apiVersion: gridpick.macropower.dev/v1beta1
kind: Configuration
grid:
  cols: 6
  rows: 4
  padding: 10
display:
  provider: static
  static:
    x: 0
    y: 27
    width: 1920
    height: 1053
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestRun_Select(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want string
		args []string
	}{
		"left half": {
			args: []string{"--select", "0,0,2,3", "--dry-run"},
			want: "960x1052+0+27\n",
		},
		"single cell padded": {
			args: []string{"--select", "5,3,0,0", "--padded", "--dry-run"},
			want: "300x243+1610+826\n",
		},
		"out of range": {
			args: []string{"--select", "5,0,1,0", "--dry-run"},
			err:  screen.ErrIndexOutOfRange,
		},
		"span overflow": {
			args: []string{"--select", "1,0,9223372036854775807,0", "--dry-run"},
			err:  screen.ErrIndexOutOfRange,
		},
		"malformed": {
			args: []string{"--select", "left", "--dry-run"},
			err:  cli.ErrUsage,
		},
		"padded without select": {
			args: []string{"--padded"},
			err:  cli.ErrUsage,
		},
		"watch with select": {
			args: []string{"--select", "0,0,0,0", "--watch"},
			err:  cli.ErrUsage,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, staticConfig)

			out, err := execute(t, append([]string{"--config", path}, tc.args...)...)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRun_NotTerminal(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, staticConfig)

	_, err := execute(t, "--config", path, "--dry-run")
	require.ErrorIs(t, err, cli.ErrNotTerminal)
}

func TestRun_WriteConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gridpick", "config.yaml")

	_, err := execute(t, "--config", path, "--write-config")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigYAML(), b)
	assert.FileExists(t, filepath.Join(dir, "gridpick", config.SchemaFile))
}

func TestRun_ShowConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, staticConfig)

	out, err := execute(t, "--config", path, "--show-config")
	require.NoError(t, err)

	assert.Contains(t, out, "apiVersion: gridpick.macropower.dev/v1beta1")
	assert.Contains(t, out, "provider: static")
	assert.Contains(t, out, "height: 1053")
	assert.Contains(t, out, "backend: xdotool")
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, staticConfig+"unknown: true\n")

	_, err := execute(t, "--config", path, "--show-config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
