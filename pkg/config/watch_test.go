package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/pkg/config"
)

func TestWatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(header), 0o600))

	w, err := config.NewWatcher(path, config.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	ch := make(chan config.Reload)

	go w.Watch(t.Context(), ch)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(header+"grid:\n  cols: 9\n"), 0o600))

	select {
	case r := <-ch:
		require.NoError(t, r.Err)
		assert.Equal(t, 9, r.Config.Grid.Cols)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	require.NoError(t, os.WriteFile(path, []byte(header+"grid:\n  cols: 0\n"), 0o600))

	select {
	case r := <-ch:
		require.Error(t, r.Err)
		assert.Nil(t, r.Config)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := config.NewWatcher(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	require.Error(t, err)
}
