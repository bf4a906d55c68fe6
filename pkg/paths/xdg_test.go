package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortableHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ARCHIVE_HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "/ignored")

	assert.Equal(t, filepath.Join(home, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(home, "state"), StateDir())
	assert.Equal(t, filepath.Join(home, "cache"), CacheDir())
	assert.Equal(t, filepath.Join(home, "config", "archive.yml"), GlobalConfigFile())
	assert.Equal(t, filepath.Join(home, "state", "logs", "archive.log"), LogFile())

	require.NoError(t, EnsureDirs())
	for _, dir := range []string{ConfigDir(), StateDir(), CacheDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestXDGVariables(t *testing.T) {
	t.Setenv("ARCHIVE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, filepath.Join("/xdg/config", AppName), ConfigDir())
	assert.Equal(t, filepath.Join("/xdg/state", AppName, "state.yml"), StateFile())
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ARCHIVE_NOTES", "notes")

	got, err := Expand("~/$ARCHIVE_NOTES/today.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "today.md"), got)

	got, err = Expand("rel.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
