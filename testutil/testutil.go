package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// IsolateEnv points every archive directory at a temp root and clears the
// environment overrides so tests never read the developer's config.
func IsolateEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("ARCHIVE_HOME", home)
	for _, key := range []string{"ARCHIVE_API_URL", "ARCHIVE_API_TOKEN", "ARCHIVE_LOG_LEVEL", "ARCHIVE_DEBUG", "ARCHIVE_THEME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

// WriteConfig writes archive.yml with content into dir and returns its path.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "archive.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteFile writes a file relative to dir, creating parents.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
