package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "state.yml"))
	require.NoError(t, err)
	assert.Empty(t, s.SelectedField)
	assert.Empty(t, s.History)
	assert.NotNil(t, s.Values)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yml")

	s := &State{SelectedField: "work"}
	s.PushHistory("status of @work project", 10)
	s.Values = map[string]interface{}{"last_view": "map"}
	require.NoError(t, s.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "work", loaded.SelectedField)
	assert.Equal(t, []string{"status of @work project"}, loaded.History)
	assert.Equal(t, "map", loaded.Values["last_view"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("ARCHIVE_HOME", t.TempDir())

	s, err := Load()
	require.NoError(t, err)
	s.SelectedField = "health"
	require.NoError(t, s.Save())

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "health", reloaded.SelectedField)
}

func TestPushHistory(t *testing.T) {
	s := &State{}
	for _, q := range []string{"a", "b", "b", "c", "d"} {
		s.PushHistory(q, 3)
	}
	assert.Equal(t, []string{"b", "c", "d"}, s.History)

	s.PushHistory("", 3)
	assert.Len(t, s.History, 3)

	s.PushHistory("e", 0)
	assert.Nil(t, s.History)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("history: [unterminated"), 0o644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}
