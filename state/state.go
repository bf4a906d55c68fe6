// Package state persists small pieces of TUI state between runs, such as the
// last selected query field and the agent query history.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/grovetools/archive/pkg/paths"
)

// State is the contents of state.yml.
type State struct {
	// SelectedField is the category chosen from the field picker, if any.
	SelectedField string `yaml:"selected_field,omitempty"`
	// History holds submitted queries, oldest first.
	History []string `yaml:"history,omitempty"`
	// Values keeps keys this version does not know so they survive a save.
	Values map[string]interface{} `yaml:",inline"`
}

// Path returns the state file location.
func Path() (string, error) {
	path := paths.StateFile()
	if path == "" {
		return "", fmt.Errorf("cannot determine state directory")
	}
	return path, nil
}

// Load loads the state from the default state file.
// Returns an empty state if the file doesn't exist.
func Load() (*State, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the state from path.
func LoadFrom(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Values: make(map[string]interface{})}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if s.Values == nil {
		s.Values = make(map[string]interface{})
	}
	return &s, nil
}

// Save writes the state to the default state file.
func (s *State) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return s.SaveTo(path)
}

// SaveTo writes the state to path, creating parent directories.
func (s *State) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// PushHistory appends query, skipping immediate repeats, and keeps at most
// limit entries. A limit of zero disables history.
func (s *State) PushHistory(query string, limit int) {
	if limit <= 0 {
		s.History = nil
		return
	}
	if query == "" {
		return
	}
	if n := len(s.History); n > 0 && s.History[n-1] == query {
		return
	}
	s.History = append(s.History, query)
	if over := len(s.History) - limit; over > 0 {
		s.History = append([]string(nil), s.History[over:]...)
	}
}
