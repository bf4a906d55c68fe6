// Package paths resolves the XDG directories used by archive.
//
// Resolution order:
// 1. ARCHIVE_HOME (portable root) → $ARCHIVE_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/grove-archive
// 3. Platform defaults → ~/.config/grove-archive, ~/.local/state/grove-archive, etc.
package paths

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "grove-archive"

func baseDir(portable, xdgVar string, fallback ...string) string {
	if home := os.Getenv("ARCHIVE_HOME"); home != "" {
		return filepath.Join(home, portable)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		parts := append([]string{homeDir}, fallback...)
		return filepath.Join(append(parts, AppName)...)
	}
	return ""
}

// ConfigDir returns the directory holding the global archive.yml.
func ConfigDir() string {
	return baseDir("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for runtime state and logs.
func StateDir() string {
	return baseDir("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir returns the directory for regenerable data.
func CacheDir() string {
	return baseDir("cache", "XDG_CACHE_HOME", ".cache")
}

// GlobalConfigFile returns the path of the global configuration file.
func GlobalConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "archive.yml")
}

// StateFile returns the path of the persisted TUI state.
func StateFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.yml")
}

// LogFile returns the default log file path.
func LogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "logs", "archive.log")
}

// EnsureDirs creates the archive directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), CacheDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
