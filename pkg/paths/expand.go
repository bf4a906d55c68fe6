package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading ~ and $VAR references and returns an absolute path.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(os.ExpandEnv(path))
}
