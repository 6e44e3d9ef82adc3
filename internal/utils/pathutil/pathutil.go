package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// SafeJoin joins a slash separated object key onto root and refuses keys
// that would resolve outside of it.
func SafeJoin(root, key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash("/" + key))
	joined := filepath.Join(root, cleaned)

	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	return joined, nil
}
