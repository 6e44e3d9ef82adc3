package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ExampleConfigFile = "config.example.yaml"
	ExampleEnvFile    = ".env.example"
)

// WriteExampleFiles creates dir and writes the example config and env files
// into it. Existing files are left alone. It returns the paths it wrote.
func WriteExampleFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	files := []struct {
		name    string
		content string
	}{
		{ExampleConfigFile, configTemplate},
		{ExampleEnvFile, envTemplate},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		ok, err := writeIfMissing(path, f.content)
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", f.name, err)
		}
		if ok {
			written = append(written, path)
		}
	}

	return written, nil
}

func writeIfMissing(path, content string) (bool, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return false, err
	}
	return true, nil
}
