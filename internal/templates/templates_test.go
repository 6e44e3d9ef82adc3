package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestWriteExampleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	written, err := WriteExampleFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}

	custom := []byte("port: 9000\n")
	configPath := filepath.Join(dir, ExampleConfigFile)
	if err := os.WriteFile(configPath, custom, 0o644); err != nil {
		t.Fatal(err)
	}

	written, err = WriteExampleFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 0 {
		t.Errorf("second run wrote %v", written)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != string(custom) {
		t.Errorf("existing file overwritten: %q", content)
	}
}

func TestConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(GetConfigTemplate()), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("template is not valid yaml: %v", err)
	}

	if got := v.GetInt("generation.daily_count"); got != 10 {
		t.Errorf("daily_count = %d", got)
	}
	if got := v.GetDuration("generation.batch_delay").String(); got != "2s" {
		t.Errorf("batch_delay = %s", got)
	}
}
