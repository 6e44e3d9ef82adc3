package pathutil

import (
	"path/filepath"
	"testing"
)

func TestSafeJoin(t *testing.T) {
	root := filepath.FromSlash("/srv/assets")

	got, err := SafeJoin(root, "abstract/1700000000000.png")
	if err != nil {
		t.Fatalf("SafeJoin() error = %v", err)
	}
	if want := filepath.Join(root, "abstract", "1700000000000.png"); got != want {
		t.Errorf("SafeJoin() = %q, want %q", got, want)
	}

	// Leading traversal is clamped to the root rather than escaping it.
	got, err = SafeJoin(root, "../../etc/passwd")
	if err != nil {
		t.Fatalf("SafeJoin() error = %v", err)
	}
	if want := filepath.Join(root, "etc", "passwd"); got != want {
		t.Errorf("SafeJoin() = %q, want %q", got, want)
	}

	if _, err := SafeJoin(root, ""); err == nil {
		t.Error("expected error for empty key")
	}
}
