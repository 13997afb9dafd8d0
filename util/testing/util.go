package testing_util

import (
	"os"
	"path/filepath"
	"testing"
)

func MkdirTemp(t *testing.T, prefix string) (path string, cleanup func()) {
	out, err := os.MkdirTemp(os.TempDir(), prefix)
	if err != nil {
		t.Fatalf("failed to create temporary directory: %v", err)
	}

	if err := os.Chmod(out, 0o777); err != nil {
		t.Fatalf("failed to make temporary directory accessible: %s", err)
	}

	return out, func() {
		os.RemoveAll(out)
	}
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %q: %v", path, err)
	}
	return path
}
