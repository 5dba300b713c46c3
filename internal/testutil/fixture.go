package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteSource writes a PL/SQL fixture into a fresh temporary directory and
// returns its path. A leading newline is dropped so fixtures can start on
// the line after the opening backquote.
func WriteSource(t testing.TB, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimPrefix(src, "\n")), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
