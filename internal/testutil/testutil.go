// Package testutil provides common test helpers for the cprof project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/cprof/internal/paths"
)

// TempRepoDir creates a temporary directory with an empty .git metadata
// directory, enough for repository detection without invoking git.
func TempRepoDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatalf("TempRepoDir: mkdir .git failed: %v", err)
	}
	return dir
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// TempIdentitiesFile creates a temporary identities.json with the given content
// and returns its path.
func TempIdentitiesFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "identities.json")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempIdentitiesFile: write failed: %v", err)
	}

	return path
}

// TempLayout returns a POSIX layout rooted in a fresh temporary home.
// Nothing is created on disk.
func TempLayout(t *testing.T) paths.Layout {
	t.Helper()

	return paths.Resolve(paths.FamilyPOSIX, t.TempDir(), "Cursor")
}

// MakeProfile creates both store directories for name, each holding a
// marker file whose content is "<tree>:<name>".
func MakeProfile(t *testing.T, l paths.Layout, name string) {
	t.Helper()

	for _, tree := range l.Trees() {
		dir := filepath.Join(tree.Store, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("MakeProfile: mkdir failed: %v", err)
		}
		marker := filepath.Join(dir, "marker")
		if err := os.WriteFile(marker, []byte(tree.Name+":"+name), 0644); err != nil {
			t.Fatalf("MakeProfile: write marker failed: %v", err)
		}
	}
}

// LinkProfile points both live paths at name's store directories.
func LinkProfile(t *testing.T, l paths.Layout, name string) {
	t.Helper()

	for _, tree := range l.Trees() {
		if err := os.MkdirAll(filepath.Dir(tree.Live), 0755); err != nil {
			t.Fatalf("LinkProfile: mkdir failed: %v", err)
		}
		_ = os.Remove(tree.Live) // absent is fine
		if err := os.Symlink(filepath.Join(tree.Store, name), tree.Live); err != nil {
			t.Fatalf("LinkProfile: symlink failed: %v", err)
		}
	}
}

// ReadLink returns the symlink target of path, or "" when path is not a symlink.
func ReadLink(t *testing.T, path string) string {
	t.Helper()

	target, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	return target
}
