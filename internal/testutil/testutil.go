// Package testutil holds helpers shared by tests that build small UnitsTool
// projects on disk.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteTree writes files (slash-separated path -> content) under root,
// creating directories as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// FileAssertions checks the state of an output tree.
type FileAssertions struct {
	t       testing.TB
	baseDir string
}

// NewFileAssertions creates assertions rooted at baseDir.
func NewFileAssertions(t testing.TB, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// Exists fails unless every rel is a regular file.
func (fa *FileAssertions) Exists(rels ...string) *FileAssertions {
	fa.t.Helper()
	for _, rel := range rels {
		st, err := os.Stat(fa.path(rel))
		switch {
		case err != nil:
			fa.t.Errorf("expected %s to exist: %v", rel, err)
		case !st.Mode().IsRegular():
			fa.t.Errorf("expected %s to be a regular file", rel)
		}
	}
	return fa
}

// Missing fails if rel exists.
func (fa *FileAssertions) Missing(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("expected %s not to exist", rel)
	}
	return fa
}

// Contains fails unless rel contains want.
func (fa *FileAssertions) Contains(rel, want string) *FileAssertions {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel)) // #nosec G304 -- test paths
	if err != nil {
		fa.t.Errorf("read %s: %v", rel, err)
		return fa
	}
	if !strings.Contains(string(data), want) {
		fa.t.Errorf("expected %s to contain %q\ngot:\n%s", rel, want, data)
	}
	return fa
}

// FileCount fails unless dir holds exactly n regular files (not recursive).
func (fa *FileAssertions) FileCount(dir string, n int) *FileAssertions {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(dir))
	if err != nil {
		fa.t.Errorf("read dir %s: %v", dir, err)
		return fa
	}
	got := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			got++
		}
	}
	if got != n {
		fa.t.Errorf("expected %d files in %s, found %d", n, dir, got)
	}
	return fa
}
