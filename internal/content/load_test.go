package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileTitleFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "haiku.txt", "(古池/ふるいけ)や\n")
	c, source, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.Title != "haiku" {
		t.Fatalf("expected title from file name, got %q", c.Title)
	}
	if source != "(古池/ふるいけ)や\n" {
		t.Fatalf("unexpected source %q", source)
	}
}

func TestLoadDirOrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "#title B\nbb\n")
	writeFile(t, dir, "a.ntq", "#title A\naa\n")
	writeFile(t, dir, "notes.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	loaded, err := LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 files, got %d", len(loaded))
	}
	if loaded[0].Content.Title != "A" || loaded[1].Content.Title != "B" {
		t.Fatalf("unexpected order: %q, %q", loaded[0].Content.Title, loaded[1].Content.Title)
	}
}

func TestLoadFilesReportsParseError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "ok\n")
	bad := writeFile(t, dir, "bad.txt", "(broken\n")
	if _, err := LoadFiles(context.Background(), []string{good, bad}); err == nil {
		t.Fatalf("expected parse error")
	}
}
