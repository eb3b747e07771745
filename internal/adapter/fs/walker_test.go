package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalker_ExpandDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.txt",
		"docs/b.md",
		"docs/c.pdf",
		"image.png",
		".ragqa/index.db",
	)

	w := NewWalker(
		[]string{"**/*.txt", "**/*.md", "**/*.pdf"},
		[]string{"**/.ragqa/**"},
	)

	files, err := w.Expand([]string{root})
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		got[rel] = true
	}

	for _, want := range []string{"a.txt", filepath.Join("docs", "b.md"), filepath.Join("docs", "c.pdf")} {
		if !got[want] {
			t.Errorf("expected %s in results, got %v", want, got)
		}
	}
	if got["image.png"] {
		t.Error("png should not match includes")
	}
	if got[filepath.Join(".ragqa", "index.db")] {
		t.Error("excluded path leaked into results")
	}
}

func TestWalker_ExpandFilePassesThrough(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "standalone.docx")

	// Includes do not apply to explicitly named files.
	w := NewWalker([]string{"**/*.txt"}, nil)

	path := filepath.Join(root, "standalone.docx")
	files, err := w.Expand([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("expected the named file back, got %v", files)
	}
}

func TestWalker_ExpandMissingPath(t *testing.T) {
	w := NewWalker(nil, nil)
	if _, err := w.Expand([]string{"/nonexistent/path"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestWalker_ExcludedDirectorySkipped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "keep/a.txt", "skip/b.txt")

	w := NewWalker([]string{"**/*.txt"}, []string{"skip/**"})

	files, err := w.Expand([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.txt" {
		t.Errorf("expected a.txt, got %s", files[0])
	}
}
