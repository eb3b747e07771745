package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

func TestRegistrySupported(t *testing.T) {
	r := NewRegistry()

	supported := []string{"notes.txt", "README.md", "paper.PDF", "report.docx"}
	for _, p := range supported {
		if !r.Supported(p) {
			t.Errorf("expected %s to be supported", p)
		}
	}

	unsupported := []string{"image.png", "data.csv", "archive.zip", "noext"}
	for _, p := range unsupported {
		if r.Supported(p) {
			t.Errorf("expected %s to be unsupported", p)
		}
	}
}

func TestRegistryLoad_Unsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.Load("photo.jpg")
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTextLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := "First paragraph.\n\nSecond   paragraph."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	doc, err := r.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Format != domain.FormatText {
		t.Errorf("expected format text, got %s", doc.Format)
	}
	if doc.Name != "doc.txt" {
		t.Errorf("expected name doc.txt, got %s", doc.Name)
	}
	if doc.Source != path {
		t.Errorf("expected source %s, got %s", path, doc.Source)
	}
	if doc.ID == "" {
		t.Error("expected non-empty document ID")
	}
	want := "First paragraph.\nSecond paragraph."
	if doc.Text != want {
		t.Errorf("expected text %q, got %q", want, doc.Text)
	}
}

func TestTextLoader_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewRegistry().Load(path)
	if err != nil {
		t.Fatalf("empty file should load without error, got %v", err)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestTextLoader_MissingFile(t *testing.T) {
	_, err := NewRegistry().Load(filepath.Join(t.TempDir(), "missing.txt"))
	var corrupt *domain.CorruptFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptFileError, got %v", err)
	}
}

func TestLoad_StableDocumentID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("some content"), 0644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(other, []byte("some content"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	first, err := r.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	// The ID follows the source path, so re-loading a file replaces
	// its chunks in the index instead of duplicating them.
	if first.ID != second.ID {
		t.Errorf("same path yielded different IDs: %s vs %s", first.ID, second.ID)
	}

	distinct, err := r.Load(other)
	if err != nil {
		t.Fatal(err)
	}
	if distinct.ID == first.ID {
		t.Errorf("different paths share ID %s", first.ID)
	}
}

func TestDocxLoader(t *testing.T) {
	path := writeTestDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t> world</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	doc, err := NewRegistry().Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Format != domain.FormatDocx {
		t.Errorf("expected format docx, got %s", doc.Format)
	}
	want := "Hello world\nSecond paragraph"
	if doc.Text != want {
		t.Errorf("expected text %q, got %q", want, doc.Text)
	}
}

func TestDocxLoader_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRegistry().Load(path)
	var corrupt *domain.CorruptFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptFileError, got %v", err)
	}
}

func TestPDFLoader_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-not-really"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRegistry().Load(path)
	var corrupt *domain.CorruptFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptFileError, got %v", err)
	}
}

// writeTestDocx packages the given document.xml into a minimal .docx.
func writeTestDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}
