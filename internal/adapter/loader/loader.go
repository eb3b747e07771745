package loader

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
)

// Registry selects a format loader per file. Formats are tried in
// registration order; the first Detect match wins.
type Registry struct {
	loaders []port.FormatLoader
}

// NewRegistry creates a registry with the default formats: plain
// text, PDF and DOCX.
func NewRegistry() *Registry {
	return &Registry{
		loaders: []port.FormatLoader{
			&TextLoader{},
			&PDFLoader{},
			&DocxLoader{},
		},
	}
}

// Register appends an additional format loader.
func (r *Registry) Register(l port.FormatLoader) {
	r.loaders = append(r.loaders, l)
}

// Supported reports whether any registered loader handles the path.
func (r *Registry) Supported(path string) bool {
	for _, l := range r.loaders {
		if l.Detect(path) {
			return true
		}
	}
	return false
}

// Load reads the file into a normalized Document. An empty file
// yields a Document with empty text; the caller decides whether to
// skip it. Returns domain.ErrUnsupportedFormat when no loader
// recognizes the path.
func (r *Registry) Load(path string) (domain.Document, error) {
	for _, l := range r.loaders {
		if l.Detect(path) {
			return l.Load(path)
		}
	}
	return domain.Document{}, domain.ErrUnsupportedFormat
}

// newDocument builds a Document with normalized text. The ID is a
// name-based UUID derived from the source path, so re-loading a file
// yields the same document and chunk IDs and the index replaces its
// vectors instead of duplicating them.
func newDocument(path string, format domain.Format, raw string) domain.Document {
	return domain.Document{
		ID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String(),
		Source: path,
		Name:   filepath.Base(path),
		Format: format,
		Text:   Normalize(raw),
	}
}
