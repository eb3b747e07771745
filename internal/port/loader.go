package port

import "github.com/Roshanchokhani/rag-document-qa/internal/domain"

// FormatLoader loads one document format. New formats plug in without
// touching the chunker or the index.
type FormatLoader interface {
	// Detect reports whether this loader handles the given path.
	Detect(path string) bool

	// Load reads and normalizes the file into a Document.
	Load(path string) (domain.Document, error)
}
