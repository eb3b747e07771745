package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// TextLoader handles plain-text files (.txt, .md).
type TextLoader struct{}

func (l *TextLoader) Detect(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}

func (l *TextLoader) Load(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}
	return newDocument(path, domain.FormatText, string(data)), nil
}
