package loader

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// PDFLoader extracts plain text from PDF files.
type PDFLoader struct{}

func (l *PDFLoader) Detect(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

func (l *PDFLoader) Load(path string) (domain.Document, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}
	defer f.Close()

	reader, err := rdr.GetPlainText()
	if err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}

	return newDocument(path, domain.FormatPDF, buf.String()), nil
}
