package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// DocxLoader extracts paragraph text from Word documents. A .docx
// file is a zip archive; the document body lives in
// word/document.xml as WordprocessingML.
type DocxLoader struct{}

func (l *DocxLoader) Detect(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".docx"
}

func (l *DocxLoader) Load(path string) (domain.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}
	defer zr.Close()

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
			}
			break
		}
	}
	if body == nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: fmt.Errorf("missing word/document.xml")}
	}
	defer body.Close()

	text, err := extractDocxText(body)
	if err != nil {
		return domain.Document{}, &domain.CorruptFileError{Path: path, Err: err}
	}

	return newDocument(path, domain.FormatDocx, text), nil
}

// extractDocxText walks the WordprocessingML token stream collecting
// the character data of w:t runs, with a newline per w:p paragraph.
func extractDocxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
