package port

import "github.com/Roshanchokhani/rag-document-qa/internal/domain"

type Chunker interface {
	Chunk(doc domain.Document) ([]domain.Chunk, error)
}
