package port

import "github.com/Roshanchokhani/rag-document-qa/internal/domain"

// VectorItem pairs a chunk with its embedding vector.
type VectorItem struct {
	Chunk  domain.Chunk
	Vector []float32
}

// VectorIndex holds chunk vectors and ranks them against a query
// vector. Implementations are flat scans today; an ANN structure can
// substitute behind the same contract without changing callers.
type VectorIndex interface {
	// Add inserts items. Idempotent per chunk ID: re-adding an ID
	// replaces the stored item and keeps its original insertion
	// position, so tie-breaking stays stable.
	Add(items []VectorItem) error

	// Query returns up to k results in strictly descending score
	// order, ties broken by insertion order. k larger than the stored
	// count returns everything; an empty index returns an empty slice.
	Query(vector []float32, k int) ([]domain.RetrievalResult, error)

	// Len returns the number of stored vectors.
	Len() int

	// Items returns a snapshot of the stored items in insertion
	// order. Linear in index size; meant for stats and inspection.
	Items() []VectorItem

	// Clear removes all stored vectors.
	Clear() error
}
