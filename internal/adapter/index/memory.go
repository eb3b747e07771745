package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
)

// MemoryIndex is a flat in-memory vector index scanned linearly per
// query. One writer at a time; readers query under a shared lock and
// may observe a partially loaded index during bulk ingestion, which
// is accepted behavior.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []port.VectorItem
	position  map[string]int // chunk ID -> slot in entries
}

func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		position:  make(map[string]int),
	}
}

// Add inserts items. Re-adding a chunk ID replaces the stored item in
// place, preserving its original insertion position so tie-breaking
// by insertion order stays stable.
func (x *MemoryIndex) Add(items []port.VectorItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, item := range items {
		if len(item.Vector) != x.dimension {
			return fmt.Errorf("vector dimension mismatch for chunk %s: expected %d, got %d",
				item.Chunk.ID, x.dimension, len(item.Vector))
		}
		if pos, ok := x.position[item.Chunk.ID]; ok {
			x.entries[pos] = item
			continue
		}
		x.position[item.Chunk.ID] = len(x.entries)
		x.entries = append(x.entries, item)
	}
	return nil
}

// Query scores every stored vector against the query by cosine
// similarity and returns up to k results in strictly descending
// order, ties broken by insertion order. k beyond the stored count
// returns everything; an empty index returns an empty slice.
func (x *MemoryIndex) Query(vector []float32, k int) ([]domain.RetrievalResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(vector) != x.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", x.dimension, len(vector))
	}
	if len(x.entries) == 0 || k <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	results := make([]domain.RetrievalResult, len(x.entries))
	for i, entry := range x.entries {
		results[i] = domain.RetrievalResult{
			Chunk: entry.Chunk,
			Score: CosineSimilarity(vector, entry.Vector),
		}
	}

	// Stable sort keeps earlier insertions first on equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	results = results[:k]
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// Len returns the number of stored vectors.
func (x *MemoryIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Items returns a snapshot of the stored items in insertion order.
func (x *MemoryIndex) Items() []port.VectorItem {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]port.VectorItem, len(x.entries))
	copy(out, x.entries)
	return out
}

// Clear removes all stored vectors.
func (x *MemoryIndex) Clear() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.position = make(map[string]int)
	return nil
}

// CosineSimilarity calculates the cosine similarity between two
// vectors of equal length.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
