package index

import (
	"strings"
	"testing"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
)

func item(id string, vector ...float32) port.VectorItem {
	return port.VectorItem{
		Chunk:  domain.Chunk{ID: id, DocID: "doc-" + id, Text: "chunk " + id},
		Vector: vector,
	}
}

func TestMemoryIndex_EmptyQuery(t *testing.T) {
	x := NewMemoryIndex(2)

	results, err := x.Query([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d", len(results))
	}
}

func TestMemoryIndex_SelfSimilarityRanksFirst(t *testing.T) {
	x := NewMemoryIndex(3)

	// Orthogonal vectors: only "b" matches the query exactly.
	err := x.Add([]port.VectorItem{
		item("a", 1, 0, 0),
		item("b", 0, 1, 0),
		item("c", 0, 0, 1),
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := x.Query([]float32{0, 1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if results[0].Chunk.ID != "b" {
		t.Errorf("expected b first, got %s", results[0].Chunk.ID)
	}
	if results[0].Score < 0.999 {
		t.Errorf("expected self-similarity ~1, got %f", results[0].Score)
	}
	for _, r := range results[1:] {
		if r.Score >= results[0].Score {
			t.Errorf("distinct vector %s scored %f >= self score %f", r.Chunk.ID, r.Score, results[0].Score)
		}
	}
}

func TestMemoryIndex_DescendingOrderAndRanks(t *testing.T) {
	x := NewMemoryIndex(2)

	if err := x.Add([]port.VectorItem{
		item("far", 0, 1),
		item("near", 1, 0.1),
		item("exact", 1, 0),
	}); err != nil {
		t.Fatal(err)
	}

	results, err := x.Query([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending order at %d", i)
		}
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, r.Rank)
		}
	}
	if results[0].Chunk.ID != "exact" {
		t.Errorf("expected exact first, got %s", results[0].Chunk.ID)
	}
}

func TestMemoryIndex_TieBrokenByInsertionOrder(t *testing.T) {
	x := NewMemoryIndex(2)

	// Identical vectors: identical scores, earliest insertion wins.
	if err := x.Add([]port.VectorItem{
		item("first", 1, 0),
		item("second", 1, 0),
		item("third", 1, 0),
	}); err != nil {
		t.Fatal(err)
	}

	results, err := x.Query([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first", "second", "third"}
	for i, r := range results {
		if r.Chunk.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], r.Chunk.ID)
		}
	}
}

func TestMemoryIndex_TopKClamped(t *testing.T) {
	x := NewMemoryIndex(2)

	if err := x.Add([]port.VectorItem{
		item("a", 1, 0),
		item("b", 0, 1),
	}); err != nil {
		t.Fatal(err)
	}

	results, err := x.Query([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected all 2 results when k exceeds count, got %d", len(results))
	}
}

func TestMemoryIndex_ReAddReplacesKeepingPosition(t *testing.T) {
	x := NewMemoryIndex(2)

	if err := x.Add([]port.VectorItem{
		item("a", 1, 0),
		item("b", 1, 0),
	}); err != nil {
		t.Fatal(err)
	}

	// Replace "a" with the same vector; it must not duplicate, and it
	// must keep beating "b" on ties.
	if err := x.Add([]port.VectorItem{item("a", 1, 0)}); err != nil {
		t.Fatal(err)
	}

	if x.Len() != 2 {
		t.Fatalf("expected 2 entries after re-add, got %d", x.Len())
	}

	results, err := x.Query([]float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Chunk.ID != "a" {
		t.Errorf("re-added chunk lost its insertion position, got %s first", results[0].Chunk.ID)
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	x := NewMemoryIndex(3)

	if err := x.Add([]port.VectorItem{item("a", 1, 0)}); err == nil {
		t.Error("expected error adding a 2-d vector to a 3-d index")
	}
	if _, err := x.Query([]float32{1, 0}, 1); err == nil {
		t.Error("expected error querying with a 2-d vector")
	}
}

func TestMemoryIndex_Clear(t *testing.T) {
	x := NewMemoryIndex(2)
	if err := x.Add([]port.VectorItem{item("a", 1, 0)}); err != nil {
		t.Fatal(err)
	}
	if err := x.Clear(); err != nil {
		t.Fatal(err)
	}
	if x.Len() != 0 {
		t.Errorf("expected empty index after clear, got %d", x.Len())
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestMemoryIndex_ManyChunksStableUnderRepeat(t *testing.T) {
	x := NewMemoryIndex(4)

	var items []port.VectorItem
	for i := 0; i < 50; i++ {
		id := "chunk-" + strings.Repeat("x", i%5) + string(rune('a'+i%26))
		vec := []float32{float32(i % 7), float32(i % 5), float32(i % 3), 1}
		items = append(items, item(id, vec...))
	}
	if err := x.Add(items); err != nil {
		t.Fatal(err)
	}

	first, err := x.Query([]float32{1, 2, 3, 4}, 10)
	if err != nil {
		t.Fatal(err)
	}
	second, err := x.Query([]float32{1, 2, 3, 4}, 10)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i].Chunk.ID != second[i].Chunk.ID {
			t.Fatalf("query not deterministic at position %d", i)
		}
	}
}
