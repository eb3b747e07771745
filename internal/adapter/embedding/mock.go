package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// StubEmbedder produces deterministic bag-of-words vectors without
// any network calls: each token hashes to one component, so texts
// sharing keywords score higher cosine similarity than texts sharing
// none. Used by the "mock" provider and by tests.
type StubEmbedder struct {
	dimension int
	synonyms  map[string][]string
}

func NewStubEmbedder(dimension int) *StubEmbedder {
	return &StubEmbedder{dimension: dimension}
}

// WithSynonyms folds extra tokens into each occurrence of a keyword,
// so e.g. "pets" can be made to overlap with "dogs". Expansion is
// part of the configuration, keeping output deterministic.
func (e *StubEmbedder) WithSynonyms(synonyms map[string][]string) *StubEmbedder {
	e.synonyms = synonyms
	return e
}

func (e *StubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

func (e *StubEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, token := range tokenize(text) {
		vec[e.slot(token)]++
		for _, syn := range e.synonyms[token] {
			vec[e.slot(syn)]++
		}
	}

	// L2 normalize so cosine similarity reduces to a dot product.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec
}

func (e *StubEmbedder) slot(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimension))
}

func (e *StubEmbedder) Dimension() int { return e.dimension }

func (e *StubEmbedder) ModelName() string { return "stub" }

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
