package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// WindowChunker splits a document into fixed-size overlapping chunks
// by sliding a window over the document's runes. Window i starts at
// i*(size-overlap) and spans size runes; the final chunk is truncated
// to whatever remains. Output is fully determined by the input text
// and the configuration.
type WindowChunker struct {
	size       int
	overlap    int
	separators []string // optional boundary snapping, empty = strict windows
}

// NewWindowChunker validates the configuration and returns a strict
// fixed-width chunker. Requires 0 <= overlap < size.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, &domain.InvalidChunkConfigError{Size: size, Overlap: overlap}
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// WithSeparators enables boundary snapping: a window end is pulled
// back to just after the last occurrence of any separator in the
// window, so chunks prefer to break at paragraph or sentence
// boundaries. The next window then starts overlap runes before the
// snapped end. Snapping trades exact chunk widths for cleaner
// boundaries; it stays deterministic.
func (c *WindowChunker) WithSeparators(seps []string) *WindowChunker {
	c.separators = seps
	return c
}

// Chunk splits the document. A document shorter than the chunk size
// yields exactly one chunk holding the full text.
func (c *WindowChunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	runes := []rune(doc.Text)
	n := len(runes)

	if n <= c.size {
		return []domain.Chunk{c.makeChunk(doc, 0, 0, n, runes)}, nil
	}

	if len(c.separators) > 0 {
		return c.chunkSnapped(doc, runes), nil
	}

	stride := c.size - c.overlap
	var chunks []domain.Chunk
	for seq, start := 0, 0; start < n; seq, start = seq+1, start+stride {
		end := start + c.size
		if end > n {
			end = n
		}
		chunks = append(chunks, c.makeChunk(doc, seq, start, end, runes))
		if end == n {
			break
		}
	}
	return chunks, nil
}

// chunkSnapped slides the window like the strict mode but pulls each
// window end back to the nearest separator, keeping at least half the
// window so a separator-free prefix cannot stall progress.
func (c *WindowChunker) chunkSnapped(doc domain.Document, runes []rune) []domain.Chunk {
	n := len(runes)
	var chunks []domain.Chunk

	start := 0
	for seq := 0; start < n; seq++ {
		end := start + c.size
		if end >= n {
			chunks = append(chunks, c.makeChunk(doc, seq, start, n, runes))
			break
		}

		if snapped := c.snapEnd(runes, start, end); snapped > start {
			end = snapped
		}
		chunks = append(chunks, c.makeChunk(doc, seq, start, end, runes))
		start = end - c.overlap
	}

	return chunks
}

// snapEnd returns the position just after the last separator found in
// the tail of the window, or 0 when none is found there. The floor
// keeps at least half the window and always sits past start+overlap,
// so the next window start (snapped end minus overlap) strictly
// advances even when overlap >= size/2.
func (c *WindowChunker) snapEnd(runes []rune, start, end int) int {
	floor := start + c.size/2
	if min := start + c.overlap + 1; min > floor {
		floor = min
	}
	if floor >= end {
		return 0
	}
	window := string(runes[floor:end])

	best := -1
	for _, sep := range c.separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			if after := i + len(sep); after > best {
				best = after
			}
		}
	}
	if best < 0 {
		return 0
	}
	return floor + len([]rune(window[:best]))
}

func (c *WindowChunker) makeChunk(doc domain.Document, seq, start, end int, runes []rune) domain.Chunk {
	return domain.Chunk{
		ID:          chunkID(doc.ID, start, end),
		DocID:       doc.ID,
		Source:      doc.Name,
		Seq:         seq,
		Text:        string(runes[start:end]),
		StartOffset: start,
		EndOffset:   end,
	}
}

func chunkID(docID string, start, end int) string {
	data := fmt.Sprintf("%s:%d-%d", docID, start, end)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
