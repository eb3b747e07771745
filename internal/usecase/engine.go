package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/cache"
	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/loader"
	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
)

// Params wires an Engine. TopK must be positive; Concurrency and
// Logger are optional.
type Params struct {
	Loader      *loader.Registry
	Chunker     port.Chunker
	Embedder    port.Embedder
	Index       port.VectorIndex
	TopK        int
	MinScore    float64 // drop results scoring below this (0 = keep all)
	Concurrency int     // parallel document ingests, default 4
	Logger      *slog.Logger

	// OnDocument, when set, is called once per document as its ingest
	// finishes, successful or not. Calls may come from concurrent
	// goroutines.
	OnDocument func(source string)
}

// Engine orchestrates the pipeline: load -> chunk -> embed -> index
// at ingest time, embed -> rank -> cite at query time. It owns the
// session state for one corpus; create independent engines for
// independent corpora.
type Engine struct {
	loader      *loader.Registry
	chunker     port.Chunker
	embedder    port.Embedder
	index       port.VectorIndex
	cache       *cache.AnswerCache
	topK        int
	minScore    float64
	concurrency int
	logger      *slog.Logger
	onDocument  func(source string)
}

func NewEngine(p Params) *Engine {
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		loader:      p.Loader,
		chunker:     p.Chunker,
		embedder:    p.Embedder,
		index:       p.Index,
		cache:       cache.NewAnswerCache(100, 5*time.Minute),
		topK:        p.TopK,
		minScore:    p.MinScore,
		concurrency: p.Concurrency,
		logger:      p.Logger,
		onDocument:  p.OnDocument,
	}
}

// LoadCorpus ingests each file independently: one document's failure
// never aborts the rest, it is reported instead. Documents run
// through the pipeline concurrently; the index is the only shared
// writer and synchronizes internally. The report lists outcomes in
// input order.
func (e *Engine) LoadCorpus(ctx context.Context, paths []string) (domain.LoadReport, error) {
	type outcome struct {
		loaded domain.LoadedDoc
		err    error
	}
	outcomes := make([]outcome, len(paths))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			loaded, err := e.ingest(ctx, path)
			outcomes[i] = outcome{loaded: loaded, err: err}
			if e.onDocument != nil {
				e.onDocument(path)
			}
		}(i, path)
	}
	wg.Wait()

	var report domain.LoadReport
	for i, out := range outcomes {
		if out.err != nil {
			e.logger.Warn("document ingest failed", "source", paths[i], "error", out.err)
			report.Failed = append(report.Failed, domain.FailedDoc{
				Source: paths[i],
				Reason: out.err.Error(),
			})
			continue
		}
		report.Loaded = append(report.Loaded, out.loaded)
	}

	if len(report.Loaded) > 0 {
		e.cache.Invalidate()
	}
	return report, ctx.Err()
}

// ingest runs one document through load -> chunk -> embed -> index.
func (e *Engine) ingest(ctx context.Context, path string) (domain.LoadedDoc, error) {
	doc, err := e.loader.Load(path)
	if err != nil {
		return domain.LoadedDoc{}, err
	}

	// Empty documents are loadable but have nothing to index.
	if doc.Text == "" {
		return domain.LoadedDoc{Source: path, DocID: doc.ID, Chunks: 0}, nil
	}

	chunks, err := e.chunker.Chunk(doc)
	if err != nil {
		return domain.LoadedDoc{}, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return domain.LoadedDoc{}, err
	}
	if len(vectors) != len(chunks) {
		return domain.LoadedDoc{}, &domain.InvalidResponseError{
			Reason: fmt.Sprintf("expected %d vectors, got %d", len(chunks), len(vectors)),
		}
	}

	items := make([]port.VectorItem, len(chunks))
	for i := range chunks {
		items[i] = port.VectorItem{Chunk: chunks[i], Vector: vectors[i]}
	}
	if err := e.index.Add(items); err != nil {
		return domain.LoadedDoc{}, err
	}

	return domain.LoadedDoc{Source: path, DocID: doc.ID, Chunks: len(chunks)}, nil
}

// Ask embeds the question, ranks the corpus against it and returns
// the top results with citations. Returns domain.ErrEmptyCorpus when
// no document has been indexed yet.
func (e *Engine) Ask(ctx context.Context, question string) (domain.Response, error) {
	if e.index.Len() == 0 {
		return domain.Response{}, domain.ErrEmptyCorpus
	}

	results, hit := e.cache.Get(question, e.topK)
	if !hit {
		vectors, err := e.embedder.Embed(ctx, []string{question})
		if err != nil {
			return domain.Response{}, fmt.Errorf("failed to embed question: %w", err)
		}
		if len(vectors) != 1 {
			return domain.Response{}, &domain.InvalidResponseError{
				Reason: fmt.Sprintf("expected 1 vector for the question, got %d", len(vectors)),
			}
		}

		results, err = e.index.Query(vectors[0], e.topK)
		if err != nil {
			return domain.Response{}, err
		}
		e.cache.Put(question, e.topK, results)
	}

	resp := domain.Response{Query: question, Results: []domain.Citation{}}
	for _, r := range results {
		if e.minScore > 0 && r.Score < e.minScore {
			continue
		}
		resp.Results = append(resp.Results, domain.Citation{
			Text:        r.Chunk.Text,
			Source:      r.Chunk.Source,
			StartOffset: r.Chunk.StartOffset,
			EndOffset:   r.Chunk.EndOffset,
			Score:       r.Score,
			Rank:        len(resp.Results) + 1,
		})
	}
	return resp, nil
}

// Stats summarizes the indexed corpus.
func (e *Engine) Stats() domain.Stats {
	items := e.index.Items()

	docs := make(map[string]struct{})
	totalLen := 0
	for _, item := range items {
		docs[item.Chunk.DocID] = struct{}{}
		totalLen += len([]rune(item.Chunk.Text))
	}

	stats := domain.Stats{
		TotalDocs:   len(docs),
		TotalChunks: len(items),
	}
	if len(items) > 0 {
		stats.AvgChunkLen = float64(totalLen) / float64(len(items))
	}
	return stats
}

// Chunks returns the indexed chunks ordered by source then sequence,
// for inspection.
func (e *Engine) Chunks() []domain.Chunk {
	items := e.index.Items()

	chunks := make([]domain.Chunk, len(items))
	for i, item := range items {
		chunks[i] = item.Chunk
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Source != chunks[j].Source {
			return chunks[i].Source < chunks[j].Source
		}
		return chunks[i].Seq < chunks[j].Seq
	})
	return chunks
}
