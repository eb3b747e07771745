package cli

import (
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Roshanchokhani/rag-document-qa/config"
	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/chunker"
	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/embedding"
	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/index"
	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/loader"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
	"github.com/Roshanchokhani/rag-document-qa/internal/usecase"
)

// newEmbedder builds the embedding backend selected in config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewClient(embedding.Options{
			Endpoint:   cfg.Embedding.Endpoint,
			Model:      cfg.Embedding.Model,
			APIKey:     os.Getenv(cfg.Embedding.APIKeyEnv),
			Dimension:  cfg.Embedding.Dimension,
			BatchSize:  cfg.Embedding.BatchSize,
			MaxRetries: cfg.Embedding.MaxRetries,
			Timeout:    cfg.Embedding.Timeout,
			Logger:     logger,
		})
	case "mock":
		return embedding.NewStubEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// openEngine wires the full pipeline against the persisted index under
// the root directory. The returned closer releases the database.
func openEngine(cfg *config.Config, topK int, onDocument func(string)) (*usecase.Engine, func(), error) {
	if err := config.EnsureDataDir(rootDir); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	dbPath := config.IndexDBPath(rootDir)
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open index: %w", err)
	}

	idx, err := index.NewBoltIndex(db, embedder.Dimension())
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load index: %w", err)
	}

	chk, err := chunker.NewWindowChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	engine := usecase.NewEngine(usecase.Params{
		Loader:     loader.NewRegistry(),
		Chunker:    chk,
		Embedder:   embedder,
		Index:      idx,
		TopK:       topK,
		MinScore:   cfg.Retrieval.MinScore,
		Logger:     logger,
		OnDocument: onDocument,
	})
	return engine, func() { db.Close() }, nil
}
