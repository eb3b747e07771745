package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// Config holds all configuration for the document Q&A tool.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig controls which files directory ingestion picks up.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig holds chunking configuration.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`    // runes per chunk
	ChunkOverlap int `yaml:"chunk_overlap"` // runes shared between consecutive chunks
}

// RetrievalConfig holds retrieval configuration.
type RetrievalConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"` // drop results below this similarity (0 = disabled)
}

// EmbeddingConfig holds embedding service configuration.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"` // "openai", "mock"
	Endpoint   string        `yaml:"endpoint"`
	Model      string        `yaml:"model"`
	APIKeyEnv  string        `yaml:"api_key_env"` // environment variable holding the token
	Dimension  int           `yaml:"dimension"`
	BatchSize  int           `yaml:"batch_size"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"` // per embedding batch
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.pdf", "**/*.docx"},
			Excludes: []string{"**/.ragqa/**", "**/.git/**"},
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK:     5,
			MinScore: 0.3,
		},
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Endpoint:   "https://api.openai.com/v1",
			Model:      "text-embedding-3-small",
			APIKeyEnv:  "OPENAI_API_KEY",
			Dimension:  1536,
			BatchSize:  100,
			MaxRetries: 3,
			Timeout:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks startup-fatal constraints on chunking and retrieval
// values.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return &domain.ConfigError{Field: "chunking.chunk_size", Reason: "must be > 0"}
	}
	if c.Chunking.ChunkOverlap < 0 {
		return &domain.ConfigError{Field: "chunking.chunk_overlap", Reason: "must be >= 0"}
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return &domain.ConfigError{Field: "chunking.chunk_overlap", Reason: "must be < chunk_size"}
	}
	if c.Retrieval.TopK <= 0 {
		return &domain.ConfigError{Field: "retrieval.top_k", Reason: "must be > 0"}
	}
	if c.Embedding.Dimension <= 0 {
		return &domain.ConfigError{Field: "embedding.dimension", Reason: "must be > 0"}
	}
	if c.Embedding.BatchSize <= 0 {
		return &domain.ConfigError{Field: "embedding.batch_size", Reason: "must be > 0"}
	}
	if c.Embedding.MaxRetries < 0 {
		return &domain.ConfigError{Field: "embedding.max_retries", Reason: "must be >= 0"}
	}
	return nil
}

// Load loads configuration from a YAML file. The file must exist;
// callers that tolerate a missing config use LoadFromDir, which falls
// back to defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ragqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ragqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".ragqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the persisted vector index.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".ragqa", "index.db")
}

// EnsureDataDir ensures the .ragqa directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".ragqa"), 0755)
}
