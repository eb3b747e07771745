package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// Options configures a Client.
type Options struct {
	Endpoint   string // base URL, e.g. https://api.openai.com/v1
	Model      string
	APIKey     string
	Dimension  int
	BatchSize  int
	MaxRetries int
	Timeout    time.Duration // per batch attempt
	BaseDelay  time.Duration // initial backoff delay, doubles per retry
	Logger     *slog.Logger
}

// Client calls an OpenAI-compatible embeddings endpoint. Inputs are
// batched up to BatchSize per request; every returned vector is
// validated against the expected dimension before any vector of the
// batch is accepted.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	dimension  int
	batchSize  int
	maxRetries int
	timeout    time.Duration
	baseDelay  time.Duration
	client     *http.Client
	logger     *slog.Logger
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, &domain.AuthError{Status: 0}
	}
	if opts.Dimension <= 0 {
		return nil, &domain.ConfigError{Field: "embedding.dimension", Reason: "must be > 0"}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:   opts.Endpoint,
		model:      opts.Model,
		apiKey:     opts.APIKey,
		dimension:  opts.Dimension,
		batchSize:  opts.BatchSize,
		maxRetries: opts.MaxRetries,
		timeout:    opts.Timeout,
		baseDelay:  opts.BaseDelay,
		client:     &http.Client{},
		logger:     opts.Logger,
	}, nil
}

// Embed generates one vector per input text, in input order. Each
// batch is retried under the backoff policy; a batch that fails
// permanently fails the whole call without corrupting earlier
// batches' results for the caller (nothing partial is returned).
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += c.batchSize {
		end := i + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		vectors, err := c.embedBatchWithRetry(ctx, batch)
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}

	return all, nil
}

func (c *Client) embedBatchWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var vectors [][]float32

	retrier := NewRetrier(c.maxRetries, c.baseDelay, c.logger)
	err := retrier.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var err error
		vectors, err = c.embedBatch(attemptCtx, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (c *Client) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	reqBody := embeddingRequest{
		Input: batch,
		Model: c.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and transport failures are retryable.
		return nil, &domain.TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransientError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &domain.AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.RateLimitError{Status: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, &domain.TransientError{Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.InvalidResponseError{
			Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, preview(body)),
		}
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, &domain.InvalidResponseError{
			Reason: fmt.Sprintf("malformed payload (body: %s)", preview(body)),
		}
	}

	if embResp.Error != nil {
		return nil, &domain.InvalidResponseError{Reason: "API error: " + embResp.Error.Message}
	}

	if len(embResp.Data) != len(batch) {
		return nil, &domain.InvalidResponseError{
			Reason: fmt.Sprintf("expected %d vectors, got %d", len(batch), len(embResp.Data)),
		}
	}

	// Order by the response index, then validate every vector before
	// accepting any of them.
	vectors := make([][]float32, len(batch))
	for _, data := range embResp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, &domain.InvalidResponseError{
				Reason: fmt.Sprintf("vector index %d out of range", data.Index),
			}
		}
		vectors[data.Index] = data.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, &domain.InvalidResponseError{
				Reason: fmt.Sprintf("missing vector for input %d", i),
			}
		}
		if len(v) != c.dimension {
			return nil, &domain.InvalidResponseError{
				Reason: fmt.Sprintf("dimension mismatch for input %d: expected %d, got %d", i, c.dimension, len(v)),
			}
		}
	}

	return vectors, nil
}

// Dimension returns the embedding vector dimension.
func (c *Client) Dimension() int { return c.dimension }

// ModelName returns the name of the embedding model.
func (c *Client) ModelName() string { return c.model }

func preview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
