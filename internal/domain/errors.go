package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when no loader recognizes a file.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyCorpus is returned when a query runs before any document
	// has been successfully indexed.
	ErrEmptyCorpus = errors.New("no documents indexed")
)

// ConfigError reports an invalid configuration value. Fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// CorruptFileError reports a file that matched a known format but
// could not be parsed. Per-document, recoverable: skip and report.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error { return e.Err }

// InvalidChunkConfigError reports a chunk size/overlap combination
// that violates 0 <= overlap < size.
type InvalidChunkConfigError struct {
	Size    int
	Overlap int
}

func (e *InvalidChunkConfigError) Error() string {
	return fmt.Sprintf("invalid chunk config: size=%d overlap=%d (need 0 <= overlap < size)", e.Size, e.Overlap)
}

// AuthError reports a rejected embedding credential (HTTP 401/403).
// Fatal, never retried.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("embedding service rejected credentials (status %d)", e.Status)
}

// RateLimitError reports HTTP 429 from the embedding service.
// Retryable with backoff up to the configured attempt budget.
type RateLimitError struct {
	Status int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("embedding service rate limit (status %d)", e.Status)
}

// TransientError reports a 5xx response, timeout or transport failure
// from the embedding service. Retryable.
type TransientError struct {
	Status int // 0 for transport-level failures
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient embedding failure: %v", e.Err)
	}
	return fmt.Sprintf("transient embedding failure (status %d)", e.Status)
}

func (e *TransientError) Unwrap() error { return e.Err }

// InvalidResponseError reports a malformed embedding payload or a
// vector of unexpected dimension. Fatal for the batch; no partial
// acceptance.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid embedding response: %s", e.Reason)
}

// Retryable reports whether err may be retried under the backoff
// policy. Auth and response-validation failures are final.
func Retryable(err error) bool {
	var rl *RateLimitError
	var tr *TransientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}
