package embedding

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// RetryState is the phase of one retried operation.
type RetryState int

const (
	StateAttempting RetryState = iota
	StateBackingOff
	StateSucceeded
	StateFailed
)

func (s RetryState) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateBackingOff:
		return "backing_off"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Retrier runs an operation through the attempt/backoff state machine:
// Attempting -> Succeeded on success, Attempting -> Failed on a
// non-retryable error, Attempting -> BackingOff -> Attempting on a
// retryable one, until the retry budget is spent. Delay doubles per
// retry. Not safe for concurrent use; create one per operation.
type Retrier struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger

	state    RetryState
	attempts int
	backoffs int
}

func NewRetrier(maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Retrier {
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Retrier{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Do runs fn until it succeeds, fails permanently, or the budget of
// maxRetries retries (maxRetries+1 attempts) is exhausted. The
// context cancels waiting between attempts.
func (r *Retrier) Do(ctx context.Context, fn func() error) error {
	r.state = StateAttempting

	var err error
	for {
		r.attempts++
		err = fn()
		if err == nil {
			r.state = StateSucceeded
			return nil
		}

		if !domain.Retryable(err) || r.backoffs >= r.maxRetries {
			r.state = StateFailed
			return err
		}

		r.state = StateBackingOff
		delay := r.baseDelay << r.backoffs
		r.backoffs++
		r.logger.Warn("embedding attempt failed, backing off",
			"attempt", r.attempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			r.state = StateFailed
			return ctx.Err()
		case <-time.After(delay):
		}
		r.state = StateAttempting
	}
}

// State returns the current state of the machine.
func (r *Retrier) State() RetryState { return r.state }

// Attempts returns how many times fn has run.
func (r *Retrier) Attempts() int { return r.attempts }

// Backoffs returns how many backoff transitions occurred.
func (r *Retrier) Backoffs() int { return r.backoffs }
