package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	r := NewRetrier(3, time.Millisecond, nil)

	err := r.Do(context.Background(), func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != StateSucceeded {
		t.Errorf("expected state succeeded, got %s", r.State())
	}
	if r.Attempts() != 1 {
		t.Errorf("expected 1 attempt, got %d", r.Attempts())
	}
	if r.Backoffs() != 0 {
		t.Errorf("expected 0 backoffs, got %d", r.Backoffs())
	}
}

func TestRetrier_RetryableExhaustsBudget(t *testing.T) {
	r := NewRetrier(3, time.Millisecond, nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return &domain.RateLimitError{Status: 429}
	})

	var rate *domain.RateLimitError
	if !errors.As(err, &rate) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if calls != 4 { // initial attempt + 3 retries
		t.Errorf("expected 4 calls, got %d", calls)
	}
	if r.State() != StateFailed {
		t.Errorf("expected state failed, got %s", r.State())
	}
	if r.Backoffs() != 3 {
		t.Errorf("expected 3 backoffs, got %d", r.Backoffs())
	}
}

func TestRetrier_NonRetryableFailsImmediately(t *testing.T) {
	r := NewRetrier(3, time.Millisecond, nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return &domain.AuthError{Status: 401}
	})

	var auth *domain.AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
	if r.Backoffs() != 0 {
		t.Errorf("expected 0 backoffs, got %d", r.Backoffs())
	}
}

func TestRetrier_RecoversAfterTransient(t *testing.T) {
	r := NewRetrier(5, time.Millisecond, nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &domain.TransientError{Status: 503}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != StateSucceeded {
		t.Errorf("expected state succeeded, got %s", r.State())
	}
	if r.Attempts() != 3 {
		t.Errorf("expected 3 attempts, got %d", r.Attempts())
	}
	if r.Backoffs() != 2 {
		t.Errorf("expected 2 backoffs, got %d", r.Backoffs())
	}
}

func TestRetrier_ContextCancelsBackoff(t *testing.T) {
	r := NewRetrier(3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func() error {
		return &domain.TransientError{Status: 502}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.State() != StateFailed {
		t.Errorf("expected state failed, got %s", r.State())
	}
}

func TestRetrierStateString(t *testing.T) {
	states := map[RetryState]string{
		StateAttempting: "attempting",
		StateBackingOff: "backing_off",
		StateSucceeded:  "succeeded",
		StateFailed:     "failed",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("expected %s, got %s", want, s.String())
		}
	}
}
