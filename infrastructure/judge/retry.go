package judge

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// Default retry configuration.
const (
	// DefaultMaxAttempts is the total number of judge attempts,
	// including the first.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = 500 * time.Millisecond
	// DefaultMaxDelay caps exponential backoff growth.
	DefaultMaxDelay = 8 * time.Second
	// DefaultJitterPercent randomizes delays to avoid request storms.
	DefaultJitterPercent = 0.1
)

// RetryConfig controls the backoff behavior of RetryingJudge.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts; values below 1 are
	// treated as 1.
	MaxAttempts int

	// BaseDelay is the initial backoff delay; each retry doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// JitterPercent adds up to this fraction of random spread to each
	// delay. Must be in [0,1].
	JitterPercent float64
}

// DefaultRetryConfig returns the standard bounded-backoff settings.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   DefaultMaxAttempts,
		BaseDelay:     DefaultBaseDelay,
		MaxDelay:      DefaultMaxDelay,
		JitterPercent: DefaultJitterPercent,
	}
}

var _ ports.Judge = (*RetryingJudge)(nil)

// RetryingJudge wraps another judge with bounded exponential backoff.
// Only domain.ErrJudgeUnavailable is retried; invalid responses and
// protocol violations propagate immediately. Cancellation interrupts
// both in-flight calls and backoff waits. Token usage from failed
// attempts is still accounted.
type RetryingJudge struct {
	next   ports.Judge
	config RetryConfig
}

// WithRetry wraps a judge with the given retry configuration.
func WithRetry(next ports.Judge, config RetryConfig) *RetryingJudge {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &RetryingJudge{next: next, config: config}
}

// Judge implements ports.Judge with retries on transient failures.
func (r *RetryingJudge) Judge(
	ctx context.Context,
	query domain.Query,
	hits []domain.SearchHit,
	opts ports.JudgeOptions,
) ([]domain.RelevanceJudgment, domain.TokenUsage, error) {
	var (
		total    domain.TokenUsage
		lastErr  error
		attempts int
	)

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		judgments, usage, err := r.next.Judge(ctx, query, hits, opts)
		total.Add(usage)
		attempts = attempt
		if err == nil {
			return judgments, total, nil
		}

		lastErr = err
		if !errors.Is(err, domain.ErrJudgeUnavailable) || attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, total, fmt.Errorf("judge retry aborted: %w", ctx.Err())
		case <-time.After(r.delay(attempt)):
		}
	}

	return nil, total, fmt.Errorf("judge failed after %d attempt(s): %w", attempts, lastErr)
}

// delay computes the backoff before the given 1-based attempt's retry,
// with exponential growth, a cap, and jitter.
func (r *RetryingJudge) delay(attempt int) time.Duration {
	delay := r.config.BaseDelay * time.Duration(1<<(attempt-1))
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	jitter := int64(float64(delay) * r.config.JitterPercent)
	if jitter > 0 {
		delay += time.Duration(rand.Int64N(2*jitter) - jitter)
	}
	if delay < 0 {
		delay = r.config.BaseDelay
	}
	return delay
}
