package judge

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// flakyJudge fails with the scripted errors before succeeding.
type flakyJudge struct {
	errs        []error
	calls       int
	usagePerTry domain.TokenUsage
}

func (f *flakyJudge) Judge(
	ctx context.Context,
	query domain.Query,
	hits []domain.SearchHit,
	opts ports.JudgeOptions,
) ([]domain.RelevanceJudgment, domain.TokenUsage, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.usagePerTry, f.errs[idx]
	}

	judgments := make([]domain.RelevanceJudgment, len(hits))
	for i := range judgments {
		judgments[i] = domain.RelevanceJudgment{Score: domain.HighlyRelevant, Confidence: 1.0}
	}
	return judgments, f.usagePerTry, nil
}

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func transientErr() error {
	return fmt.Errorf("%w: simulated outage", domain.ErrJudgeUnavailable)
}

func TestRetryingJudge_RecoversFromTransientFailure(t *testing.T) {
	inner := &flakyJudge{
		errs:        []error{transientErr(), transientErr()},
		usagePerTry: domain.TokenUsage{PromptTokens: 10, CompletionTokens: 2},
	}
	r := WithRetry(inner, fastRetryConfig(3))

	judgments, usage, err := r.Judge(context.Background(), domain.Query{Text: "q"}, testHits(2), ports.JudgeOptions{})
	require.NoError(t, err)
	assert.Len(t, judgments, 2)
	assert.Equal(t, 3, inner.calls, "two failures then a success")
	assert.Equal(t, 36, usage.Total(), "usage from failed attempts still counts")
}

func TestRetryingJudge_ExhaustsAttempts(t *testing.T) {
	inner := &flakyJudge{errs: []error{transientErr(), transientErr(), transientErr()}}
	r := WithRetry(inner, fastRetryConfig(3))

	_, _, err := r.Judge(context.Background(), domain.Query{Text: "q"}, testHits(1), ports.JudgeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJudgeUnavailable)
	assert.Equal(t, 3, inner.calls, "attempts must stop at the bound")
}

func TestRetryingJudge_DoesNotRetryInvalidResponses(t *testing.T) {
	invalid := fmt.Errorf("%w: gibberish", domain.ErrJudgeResponseInvalid)
	inner := &flakyJudge{errs: []error{invalid, nil}}
	r := WithRetry(inner, fastRetryConfig(5))

	_, _, err := r.Judge(context.Background(), domain.Query{Text: "q"}, testHits(1), ports.JudgeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJudgeResponseInvalid)
	assert.Equal(t, 1, inner.calls, "permanent failures are never retried")
}

func TestRetryingJudge_CancellationInterruptsBackoff(t *testing.T) {
	inner := &flakyJudge{errs: []error{transientErr(), transientErr(), transientErr()}}
	r := WithRetry(inner, RetryConfig{MaxAttempts: 3, BaseDelay: 10 * time.Second, MaxDelay: 10 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := r.Judge(ctx, domain.Query{Text: "q"}, testHits(1), ports.JudgeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the backoff wait")
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingJudge_SingleAttemptFloor(t *testing.T) {
	inner := &flakyJudge{}
	r := WithRetry(inner, RetryConfig{MaxAttempts: 0, BaseDelay: time.Millisecond})

	_, _, err := r.Judge(context.Background(), domain.Query{Text: "q"}, testHits(1), ports.JudgeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "attempt count below one clamps to one")
}

func TestRetryingJudge_DelayGrowthIsBounded(t *testing.T) {
	r := WithRetry(&flakyJudge{}, RetryConfig{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    400 * time.Millisecond,
		MaxAttempts: 8,
	})

	for attempt := 1; attempt <= 8; attempt++ {
		d := r.delay(attempt)
		assert.LessOrEqual(t, d, 400*time.Millisecond, "delay for attempt %d exceeds the cap", attempt)
		assert.Greater(t, d, time.Duration(0))
	}
}

func TestRetryingJudge_JitterStaysNearDelay(t *testing.T) {
	r := WithRetry(&flakyJudge{}, RetryConfig{
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      time.Second,
		MaxAttempts:   3,
		JitterPercent: 0.1,
	})

	for i := 0; i < 50; i++ {
		d := r.delay(1)
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}
