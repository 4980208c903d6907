package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedLLM paces requests with a token bucket so the judge
// respects provider rate limits. The concurrency bound in the judge
// controls parallelism; this controls sustained request rate.
type rateLimitedLLM struct {
	next    CoreLLM
	limiter *rate.Limiter
}

// RateLimitMiddleware enforces a sustained requests-per-second limit
// with the given burst allowance across all callers of the wrapped
// core.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next CoreLLM) CoreLLM {
		return &rateLimitedLLM{next: next, limiter: limiter}
	}
}

// DoRequest blocks until a token is available, then forwards the
// request. Cancellation during the wait is classified as a network
// error so retry policy treats it uniformly.
func (r *rateLimitedLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", 0, 0, NewProviderError("rate_limiter", ErrorTypeNetwork, 0, "rate limit wait aborted", err)
	}
	return r.next.DoRequest(ctx, prompt, opts)
}

// GetModel returns the model name from the wrapped implementation.
func (r *rateLimitedLLM) GetModel() string { return r.next.GetModel() }
