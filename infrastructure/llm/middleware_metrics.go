package llm

import (
	"context"
	"time"

	"github.com/ahrav/go-searcheval/internal/ports"
)

// metricsLLM records latency, call counts, and token consumption for
// every judge request.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware collects operational metrics for each request
// through the supplied collector. A nil collector disables recording
// without changing behavior.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

// DoRequest forwards the request and records its outcome.
func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)
	if m.collector == nil {
		return response, tokensIn, tokensOut, err
	}

	labels := map[string]string{
		"model":  m.next.GetModel(),
		"status": "success",
	}
	if err != nil {
		labels["status"] = "error"
		if ctx.Err() == context.DeadlineExceeded {
			labels["status"] = "timeout"
		}
	}

	m.collector.RecordHistogram("judge_llm_latency_seconds", time.Since(start).Seconds(), labels)
	m.collector.RecordCounter("judge_llm_requests_total", 1, labels)
	if err == nil {
		labels["token_type"] = "input"
		m.collector.RecordCounter("judge_llm_tokens_total", float64(tokensIn), labels)
		labels["token_type"] = "output"
		m.collector.RecordCounter("judge_llm_tokens_total", float64(tokensOut), labels)
	}

	return response, tokensIn, tokensOut, err
}

// GetModel returns the model name from the wrapped implementation.
func (m *metricsLLM) GetModel() string { return m.next.GetModel() }
