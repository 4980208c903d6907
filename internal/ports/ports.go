// Package ports defines the boundary interfaces between the evaluation
// core and its external collaborators: the relevance judge, the search
// backend under test, and the operational metrics sink.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-searcheval/internal/domain"
)

// JudgeOptions carries the per-request knobs of the judge boundary.
type JudgeOptions struct {
	// Fields lists the hit fields the judge should consider, in
	// evaluation order. Empty means ["text"].
	Fields []string

	// Debug requests a per-hit justification alongside each score.
	Debug bool
}

// Judge translates a query plus its ordered hit list into graded
// relevance judgments. Implementations are boundary adapters only;
// they perform no metric computation.
//
// The returned judgments must be in the same order as hits, one per
// hit. Failures are classified through the domain taxonomy:
// domain.ErrJudgeUnavailable for transient service errors (eligible
// for retry) and domain.ErrJudgeResponseInvalid for malformed or
// out-of-scale responses (never retried). Implementations report
// judge-service token consumption alongside the judgments.
type Judge interface {
	Judge(
		ctx context.Context,
		query domain.Query,
		hits []domain.SearchHit,
		opts JudgeOptions,
	) ([]domain.RelevanceJudgment, domain.TokenUsage, error)
}

// SearchFunc is the search backend boundary: a callable mapping a
// query to its ranked result list. The engine imposes no contract
// beyond ordered hits and stable field naming. Errors are captured as
// per-query failures, never aborting a run.
type SearchFunc func(ctx context.Context, query domain.Query) (domain.SearchResult, error)

// MetricsCollector is the sink for operational metrics emitted by the
// judge-call middleware. Implementations integrate with observability
// platforms such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric by value.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram distribution.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
