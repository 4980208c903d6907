// Package evaluation contains the evaluation core: the per-query
// orchestrator, the approach runner that drives it over a query set
// with bounded concurrency, the comparison engine for multiple
// approaches, and JSON persistence of summaries.
package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/metrics"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// EvaluatorConfig tunes per-query evaluation.
type EvaluatorConfig struct {
	// Fields lists the hit fields the judge considers, in evaluation
	// order. Empty means ["text"].
	Fields []string

	// Debug requests per-hit justifications from the judge.
	Debug bool

	// NDCGCutoff is the k for NDCG@k; 0 evaluates the full hit list.
	NDCGCutoff int
}

// Evaluator orchestrates the evaluation of one query: it obtains
// judgments through the judge boundary, validates them, computes the
// ranking metrics, and assembles the structured result. It holds no
// per-query state and is safe for concurrent use.
type Evaluator struct {
	judge  ports.Judge
	config EvaluatorConfig
}

// NewEvaluator creates an evaluator over the given judge. Retry policy
// belongs to the judge (wrap it with judge.WithRetry), not here.
func NewEvaluator(j ports.Judge, config EvaluatorConfig) (*Evaluator, error) {
	if j == nil {
		return nil, fmt.Errorf("judge cannot be nil")
	}
	if config.NDCGCutoff < 0 {
		return nil, fmt.Errorf("%w: negative NDCG cutoff %d", domain.ErrInvalidInput, config.NDCGCutoff)
	}
	return &Evaluator{judge: j, config: config}, nil
}

// EvaluateQuery evaluates one query's ranked result list. Given
// identical judge responses it produces identical results. An empty
// hit list short-circuits to a zero-metric result without touching the
// judge or the metrics engine. A judge returning the wrong number of
// judgments fails with domain.ErrJudgmentCountMismatch.
func (e *Evaluator) EvaluateQuery(ctx context.Context, result domain.SearchResult) (*domain.EvalResult, error) {
	if len(result.Hits) == 0 {
		return &domain.EvalResult{
			Query:     result.Query,
			Judgments: []domain.RelevanceJudgment{},
			Hits:      []domain.HitEval{},
		}, nil
	}

	judgments, usage, err := e.judge.Judge(ctx, result.Query, result.Hits, ports.JudgeOptions{
		Fields: e.config.Fields,
		Debug:  e.config.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("obtain judgments for query %q: %w", result.Query.Text, err)
	}

	if len(judgments) != len(result.Hits) {
		return nil, fmt.Errorf("%w: %d judgments for %d hits",
			domain.ErrJudgmentCountMismatch, len(judgments), len(result.Hits))
	}

	scores := make([]domain.RelevanceScore, len(judgments))
	for i, j := range judgments {
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("judgment %d: %w", i, err)
		}
		scores[i] = j.Score
	}

	metricSet, err := e.computeMetrics(scores)
	if err != nil {
		return nil, err
	}

	hitEvals := make([]domain.HitEval, len(result.Hits))
	for i, hit := range result.Hits {
		hitEvals[i] = domain.HitEval{
			Index:         i,
			HitID:         hit.ID,
			Score:         judgments[i].Score,
			Relevant:      judgments[i].Score.Relevant(),
			Fields:        hit.Fields,
			Justification: judgments[i].Justification,
		}
	}

	return &domain.EvalResult{
		Query:     result.Query,
		Judgments: judgments,
		Hits:      hitEvals,
		Metrics:   metricSet,
		Usage:     usage,
	}, nil
}

// computeMetrics runs the metrics engine over a non-empty score
// sequence.
func (e *Evaluator) computeMetrics(scores []domain.RelevanceScore) (domain.MetricSet, error) {
	k := e.config.NDCGCutoff
	if k == 0 {
		k = len(scores)
	}

	ndcg, err := metrics.NDCG(scores, k)
	if err != nil {
		return domain.MetricSet{}, fmt.Errorf("ndcg: %w", err)
	}
	ap, err := metrics.AveragePrecision(scores)
	if err != nil {
		return domain.MetricSet{}, fmt.Errorf("average precision: %w", err)
	}
	rr, err := metrics.ReciprocalRank(scores)
	if err != nil {
		return domain.MetricSet{}, fmt.Errorf("reciprocal rank: %w", err)
	}

	return domain.MetricSet{NDCG: ndcg, MAP: ap, MRR: rr}, nil
}

// failureStage classifies an evaluation error into the stage recorded
// on the query outcome.
func failureStage(err error) string {
	switch {
	case errors.Is(err, domain.ErrJudgeUnavailable),
		errors.Is(err, domain.ErrJudgeResponseInvalid),
		errors.Is(err, domain.ErrJudgmentCountMismatch):
		return domain.StageJudge
	default:
		return domain.StageMetrics
	}
}
