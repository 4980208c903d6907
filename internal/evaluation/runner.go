package evaluation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// DefaultQueryConcurrency bounds queries evaluated in flight per
// approach.
const DefaultQueryConcurrency = 4

// Runner drives one search approach across a query set. Failed queries
// are recorded as outcomes, never propagated; one bad query cannot
// abort the run. Only context cancellation stops a run early.
type Runner struct {
	evaluator   *Evaluator
	concurrency int
}

// NewRunner creates a runner over the given evaluator. Concurrency
// values below 1 fall back to the default.
func NewRunner(evaluator *Evaluator, concurrency int) (*Runner, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if concurrency < 1 {
		concurrency = DefaultQueryConcurrency
	}
	return &Runner{evaluator: evaluator, concurrency: concurrency}, nil
}

// Run evaluates every query against the approach's search function and
// aggregates the results into a summary. Outcomes hold their query's
// position regardless of completion order, so a run over the same
// inputs is reproducible up to judge behavior. On cancellation the
// partial summary is returned together with the context error.
func (r *Runner) Run(
	ctx context.Context,
	name string,
	search ports.SearchFunc,
	queries []domain.Query,
) (*domain.ApproachSummary, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: approach name cannot be empty", domain.ErrInvalidInput)
	}
	if search == nil {
		return nil, fmt.Errorf("%w: search function cannot be nil", domain.ErrInvalidInput)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries to evaluate", domain.ErrInvalidInput)
	}

	outcomes := make([]domain.QueryOutcome, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, query := range queries {
		g.Go(func() error {
			outcomes[i] = r.evaluateOne(gctx, query, search)
			return nil
		})
	}
	runErr := g.Wait()

	// Queries never attempted because of cancellation still get an
	// outcome slot.
	for i := range outcomes {
		if outcomes[i].Query.Text == "" && outcomes[i].Result == nil {
			outcomes[i] = domain.QueryOutcome{
				Query:       queries[i],
				Err:         context.Canceled.Error(),
				FailedStage: domain.StageSearch,
			}
		}
	}

	summary := r.summarize(name, outcomes)
	if runErr != nil {
		return summary, fmt.Errorf("approach %q interrupted: %w", name, runErr)
	}
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("approach %q interrupted: %w", name, err)
	}
	return summary, nil
}

// evaluateOne runs search then evaluation for one query, converting
// errors into a failed outcome with the stage that produced them.
func (r *Runner) evaluateOne(ctx context.Context, query domain.Query, search ports.SearchFunc) domain.QueryOutcome {
	result, err := search(ctx, query)
	if err != nil {
		qe := domain.NewQueryError(query, domain.StageSearch, err)
		return domain.QueryOutcome{Query: query, Err: qe.Error(), FailedStage: domain.StageSearch}
	}
	// Search functions answer for the query they were asked.
	result.Query = query

	eval, err := r.evaluator.EvaluateQuery(ctx, result)
	if err != nil {
		stage := failureStage(err)
		qe := domain.NewQueryError(query, stage, err)
		return domain.QueryOutcome{Query: query, Err: qe.Error(), FailedStage: stage}
	}
	return domain.QueryOutcome{Query: query, Result: eval}
}

// summarize aggregates per-query outcomes into an approach summary.
// Aggregate statistics cover successful queries only; failures are
// counted, not averaged in as zeros.
func (r *Runner) summarize(name string, outcomes []domain.QueryOutcome) *domain.ApproachSummary {
	summary := &domain.ApproachSummary{
		Name:       name,
		Outcomes:   outcomes,
		Aggregates: make(map[string]domain.MetricStats, len(domain.MetricNames)),
	}

	values := make(map[string][]float64, len(domain.MetricNames))
	for _, outcome := range outcomes {
		if outcome.Failed() {
			summary.FailureCount++
			continue
		}
		summary.Usage.Add(outcome.Result.Usage)
		for _, metric := range domain.MetricNames {
			values[metric] = append(values[metric], outcome.Result.Metrics.Get(metric))
		}
	}

	for _, metric := range domain.MetricNames {
		summary.Aggregates[metric] = computeStats(values[metric])
	}
	return summary
}

// computeStats reduces a value series to summary statistics. An empty
// series yields the zero stats.
func computeStats(values []float64) domain.MetricStats {
	if len(values) == 0 {
		return domain.MetricStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var stdDev float64
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(len(sorted)-1))
	}

	return domain.MetricStats{
		Mean:   mean,
		Median: median,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: stdDev,
	}
}
