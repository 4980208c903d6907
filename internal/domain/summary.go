package domain

// QueryOutcome records what happened to a single query during an
// approach run: either a completed evaluation or a recorded failure.
// Exactly one of Result and Err is set.
type QueryOutcome struct {
	// Query is the probe this outcome belongs to.
	Query Query `json:"query"`

	// Result is the completed evaluation, nil when the query failed.
	Result *EvalResult `json:"result,omitempty"`

	// Err is the failure description, empty on success. Stored as a
	// string so summaries survive a JSON round trip.
	Err string `json:"error,omitempty"`

	// FailedStage names the stage that failed (StageSearch,
	// StageJudge, StageMetrics); empty on success.
	FailedStage string `json:"failed_stage,omitempty"`
}

// Failed reports whether the query's evaluation did not complete.
func (o QueryOutcome) Failed() bool { return o.Result == nil }

// MetricStats are the aggregate statistics for one metric across the
// successfully evaluated queries of an approach.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// StdDev is the sample standard deviation; 0 when fewer than two
	// queries succeeded.
	StdDev float64 `json:"stddev"`
}

// ApproachSummary is the aggregate outcome of running one named search
// configuration over a query set. Summaries are read-only once
// produced; the engine never mutates a summary after construction.
type ApproachSummary struct {
	// Name identifies the search approach.
	Name string `json:"name"`

	// Outcomes holds one entry per query, in query-set order,
	// including failures.
	Outcomes []QueryOutcome `json:"outcomes"`

	// Aggregates maps metric name to statistics computed over
	// successfully evaluated queries only.
	Aggregates map[string]MetricStats `json:"aggregates"`

	// FailureCount is the number of queries whose evaluation failed.
	// Failed queries are excluded from the aggregate denominators.
	FailureCount int `json:"failure_count"`

	// Usage is the total judge token consumption across the run.
	Usage TokenUsage `json:"usage"`
}

// SucceededCount returns the number of successfully evaluated queries.
func (s *ApproachSummary) SucceededCount() int {
	return len(s.Outcomes) - s.FailureCount
}

// Queries returns the ordered query set this summary was produced
// over, including queries that failed.
func (s *ApproachSummary) Queries() []Query {
	qs := make([]Query, len(s.Outcomes))
	for i, o := range s.Outcomes {
		qs[i] = o.Query
	}
	return qs
}
