package domain

// Metric names used as keys in aggregates, win counts, and deltas.
const (
	MetricNDCG = "ndcg"
	MetricMAP  = "map"
	MetricMRR  = "mrr"
)

// MetricNames lists the computed metrics in canonical order.
// Iteration over comparison output follows this order so that
// re-running a comparison produces identical reports.
var MetricNames = []string{MetricNDCG, MetricMAP, MetricMRR}

// TokenUsage accounts for judge-service token consumption.
type TokenUsage struct {
	// PromptTokens counts tokens sent to the judge.
	PromptTokens int `json:"prompt_tokens"`
	// CompletionTokens counts tokens generated by the judge.
	CompletionTokens int `json:"completion_tokens"`
}

// Add accumulates another usage record into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// Total returns the combined prompt and completion token count.
func (u TokenUsage) Total() int { return u.PromptTokens + u.CompletionTokens }

// MetricSet holds the three ranking-quality metrics for one query.
type MetricSet struct {
	NDCG float64 `json:"ndcg"`
	MAP  float64 `json:"map"`
	MRR  float64 `json:"mrr"`
}

// Get returns the named metric value. Unknown names return 0; callers
// iterate MetricNames so this does not occur in practice.
func (m MetricSet) Get(name string) float64 {
	switch name {
	case MetricNDCG:
		return m.NDCG
	case MetricMAP:
		return m.MAP
	case MetricMRR:
		return m.MRR
	}
	return 0
}

// HitEval is the per-hit evaluation detail exposed to report
// consumers, mirroring the external evaluation API's response shape:
// {index, fields, relevant, justification}.
type HitEval struct {
	// Index is the zero-based rank position of the hit.
	Index int `json:"index"`

	// HitID is the identifier of the evaluated hit.
	HitID string `json:"hit_id"`

	// Score is the graded relevance on the canonical 1-4 scale.
	Score RelevanceScore `json:"score"`

	// Relevant is the binary-relevance label derived from Score.
	Relevant bool `json:"relevant"`

	// Fields echoes the hit's field values for report rendering.
	Fields map[string]string `json:"fields,omitempty"`

	// Justification is the judge's explanation, when debug was set.
	Justification string `json:"justification,omitempty"`
}

// EvalResult is the structured outcome of evaluating one query's
// ranked result list. Invariant: len(Judgments) == len(Hits) == the
// number of hits in the evaluated SearchResult, in ranking order.
type EvalResult struct {
	// Query is the evaluated probe.
	Query Query `json:"query"`

	// Judgments holds one graded judgment per hit, in ranking order.
	Judgments []RelevanceJudgment `json:"judgments"`

	// Hits carries the per-hit report detail, in ranking order.
	Hits []HitEval `json:"hits"`

	// Metrics holds the computed {ndcg, map, mrr} values.
	Metrics MetricSet `json:"metrics"`

	// Usage is the judge token consumption for this query.
	Usage TokenUsage `json:"usage"`
}

// RelevantCount returns how many hits were judged relevant.
func (r *EvalResult) RelevantCount() int {
	n := 0
	for _, j := range r.Judgments {
		if j.Score.Relevant() {
			n++
		}
	}
	return n
}
