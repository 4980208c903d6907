package domain

// QueryWinners names, for one query, the approach that scored strictly
// highest on each metric. Ties go to the approach listed first in the
// comparison call; an empty name means no approach produced a result
// for that query.
type QueryWinners struct {
	// Query is the probe being compared.
	Query Query `json:"query"`

	// Winners maps metric name to the winning approach name.
	Winners map[string]string `json:"winners"`
}

// ComparisonReport is the structured output of comparing two or more
// approach summaries over the same ordered query set. Rendering it to
// markdown or HTML is an external concern.
type ComparisonReport struct {
	// Approaches lists the compared approach names in the order they
	// were supplied. The first entry is the baseline.
	Approaches []string `json:"approaches"`

	// Baseline is the name of the first-supplied approach, against
	// which mean-metric deltas are computed.
	Baseline string `json:"baseline"`

	// QueryWinners holds the per-query, per-metric winners in
	// query-set order.
	QueryWinners []QueryWinners `json:"query_winners"`

	// WinCounts maps metric name to approach name to the number of
	// queries that approach won on that metric.
	WinCounts map[string]map[string]int `json:"win_counts"`

	// MeanDeltas maps metric name to approach name to that approach's
	// mean-metric difference from the baseline. The baseline's own
	// delta is 0.
	MeanDeltas map[string]map[string]float64 `json:"mean_deltas"`
}
