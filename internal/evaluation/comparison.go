package evaluation

import (
	"fmt"

	"github.com/ahrav/go-searcheval/internal/domain"
)

// Compare produces a comparison report over two or more approach
// summaries. All summaries must cover the same queries in the same
// order; identity is the query text at each position, so the same set
// in a different order is rejected with domain.ErrQuerySetMismatch.
// The first summary is the baseline for mean-metric deltas.
//
// Per query and metric the strictly highest-scoring approach wins;
// equal top scores go to the approach supplied first. Queries that
// failed under an approach do not compete for it, and a query that
// failed everywhere has no winner on any metric.
func Compare(summaries []*domain.ApproachSummary) (*domain.ComparisonReport, error) {
	if len(summaries) < 2 {
		return nil, fmt.Errorf("%w: comparison needs at least two approaches, got %d",
			domain.ErrInvalidInput, len(summaries))
	}

	names := make([]string, len(summaries))
	seen := make(map[string]struct{}, len(summaries))
	for i, s := range summaries {
		if s == nil {
			return nil, fmt.Errorf("%w: summary %d is nil", domain.ErrInvalidInput, i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate approach name %q", domain.ErrInvalidInput, s.Name)
		}
		seen[s.Name] = struct{}{}
		names[i] = s.Name
	}

	if err := checkQuerySets(summaries); err != nil {
		return nil, err
	}

	report := &domain.ComparisonReport{
		Approaches:   names,
		Baseline:     names[0],
		QueryWinners: make([]domain.QueryWinners, len(summaries[0].Outcomes)),
		WinCounts:    make(map[string]map[string]int, len(domain.MetricNames)),
		MeanDeltas:   make(map[string]map[string]float64, len(domain.MetricNames)),
	}
	for _, metric := range domain.MetricNames {
		counts := make(map[string]int, len(names))
		for _, name := range names {
			counts[name] = 0
		}
		report.WinCounts[metric] = counts
	}

	for qi := range summaries[0].Outcomes {
		winners := make(map[string]string, len(domain.MetricNames))
		for _, metric := range domain.MetricNames {
			winner, found := "", false
			var best float64
			for _, s := range summaries {
				outcome := s.Outcomes[qi]
				if outcome.Failed() {
					continue
				}
				value := outcome.Result.Metrics.Get(metric)
				if !found || value > best {
					winner, best, found = s.Name, value, true
				}
			}
			winners[metric] = winner
			if winner != "" {
				report.WinCounts[metric][winner]++
			}
		}
		report.QueryWinners[qi] = domain.QueryWinners{
			Query:   summaries[0].Outcomes[qi].Query,
			Winners: winners,
		}
	}

	baseline := summaries[0]
	for _, metric := range domain.MetricNames {
		deltas := make(map[string]float64, len(names))
		base := baseline.Aggregates[metric].Mean
		for _, s := range summaries {
			deltas[s.Name] = s.Aggregates[metric].Mean - base
		}
		report.MeanDeltas[metric] = deltas
	}

	return report, nil
}

// checkQuerySets verifies that every summary covers the same ordered
// query texts as the first.
func checkQuerySets(summaries []*domain.ApproachSummary) error {
	reference := summaries[0]
	for _, s := range summaries[1:] {
		if len(s.Outcomes) != len(reference.Outcomes) {
			return fmt.Errorf("%w: approach %q evaluated %d queries, %q evaluated %d",
				domain.ErrQuerySetMismatch, s.Name, len(s.Outcomes), reference.Name, len(reference.Outcomes))
		}
		for i := range s.Outcomes {
			if s.Outcomes[i].Query.Text != reference.Outcomes[i].Query.Text {
				return fmt.Errorf("%w: query %d is %q under %q but %q under %q",
					domain.ErrQuerySetMismatch, i,
					s.Outcomes[i].Query.Text, s.Name,
					reference.Outcomes[i].Query.Text, reference.Name)
			}
		}
	}
	return nil
}
