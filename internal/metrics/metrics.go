// Package metrics implements the classical information-retrieval
// ranking metrics used by the evaluation engine: NDCG@k, average
// precision, and reciprocal rank. All functions are pure and
// deterministic given identical input sequences.
//
// Every function rejects an empty score sequence with
// domain.ErrInvalidInput. Callers must special-case empty result lists
// (NDCG = MAP = MRR = 0) instead of calling into this package.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/ahrav/go-searcheval/internal/domain"
)

// NDCG computes Normalized Discounted Cumulative Gain at cutoff k over
// the ordered graded relevance scores of one query's hits. When fewer
// than k scores are available only the available scores are used.
//
// DCG@k = sum_{i=1..k} (2^score_i - 1) / log2(i+1), 1-indexed.
// IDCG@k is DCG@k over the scores sorted descending. The result is
// DCG/IDCG, defined as 0 when IDCG is 0 (every gain zero).
func NDCG(scores []domain.RelevanceScore, k int) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: empty score sequence", domain.ErrInvalidInput)
	}
	if k < 1 {
		return 0, fmt.Errorf("%w: cutoff k must be >= 1, got %d", domain.ErrInvalidInput, k)
	}
	if k > len(scores) {
		k = len(scores)
	}

	dcg := dcgAt(scores, k)

	ideal := make([]domain.RelevanceScore, len(scores))
	copy(ideal, scores)
	sort.Slice(ideal, func(i, j int) bool { return ideal[i] > ideal[j] })

	idcg := dcgAt(ideal, k)
	if idcg == 0 {
		return 0, nil
	}
	return dcg / idcg, nil
}

// dcgAt computes DCG over the first k scores with exponential gain.
func dcgAt(scores []domain.RelevanceScore, k int) float64 {
	var dcg float64
	for i := 0; i < k; i++ {
		gain := math.Exp2(float64(scores[i])) - 1
		dcg += gain / math.Log2(float64(i)+2)
	}
	return dcg
}

// AveragePrecision computes the average precision of one query's
// ranked scores under the binary-relevance predicate. For each rank i
// holding a relevant hit, precision@i = relevant-seen / i; AP is the
// sum of those precisions divided by the number of relevant hits, or 0
// when nothing is relevant. The approach runner averages AP across
// queries to obtain MAP.
func AveragePrecision(scores []domain.RelevanceScore) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: empty score sequence", domain.ErrInvalidInput)
	}

	relevant := 0
	var sum float64
	for i, s := range scores {
		if s.Relevant() {
			relevant++
			sum += float64(relevant) / float64(i+1)
		}
	}
	if relevant == 0 {
		return 0, nil
	}
	return sum / float64(relevant), nil
}

// ReciprocalRank returns the reciprocal of the 1-based rank of the
// first relevant hit, or 0 when no hit is relevant. The approach
// runner averages this across queries to obtain MRR.
func ReciprocalRank(scores []domain.RelevanceScore) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: empty score sequence", domain.ErrInvalidInput)
	}

	for i, s := range scores {
		if s.Relevant() {
			return 1 / float64(i+1), nil
		}
	}
	return 0, nil
}
