package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-searcheval/internal/domain"
)

func scores(vals ...int) []domain.RelevanceScore {
	out := make([]domain.RelevanceScore, len(vals))
	for i, v := range vals {
		out[i] = domain.RelevanceScore(v)
	}
	return out
}

func TestNDCG_PerfectRankingIsOne(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.RelevanceScore
	}{
		{"strictly descending", scores(4, 3, 2, 1)},
		{"descending with ties", scores(4, 4, 3, 1, 1)},
		{"single hit", scores(2)},
		{"uniform scores", scores(3, 3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NDCG(tt.input, len(tt.input))
			require.NoError(t, err)
			assert.InDelta(t, 1.0, got, 1e-12, "descending order must score a perfect NDCG")
		})
	}
}

func TestNDCG_RewardsEarlyRelevance(t *testing.T) {
	good, err := NDCG(scores(4, 1, 1), 3)
	require.NoError(t, err)
	bad, err := NDCG(scores(1, 1, 4), 3)
	require.NoError(t, err)

	assert.Greater(t, good, bad, "relevant hit at rank 1 must outscore the same hit at rank 3")
	assert.Less(t, bad, 1.0)
	assert.Greater(t, bad, 0.0)
}

func TestNDCG_Bounds(t *testing.T) {
	inputs := [][]domain.RelevanceScore{
		scores(1, 4, 2, 3),
		scores(2, 1, 4),
		scores(1, 1, 1, 4),
	}
	for _, in := range inputs {
		got, err := NDCG(in, len(in))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestNDCG_UniformMinimumIsIdeal(t *testing.T) {
	// Score 1 carries gain 2^1-1 = 1, so IDCG is positive and the
	// ranking is trivially ideal.
	got, err := NDCG(scores(1, 1, 1), 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestNDCG_ZeroIdealGainIsZero(t *testing.T) {
	// The package does not enforce the canonical scale; a sequence of
	// zero-gain scores has IDCG 0 and the quotient is defined as 0.
	got, err := NDCG(scores(0, 0, 0), 3)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestNDCG_CutoffTruncates(t *testing.T) {
	full, err := NDCG(scores(1, 1, 4), 3)
	require.NoError(t, err)
	truncated, err := NDCG(scores(1, 1, 4), 2)
	require.NoError(t, err)

	// With k=2 the relevant hit at rank 3 is invisible; both DCG and
	// IDCG change, so the values must differ.
	assert.NotEqual(t, full, truncated)
}

func TestNDCG_CutoffBeyondLength(t *testing.T) {
	got, err := NDCG(scores(4, 1), 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12, "cutoff past the list end must clamp to the list length")
}

func TestNDCG_InvalidInput(t *testing.T) {
	_, err := NDCG(nil, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "empty sequence must be rejected")

	_, err = NDCG(scores(4, 3), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cutoff below 1 must be rejected")
}

func TestAveragePrecision(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.RelevanceScore
		want  float64
	}{
		{"relevant at ranks 1 and 3", scores(4, 1, 3), (1.0 + 2.0/3.0) / 2.0},
		{"all relevant", scores(4, 3, 3), 1.0},
		{"none relevant", scores(1, 2, 1), 0.0},
		{"single relevant at rank 2", scores(1, 4), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AveragePrecision(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAveragePrecision_InvalidInput(t *testing.T) {
	_, err := AveragePrecision(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReciprocalRank(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.RelevanceScore
		want  float64
	}{
		{"first hit relevant", scores(4, 1, 1), 1.0},
		{"third hit relevant", scores(1, 1, 4), 1.0 / 3.0},
		{"threshold score counts", scores(1, 3, 4), 0.5},
		{"nothing relevant", scores(1, 1, 1), 0.0},
		{"below threshold ignored", scores(2, 2, 2), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReciprocalRank(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestReciprocalRank_InvalidInput(t *testing.T) {
	_, err := ReciprocalRank(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMetrics_Deterministic(t *testing.T) {
	input := scores(2, 4, 1, 3, 1)

	first, err := NDCG(input, 5)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := NDCG(input, 5)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical input must produce identical NDCG")
	}
}
