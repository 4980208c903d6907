package judge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

func TestLexicalJudge_CoverageBuckets(t *testing.T) {
	query := domain.Query{Text: "reset forgotten password"}

	tests := []struct {
		name string
		text string
		want domain.RelevanceScore
	}{
		{"no terms present", "shipping rates for international orders", domain.NotRelevant},
		{"one of three terms", "a password must be twelve characters", domain.PartiallyRelevant},
		{"two of three terms", "reset your password from the sign-in page", domain.ModeratelyRelevant},
		{"all terms present", "how to reset a forgotten password quickly", domain.HighlyRelevant},
	}

	j := NewLexicalJudge()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := []domain.SearchHit{{Fields: map[string]string{"text": tt.text}}}
			judgments, usage, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{})
			require.NoError(t, err)
			require.Len(t, judgments, 1)
			assert.Equal(t, tt.want, judgments[0].Score)
			assert.Zero(t, usage.Total(), "lexical judging consumes no tokens")
		})
	}
}

func TestLexicalJudge_CaseFolding(t *testing.T) {
	j := NewLexicalJudge()
	query := domain.Query{Text: "RESET Password"}
	hits := []domain.SearchHit{{Fields: map[string]string{"text": "reset password instructions"}}}

	judgments, _, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.HighlyRelevant, judgments[0].Score)
}

func TestLexicalJudge_FuzzyMatching(t *testing.T) {
	j := NewLexicalJudge()
	// "password" vs "passwords" is one edit over nine characters,
	// similarity ~0.89, above the fuzzy threshold.
	query := domain.Query{Text: "password"}
	hits := []domain.SearchHit{{Fields: map[string]string{"text": "managing passwords safely"}}}

	judgments, _, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.HighlyRelevant, judgments[0].Score)
}

func TestLexicalJudge_Deterministic(t *testing.T) {
	j := NewLexicalJudge()
	query := domain.Query{Text: "change billing address"}
	hits := []domain.SearchHit{
		{Fields: map[string]string{"text": "update billing address in settings"}},
		{Fields: map[string]string{"text": "our office address has changed"}},
	}

	first, _, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, _, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{})
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical inputs must produce identical judgments")
	}
}

func TestLexicalJudge_RespectsFieldSelection(t *testing.T) {
	j := NewLexicalJudge()
	query := domain.Query{Text: "billing"}
	hits := []domain.SearchHit{{Fields: map[string]string{
		"title": "unrelated notice",
		"body":  "billing details inside",
	}}}

	judgments, _, err := j.Judge(context.Background(), query, hits, ports.JudgeOptions{Fields: []string{"title"}})
	require.NoError(t, err)
	assert.Equal(t, domain.NotRelevant, judgments[0].Score, "fields outside the selection stay invisible")

	judgments, _, err = j.Judge(context.Background(), query, hits, ports.JudgeOptions{Fields: []string{"body"}})
	require.NoError(t, err)
	assert.Equal(t, domain.HighlyRelevant, judgments[0].Score)
}

func TestLexicalJudge_EmptyHits(t *testing.T) {
	j := NewLexicalJudge()
	_, _, err := j.Judge(context.Background(), domain.Query{Text: "x"}, nil, ports.JudgeOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
