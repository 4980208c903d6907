package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevanceScore_Valid(t *testing.T) {
	tests := []struct {
		name  string
		score RelevanceScore
		valid bool
	}{
		{"not relevant", NotRelevant, true},
		{"partially relevant", PartiallyRelevant, true},
		{"moderately relevant", ModeratelyRelevant, true},
		{"highly relevant", HighlyRelevant, true},
		{"zero is off scale", RelevanceScore(0), false},
		{"five is off scale", RelevanceScore(5), false},
		{"negative is off scale", RelevanceScore(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.score.Valid())
		})
	}
}

func TestRelevanceScore_Relevant(t *testing.T) {
	assert.False(t, NotRelevant.Relevant(), "score 1 must be below the binary threshold")
	assert.False(t, PartiallyRelevant.Relevant(), "score 2 must be below the binary threshold")
	assert.True(t, ModeratelyRelevant.Relevant(), "score 3 is the binary threshold")
	assert.True(t, HighlyRelevant.Relevant(), "score 4 must be relevant")
}

func TestScoreFromJudgeScale(t *testing.T) {
	tests := []struct {
		raw  int
		want RelevanceScore
	}{
		{0, NotRelevant},
		{1, PartiallyRelevant},
		{2, ModeratelyRelevant},
		{3, HighlyRelevant},
	}

	for _, tt := range tests {
		score, err := ScoreFromJudgeScale(tt.raw)
		require.NoError(t, err, "judge score %d should translate", tt.raw)
		assert.Equal(t, tt.want, score)
	}
}

func TestScoreFromJudgeScale_OutOfRange(t *testing.T) {
	for _, raw := range []int{-1, 4, 10} {
		_, err := ScoreFromJudgeScale(raw)
		require.Error(t, err, "judge score %d must be rejected", raw)
		assert.ErrorIs(t, err, ErrJudgeResponseInvalid)
	}
}

func TestRelevanceJudgment_Validate(t *testing.T) {
	valid := RelevanceJudgment{Score: HighlyRelevant, Confidence: 0.9}
	require.NoError(t, valid.Validate())

	invalid := RelevanceJudgment{Score: RelevanceScore(7)}
	err := invalid.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
