package domain

import "fmt"

// RelevanceScore is a graded relevance judgment on the canonical
// four-level ordinal scale. The canonical scale is 1-4; judge services
// that grade on a zero-based 0-3 checklist are translated at the
// adapter boundary via ScoreFromJudgeScale.
type RelevanceScore int

// The canonical relevance scale.
const (
	// NotRelevant indicates the hit does not address the query.
	NotRelevant RelevanceScore = 1
	// PartiallyRelevant indicates the hit touches the topic but does
	// not answer the query.
	PartiallyRelevant RelevanceScore = 2
	// ModeratelyRelevant indicates the hit substantially addresses the
	// query. This is the binary-relevance threshold.
	ModeratelyRelevant RelevanceScore = 3
	// HighlyRelevant indicates the hit fully answers the query.
	HighlyRelevant RelevanceScore = 4
)

// RelevanceThreshold is the minimum score treated as relevant by the
// binary metrics (MAP, MRR). NDCG uses the raw graded score instead.
const RelevanceThreshold = ModeratelyRelevant

// Valid reports whether the score lies on the canonical scale.
// Out-of-range values are a data error and must be rejected at the
// boundary that produced them.
func (s RelevanceScore) Valid() bool {
	return s >= NotRelevant && s <= HighlyRelevant
}

// Relevant is the binary-relevance predicate shared by MAP and MRR.
func (s RelevanceScore) Relevant() bool { return s >= RelevanceThreshold }

// String returns the human-readable scale label.
func (s RelevanceScore) String() string {
	switch s {
	case NotRelevant:
		return "not_relevant"
	case PartiallyRelevant:
		return "partially_relevant"
	case ModeratelyRelevant:
		return "moderately_relevant"
	case HighlyRelevant:
		return "highly_relevant"
	default:
		return fmt.Sprintf("invalid(%d)", int(s))
	}
}

// ScoreFromJudgeScale translates a zero-based judge score (0-3) onto
// the canonical 1-4 scale. The grading prompt asks for a 0-3 checklist
// score, so the adapter shifts by one exactly once, here.
func ScoreFromJudgeScale(raw int) (RelevanceScore, error) {
	s := RelevanceScore(raw + 1)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: judge score %d outside 0-3 scale", ErrJudgeResponseInvalid, raw)
	}
	return s, nil
}

// RelevanceJudgment is the judge's verdict for one (query, hit) pair.
type RelevanceJudgment struct {
	// Score is the graded relevance on the canonical 1-4 scale.
	Score RelevanceScore `json:"score"`

	// Confidence is the judge's self-reported certainty in [0,1].
	// Zero means the judge did not report confidence.
	Confidence float64 `json:"confidence,omitempty"`

	// Justification explains the score. Populated only when the judge
	// request enabled debug output.
	Justification string `json:"justification,omitempty"`
}

// Validate rejects judgments whose score is off the canonical scale.
func (j RelevanceJudgment) Validate() error {
	if !j.Score.Valid() {
		return fmt.Errorf("%w: relevance score %d outside 1-4 scale", ErrInvalidInput, int(j.Score))
	}
	return nil
}
