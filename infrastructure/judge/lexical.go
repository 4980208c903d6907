package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

var _ ports.Judge = (*LexicalJudge)(nil)

// fuzzyMatchThreshold is the minimum normalized Levenshtein similarity
// for a query term to count as present in a passage token.
const fuzzyMatchThreshold = 0.8

// LexicalJudge is a deterministic, offline judgment source. It grades
// a hit by the fraction of query terms found in the evaluated fields,
// with case folding and fuzzy token matching to absorb inflection and
// typos. Intended for development, smoke tests, and pipelines where no
// LLM judge is available; it consumes no tokens and never fails
// transiently.
type LexicalJudge struct {
	folder cases.Caser
}

// NewLexicalJudge creates a lexical judge.
func NewLexicalJudge() *LexicalJudge {
	return &LexicalJudge{folder: cases.Fold()}
}

// Judge implements ports.Judge deterministically: identical inputs
// always produce identical judgments.
func (l *LexicalJudge) Judge(
	ctx context.Context,
	query domain.Query,
	hits []domain.SearchHit,
	opts ports.JudgeOptions,
) ([]domain.RelevanceJudgment, domain.TokenUsage, error) {
	if len(hits) == 0 {
		return nil, domain.TokenUsage{}, fmt.Errorf("%w: no hits to judge", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.TokenUsage{}, err
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = []string{"text"}
	}

	terms := strings.Fields(l.folder.String(query.Text))
	judgments := make([]domain.RelevanceJudgment, len(hits))
	for i, hit := range hits {
		var text strings.Builder
		for _, name := range fields {
			text.WriteString(l.folder.String(hit.Field(name)))
			text.WriteByte(' ')
		}

		coverage := l.termCoverage(terms, text.String())
		judgment := domain.RelevanceJudgment{
			Score:      scoreFromCoverage(coverage),
			Confidence: 1.0,
		}
		if opts.Debug {
			judgment.Justification = fmt.Sprintf("matched %.0f%% of query terms lexically", coverage*100)
		}
		judgments[i] = judgment
	}
	return judgments, domain.TokenUsage{}, nil
}

// termCoverage returns the fraction of query terms present in the
// folded passage text, counting exact substrings first and fuzzy
// token matches second.
func (l *LexicalJudge) termCoverage(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}

	tokens := strings.Fields(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			matched++
			continue
		}
		for _, token := range tokens {
			if similarity(term, token) >= fuzzyMatchThreshold {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(terms))
}

// similarity is normalized Levenshtein similarity in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// scoreFromCoverage buckets term coverage onto the canonical scale.
func scoreFromCoverage(coverage float64) domain.RelevanceScore {
	switch {
	case coverage == 0:
		return domain.NotRelevant
	case coverage < 0.5:
		return domain.PartiallyRelevant
	case coverage < 1:
		return domain.ModeratelyRelevant
	default:
		return domain.HighlyRelevant
	}
}
