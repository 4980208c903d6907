package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ahrav/go-searcheval/internal/domain"
)

// runArtifact is the on-disk shape of a persisted run: the approach
// summaries plus the comparison report when one was produced.
type runArtifact struct {
	Summaries  []*domain.ApproachSummary `json:"summaries"`
	Comparison *domain.ComparisonReport  `json:"comparison,omitempty"`
}

// SaveRun writes approach summaries and an optional comparison report
// to path as indented JSON. The comparison may be nil when only one
// approach was run.
func SaveRun(path string, summaries []*domain.ApproachSummary, comparison *domain.ComparisonReport) error {
	if len(summaries) == 0 {
		return fmt.Errorf("%w: no summaries to save", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(runArtifact{Summaries: summaries, Comparison: comparison}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run artifact: %w", err)
	}
	return nil
}

// LoadRun reads a persisted run artifact back from path.
func LoadRun(path string) ([]*domain.ApproachSummary, *domain.ComparisonReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read run artifact: %w", err)
	}

	var artifact runArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("decode run artifact: %w", err)
	}
	return artifact.Summaries, artifact.Comparison, nil
}
