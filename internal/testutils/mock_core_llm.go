// Package testutils provides scripted doubles for the judge and LLM
// boundaries, used across package tests.
package testutils

import (
	"context"
	"sync"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// MockCoreLLM is a scripted llm.CoreLLM double. Responses are served
// in order; the last entry repeats once the script is exhausted. Safe
// for concurrent use.
type MockCoreLLM struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     int
	prompts   []string
}

// MockResponse is one scripted DoRequest result.
type MockResponse struct {
	Response  string
	TokensIn  int
	TokensOut int
	Err       error
}

// NewMockCoreLLM creates a mock that serves the given responses in
// order.
func NewMockCoreLLM(responses ...MockResponse) *MockCoreLLM {
	return &MockCoreLLM{responses: responses}
}

// DoRequest implements llm.CoreLLM against the script.
func (m *MockCoreLLM) DoRequest(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	if len(m.responses) == 0 {
		return "", 0, 0, nil
	}
	r := m.responses[idx]
	return r.Response, r.TokensIn, r.TokensOut, r.Err
}

// GetModel implements llm.CoreLLM.
func (m *MockCoreLLM) GetModel() string { return "mock-model" }

// Calls returns the number of DoRequest invocations so far.
func (m *MockCoreLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns the prompts received so far, in call order.
func (m *MockCoreLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

var _ ports.Judge = (*ScriptedJudge)(nil)

// ScriptedJudge is a ports.Judge double that serves pre-planned
// judgments keyed by query text. Unknown queries fail with the
// configured error, or grade everything NotRelevant when none is set.
type ScriptedJudge struct {
	mu sync.Mutex

	// Judgments maps query text to the per-hit scores to return. The
	// score list is truncated or repeated to match the hit count.
	Judgments map[string][]domain.RelevanceScore

	// Errs maps query text to an error returned instead of judgments.
	Errs map[string]error

	// UsagePerHit is the token usage charged per judged hit.
	UsagePerHit domain.TokenUsage

	calls int
}

// Judge implements ports.Judge against the script.
func (s *ScriptedJudge) Judge(
	ctx context.Context,
	query domain.Query,
	hits []domain.SearchHit,
	opts ports.JudgeOptions,
) ([]domain.RelevanceJudgment, domain.TokenUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.TokenUsage{}, err
	}

	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if err, ok := s.Errs[query.Text]; ok {
		return nil, domain.TokenUsage{}, err
	}

	scores := s.Judgments[query.Text]
	judgments := make([]domain.RelevanceJudgment, len(hits))
	var usage domain.TokenUsage
	for i := range hits {
		score := domain.NotRelevant
		if len(scores) > 0 {
			score = scores[i%len(scores)]
		}
		judgments[i] = domain.RelevanceJudgment{Score: score, Confidence: 1.0}
		usage.Add(s.UsagePerHit)
	}
	return judgments, usage, nil
}

// Calls returns the number of Judge invocations so far.
func (s *ScriptedJudge) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
