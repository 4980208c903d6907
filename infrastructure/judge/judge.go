// Package judge provides judgment client adapters: boundary
// translators that turn a query plus its ordered hit list into graded
// relevance judgments on the canonical scale. The package contains an
// LLM-backed judge, a deterministic lexical judge for offline use, and
// a retry wrapper for transient judge failures. No adapter computes
// metrics.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-searcheval/infrastructure/llm"
	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

var _ ports.Judge = (*LLMJudge)(nil)

// Default configuration values for the LLM judge.
const (
	// DefaultMaxConcurrency bounds concurrent per-hit grading calls.
	DefaultMaxConcurrency = 5
	// DefaultMaxTokens bounds each grading response.
	DefaultMaxTokens = 400
	// DefaultTemperature keeps grading as deterministic as the model
	// allows.
	DefaultTemperature = 0.0
)

// LLMJudgeConfig defines the tunable parameters of the LLM judge.
type LLMJudgeConfig struct {
	// PromptTemplate is the Go template used to build one grading
	// prompt per hit. It receives {{.Query}}, {{.Passage}}, and
	// {{.Fields}}.
	PromptTemplate string `yaml:"prompt_template" validate:"required,min=20"`

	// Temperature controls grading randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature" validate:"min=0.0,max=1.0"`

	// MaxTokens limits the length of each grading response.
	MaxTokens int `yaml:"max_tokens" validate:"required,min=50,max=2000"`

	// MaxConcurrency limits concurrent grading calls per query,
	// sized to respect the judge service's rate limits.
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=1,max=64"`
}

// DefaultLLMJudgeConfig returns production-ready defaults.
func DefaultLLMJudgeConfig() LLMJudgeConfig {
	return LLMJudgeConfig{
		PromptTemplate: DefaultPromptTemplate,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// LLMJudge grades each (query, hit) pair with one LLM call. Hits are
// graded concurrently under the configured bound; judgments are
// returned in hit order regardless of completion order. The judge is
// stateless and safe for concurrent use.
type LLMJudge struct {
	core     llm.CoreLLM
	config   LLMJudgeConfig
	validate *validator.Validate
	tmpl     *template.Template
}

// NewLLMJudge creates an LLM judge over the given core client.
// The model choice is fixed at construction through the core client,
// not through process-wide state.
func NewLLMJudge(core llm.CoreLLM, config LLMJudgeConfig) (*LLMJudge, error) {
	if core == nil {
		return nil, fmt.Errorf("LLM core cannot be nil")
	}

	v := validator.New()
	if err := v.Struct(config); err != nil {
		return nil, fmt.Errorf("judge configuration invalid: %w", err)
	}

	tmpl, err := template.New("gradingPrompt").Parse(config.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse grading prompt template: %w", err)
	}

	return &LLMJudge{
		core:     core,
		config:   config,
		validate: v,
		tmpl:     tmpl,
	}, nil
}

// judgeResponse is the strict JSON shape a grading call must return.
// Score uses the judge-boundary 0-3 scale; the pointer distinguishes a
// missing score from a legitimate zero.
type judgeResponse struct {
	Score         *int    `json:"score" validate:"required"`
	Confidence    float64 `json:"confidence" validate:"min=0.0,max=1.0"`
	Justification string  `json:"justification"`
}

// Judge implements ports.Judge. It returns one judgment per hit in hit
// order, plus the total token usage of the grading calls. Transport
// and provider failures surface as domain.ErrJudgeUnavailable when
// transient; malformed or out-of-scale responses surface as
// domain.ErrJudgeResponseInvalid and are not retried.
func (j *LLMJudge) Judge(
	ctx context.Context,
	query domain.Query,
	hits []domain.SearchHit,
	opts ports.JudgeOptions,
) ([]domain.RelevanceJudgment, domain.TokenUsage, error) {
	if len(hits) == 0 {
		return nil, domain.TokenUsage{}, fmt.Errorf("%w: no hits to judge", domain.ErrInvalidInput)
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = []string{"text"}
	}

	judgments := make([]domain.RelevanceJudgment, len(hits))
	var (
		mu    sync.Mutex
		usage domain.TokenUsage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.MaxConcurrency)

	for i, hit := range hits {
		g.Go(func() error {
			prompt, err := j.buildPrompt(query, hit, fields)
			if err != nil {
				return fmt.Errorf("hit %d: %w", i, err)
			}

			response, tokensIn, tokensOut, err := j.core.DoRequest(gctx, prompt, map[string]any{
				"temperature": j.config.Temperature,
				"max_tokens":  j.config.MaxTokens,
				"json":        true,
			})

			mu.Lock()
			usage.Add(domain.TokenUsage{PromptTokens: tokensIn, CompletionTokens: tokensOut})
			mu.Unlock()

			if err != nil {
				if llm.IsTransient(err) {
					return fmt.Errorf("%w: hit %d: %v", domain.ErrJudgeUnavailable, i, err)
				}
				return fmt.Errorf("judge call for hit %d failed: %w", i, err)
			}

			judgment, err := j.parseResponse(response, opts.Debug)
			if err != nil {
				return fmt.Errorf("hit %d: %w", i, err)
			}

			mu.Lock()
			judgments[i] = judgment
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, usage, err
	}
	return judgments, usage, nil
}

// buildPrompt renders the grading template for one hit, restricted to
// the evaluated fields in their given order.
func (j *LLMJudge) buildPrompt(query domain.Query, hit domain.SearchHit, fields []string) (string, error) {
	var passage strings.Builder
	for _, name := range fields {
		if value := hit.Field(name); value != "" {
			fmt.Fprintf(&passage, "%s: %s\n", name, value)
		}
	}

	var buf bytes.Buffer
	data := struct {
		Query   string
		Passage string
		Fields  []string
	}{
		Query:   query.Text,
		Passage: passage.String(),
		Fields:  fields,
	}
	if err := j.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute grading template: %w", err)
	}

	buf.WriteString(jsonInstruction)
	return buf.String(), nil
}

// parseResponse extracts and validates the grading verdict, then
// translates the judge's 0-3 score onto the canonical 1-4 scale.
func (j *LLMJudge) parseResponse(response string, debug bool) (domain.RelevanceJudgment, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return domain.RelevanceJudgment{}, fmt.Errorf("%w: no JSON object in response (%d chars)",
			domain.ErrJudgeResponseInvalid, len(response))
	}

	var parsed judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return domain.RelevanceJudgment{}, fmt.Errorf("%w: %v", domain.ErrJudgeResponseInvalid, err)
	}
	if err := j.validate.Struct(parsed); err != nil {
		return domain.RelevanceJudgment{}, fmt.Errorf("%w: %v", domain.ErrJudgeResponseInvalid, err)
	}

	score, err := domain.ScoreFromJudgeScale(*parsed.Score)
	if err != nil {
		return domain.RelevanceJudgment{}, err
	}

	judgment := domain.RelevanceJudgment{
		Score:      score,
		Confidence: parsed.Confidence,
	}
	if debug {
		judgment.Justification = parsed.Justification
	}
	return judgment, nil
}
