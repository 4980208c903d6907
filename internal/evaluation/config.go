package evaluation

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/ports"
)

// Config is the complete specification for an evaluation run: the
// judge to grade with, evaluation tunables, the query set, and the
// named approaches whose ranked results are being compared.
type Config struct {
	// Judge configures the judgment source for the run.
	Judge JudgeSettings `yaml:"judge" validate:"required"`

	// Evaluation tunes per-query evaluation and run concurrency.
	Evaluation EvalSettings `yaml:"evaluation"`

	// Queries is the ordered query set every approach is evaluated
	// over.
	Queries []QuerySpec `yaml:"queries" validate:"required,min=1,dive"`

	// Approaches lists the search configurations to evaluate. The
	// first entry is the comparison baseline.
	Approaches []ApproachSpec `yaml:"approaches" validate:"required,min=1,dive"`
}

// JudgeSettings selects and tunes the judgment source.
type JudgeSettings struct {
	// Provider names the judgment source: an LLM provider registered
	// with the llm package, or "lexical" for the offline judge.
	Provider string `yaml:"provider" validate:"required,oneof=openai anthropic google lexical"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the provider
	// API key. Unused by the lexical judge.
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL overrides the provider endpoint, for proxies and
	// compatible gateways.
	BaseURL string `yaml:"base_url"`

	// Temperature controls grading randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature" validate:"min=0.0,max=1.0"`

	// MaxTokens limits each grading response; 0 uses the judge
	// default.
	MaxTokens int `yaml:"max_tokens" validate:"omitempty,min=50,max=2000"`

	// MaxConcurrency bounds concurrent grading calls per query; 0 uses
	// the judge default.
	MaxConcurrency int `yaml:"max_concurrency" validate:"omitempty,min=1,max=64"`

	// RequestsPerSecond rate-limits judge calls; 0 disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`

	// Burst is the rate limiter burst size; 0 defaults to 1 when
	// limiting is enabled.
	Burst int `yaml:"burst" validate:"min=0"`

	// Retry configures bounded backoff for transient judge failures.
	Retry RetrySettings `yaml:"retry"`
}

// RetrySettings is the YAML shape of the judge retry policy. Delays
// are expressed in milliseconds.
type RetrySettings struct {
	// MaxAttempts is the total number of attempts including the first,
	// where 0 keeps the default.
	MaxAttempts int `yaml:"max_attempts" validate:"min=0,max=10"`

	// BaseDelayMs is the delay in milliseconds before the first retry.
	BaseDelayMs int `yaml:"base_delay_ms" validate:"omitempty,min=0,max=60000"`

	// MaxDelayMs caps the delay in milliseconds between attempts.
	MaxDelayMs int `yaml:"max_delay_ms" validate:"omitempty,min=0,max=300000"`

	// JitterPercent randomizes delays by up to this fraction.
	JitterPercent float64 `yaml:"jitter_percent" validate:"min=0.0,max=1.0"`
}

// EvalSettings tunes per-query evaluation and run-level concurrency.
type EvalSettings struct {
	// Fields lists the hit fields shown to the judge, in order. Empty
	// means ["text"].
	Fields []string `yaml:"fields"`

	// Debug requests per-hit justifications from the judge.
	Debug bool `yaml:"debug"`

	// NDCGCutoff is the k for NDCG@k; 0 evaluates full hit lists.
	NDCGCutoff int `yaml:"ndcg_cutoff" validate:"min=0"`

	// QueryConcurrency bounds queries evaluated in flight per
	// approach; 0 uses the runner default.
	QueryConcurrency int `yaml:"query_concurrency" validate:"omitempty,min=1,max=64"`
}

// QuerySpec declares one query of the evaluation set.
type QuerySpec struct {
	// ID is an optional stable identifier for the query.
	ID string `yaml:"id"`

	// Text is the query string and the identity used when matching
	// approach results to queries.
	Text string `yaml:"text" validate:"required,min=1"`
}

// ApproachSpec declares one search approach with its pre-retrieved,
// ranked results per query.
type ApproachSpec struct {
	// Name identifies the approach in summaries and reports.
	Name string `yaml:"name" validate:"required,min=1,max=255"`

	// Results holds the ranked hit list per query, keyed by query
	// text. Queries absent from the map evaluate as empty result
	// lists.
	Results map[string][]HitSpec `yaml:"results" validate:"omitempty,dive,dive"`
}

// HitSpec is one retrieved document in an approach's ranked list.
type HitSpec struct {
	// ID is an optional stable identifier for the hit.
	ID string `yaml:"id"`

	// Fields holds the document's named text fields.
	Fields map[string]string `yaml:"fields" validate:"required,min=1"`
}

// LoadConfig reads and validates a run configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks structural constraints and cross-references: every
// result key of every approach must name a declared query.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	declared := make(map[string]struct{}, len(c.Queries))
	for i, q := range c.Queries {
		if _, dup := declared[q.Text]; dup {
			return fmt.Errorf("%w: duplicate query text at index %d: %q", domain.ErrInvalidInput, i, q.Text)
		}
		declared[q.Text] = struct{}{}
	}

	seen := make(map[string]struct{}, len(c.Approaches))
	for _, a := range c.Approaches {
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: duplicate approach name %q", domain.ErrInvalidInput, a.Name)
		}
		seen[a.Name] = struct{}{}
		for text := range a.Results {
			if _, ok := declared[text]; !ok {
				return fmt.Errorf("%w: approach %q has results for undeclared query %q",
					domain.ErrInvalidInput, a.Name, text)
			}
		}
	}
	return nil
}

// QuerySet converts the declared queries into domain queries in
// declaration order.
func (c *Config) QuerySet() []domain.Query {
	queries := make([]domain.Query, len(c.Queries))
	for i, q := range c.Queries {
		queries[i] = domain.Query{ID: q.ID, Text: q.Text}
	}
	return queries
}

// SearchFunc builds a search function serving the approach's
// pre-retrieved results. Queries without results answer with an empty
// hit list.
func (a ApproachSpec) SearchFunc() ports.SearchFunc {
	return func(ctx context.Context, query domain.Query) (domain.SearchResult, error) {
		if err := ctx.Err(); err != nil {
			return domain.SearchResult{}, err
		}
		specs := a.Results[query.Text]
		hits := make([]domain.SearchHit, len(specs))
		for i, spec := range specs {
			hits[i] = domain.SearchHit{ID: spec.ID, Fields: spec.Fields}
		}
		return domain.SearchResult{Query: query, Hits: hits}, nil
	}
}
