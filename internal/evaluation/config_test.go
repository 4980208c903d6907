package evaluation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-searcheval/internal/domain"
)

const validRunYAML = `
judge:
  provider: lexical
evaluation:
  fields: [title, text]
  ndcg_cutoff: 10
  query_concurrency: 4
queries:
  - id: q1
    text: reset forgotten password
  - id: q2
    text: change billing address
approaches:
  - name: bm25
    results:
      reset forgotten password:
        - id: d1
          fields:
            text: reset your password from the sign-in page
      change billing address:
        - id: d2
          fields:
            text: update billing address in account settings
  - name: hybrid
    results:
      reset forgotten password:
        - id: d1
          fields:
            text: reset your password from the sign-in page
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, validRunYAML))
	require.NoError(t, err)

	assert.Equal(t, "lexical", config.Judge.Provider)
	assert.Equal(t, []string{"title", "text"}, config.Evaluation.Fields)
	assert.Equal(t, 10, config.Evaluation.NDCGCutoff)
	require.Len(t, config.Queries, 2)
	require.Len(t, config.Approaches, 2)

	queries := config.QuerySet()
	assert.Equal(t, "q1", queries[0].ID)
	assert.Equal(t, "reset forgotten password", queries[0].Text)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Judge.Provider = "oracle" }},
		{"no queries", func(c *Config) { c.Queries = nil }},
		{"no approaches", func(c *Config) { c.Approaches = nil }},
		{"empty query text", func(c *Config) { c.Queries[0].Text = "" }},
		{"duplicate query text", func(c *Config) { c.Queries[1].Text = c.Queries[0].Text }},
		{"duplicate approach name", func(c *Config) { c.Approaches[1].Name = c.Approaches[0].Name }},
		{"negative cutoff", func(c *Config) { c.Evaluation.NDCGCutoff = -1 }},
		{"result for undeclared query", func(c *Config) {
			c.Approaches[0].Results["mystery query"] = c.Approaches[0].Results["change billing address"]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, validRunYAML))
			require.NoError(t, err)

			tt.mutate(config)
			err = config.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApproachSpec_SearchFunc(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, validRunYAML))
	require.NoError(t, err)

	search := config.Approaches[1].SearchFunc()

	result, err := search(context.Background(), domain.Query{Text: "reset forgotten password"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "d1", result.Hits[0].ID)
	assert.Contains(t, result.Hits[0].Field("text"), "sign-in page")

	// The hybrid approach declares no results for the billing query.
	result, err = search(context.Background(), domain.Query{Text: "change billing address"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}
