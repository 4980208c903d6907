package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLLM appends its tag to a shared trace on each request.
type recordingLLM struct {
	tag   string
	trace *[]string
	next  CoreLLM
}

func (r *recordingLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	*r.trace = append(*r.trace, r.tag)
	if r.next != nil {
		return r.next.DoRequest(ctx, prompt, opts)
	}
	return "ok", 1, 1, nil
}

func (r *recordingLLM) GetModel() string { return "trace-model" }

func TestNewCoreLLM_UnknownProvider(t *testing.T) {
	_, err := NewCoreLLM("does-not-exist", ClientConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestProviders_RegisteredByInit(t *testing.T) {
	names := Providers()
	assert.Contains(t, names, "openai")
	assert.Contains(t, names, "anthropic")
	assert.Contains(t, names, "google")
}

func TestNewCoreLLM_MiddlewareOrder(t *testing.T) {
	var trace []string
	tagging := func(tag string) Middleware {
		return func(next CoreLLM) CoreLLM {
			return &recordingLLM{tag: tag, trace: &trace, next: next}
		}
	}

	RegisterProviderFactory("trace-test", func(config ClientConfig) (CoreLLM, error) {
		return &recordingLLM{tag: "provider", trace: &trace}, nil
	})

	core, err := NewCoreLLM("trace-test", ClientConfig{APIKey: "k"}, tagging("outer"), tagging("inner"))
	require.NoError(t, err)

	_, _, _, err = core.DoRequest(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "provider"}, trace,
		"first-listed middleware must wrap outermost")
}

func TestNewCoreLLM_RequiresAPIKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic"} {
		_, err := NewCoreLLM(provider, ClientConfig{})
		require.Error(t, err, "provider %s must reject an empty API key", provider)
		assert.ErrorIs(t, err, ErrEmptyAPIKey)
	}
}
