// Package llm provides the provider-agnostic LLM core the relevance
// judge is built on. It abstracts OpenAI, Anthropic, and Google behind
// a single request interface and adds cross-cutting concerns such as
// rate limiting, metrics, and tracing through a middleware chain.
//
// Basic usage:
//
//	core, err := llm.NewCoreLLM("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	}, llm.RateLimitMiddleware(10, 20))
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// CoreLLM is the minimal surface a provider must implement. The
// middleware system wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the
	// response text along with input and output token counts. The
	// opts map carries provider-tunable parameters such as
	// "temperature", "max_tokens", and "json" (request strict JSON
	// output where the provider supports it).
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// Middleware decorates a CoreLLM with a cross-cutting concern.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds provider construction settings.
type ClientConfig struct {
	// APIKey authenticates against the provider. Required.
	APIKey string

	// Model selects the model; empty uses the provider default.
	Model string

	// BaseURL overrides the provider endpoint, for proxies and tests.
	BaseURL string
}

// ProviderFactory constructs a provider from its configuration.
type ProviderFactory func(config ClientConfig) (CoreLLM, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ProviderFactory)
)

// RegisterProviderFactory makes a provider constructible by name.
// Providers register themselves from init; later registrations for the
// same name replace earlier ones.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCoreLLM builds the named provider and applies middleware.
// Middleware is applied so that the first listed wraps outermost.
func NewCoreLLM(provider string, config ClientConfig, middleware ...Middleware) (CoreLLM, error) {
	registryMu.RLock()
	factory, ok := registry[provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q (registered: %v)", provider, Providers())
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	for i := len(middleware) - 1; i >= 0; i-- {
		core = middleware[i](core)
	}
	return core, nil
}
