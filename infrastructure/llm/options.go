package llm

// Default request parameters shared by all providers.
const (
	// DefaultMaxTokens bounds judge responses; a grading verdict with
	// justification fits comfortably within it.
	DefaultMaxTokens = 512
	// charactersPerToken approximates English-text tokenization for
	// providers that omit usage counts.
	charactersPerToken = 4
)

// RequestOptions is the standardized parameter set parsed from the
// request's opts map.
type RequestOptions struct {
	// Model overrides the provider's configured model for one request.
	Model string
	// MaxTokens caps the generated response length.
	MaxTokens int
	// Temperature controls sampling randomness; nil uses the provider
	// default.
	Temperature *float64
	// System is an optional system prompt.
	System string
	// JSON requests strict JSON output where the provider supports it.
	JSON bool
}

// ParseRequestOptions extracts standardized parameters from an opts
// map, falling back to defaults for missing or ill-typed entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		Model:     defaultModel,
		MaxTokens: DefaultMaxTokens,
	}
	if opts == nil {
		return options
	}

	if model, ok := opts["model"].(string); ok && model != "" {
		options.Model = model
	}
	if maxTokens, ok := opts["max_tokens"].(int); ok && maxTokens > 0 {
		options.MaxTokens = maxTokens
	}
	if temp, ok := opts["temperature"].(float64); ok && temp >= 0 && temp <= 1 {
		options.Temperature = &temp
	}
	if system, ok := opts["system"].(string); ok {
		options.System = system
	}
	if jsonMode, ok := opts["json"].(bool); ok {
		options.JSON = jsonMode
	}
	return options
}

// EstimateTokens approximates the token count of text when the
// provider response carries no usage metadata.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / charactersPerToken
}

// tokenCount prefers the provider-reported count, falling back to
// estimation when the provider reported zero.
func tokenCount(actual int, text string) int {
	if actual > 0 {
		return actual
	}
	return EstimateTokens(text)
}
