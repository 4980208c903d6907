package llm

import (
	"context"
	"errors"
	"math"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GoogleDefaultModel is used when no model is configured.
const GoogleDefaultModel = "gemini-2.0-flash"

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreLLM for Google's Gemini API.
type googleProvider struct {
	client     *genai.Client
	model      string
	classifier *ErrorClassifier
}

// newGoogleProvider creates a Google Gemini provider from the
// configuration using API-key authentication.
func newGoogleProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &googleProvider{
		client:     client,
		model:      model,
		classifier: &ErrorClassifier{Provider: "google"},
	}, nil
}

// DoRequest sends a content generation request and returns the
// generated text with token usage. Gemini has no separate system role;
// a system prompt is prepended to the user prompt.
func (p *googleProvider) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	options := ParseRequestOptions(opts, p.model)

	finalPrompt := prompt
	if options.System != "" {
		finalPrompt = options.System + "\n\n" + prompt
	}
	contents := []*genai.Content{genai.NewContentFromText(finalPrompt, genai.RoleUser)}

	generation := &genai.GenerateContentConfig{}
	if options.Temperature != nil {
		generation.Temperature = genai.Ptr(float32(*options.Temperature))
	}
	if options.MaxTokens > 0 && options.MaxTokens <= math.MaxInt32 {
		generation.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.JSON {
		generation.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, options.Model, contents, generation)
	if err != nil {
		return "", 0, 0, p.handleError(err)
	}

	content := resp.Text()
	if content == "" {
		return "", 0, 0, NewProviderError("google", ErrorTypeServerError, 0, "no text content", ErrEmptyResponse)
	}

	tokensIn := EstimateTokens(finalPrompt)
	tokensOut := EstimateTokens(content)
	if usage := resp.UsageMetadata; usage != nil {
		tokensIn = tokenCount(int(usage.PromptTokenCount), finalPrompt)
		tokensOut = tokenCount(int(usage.CandidatesTokenCount), content)
	}
	return content, tokensIn, tokensOut, nil
}

// GetModel returns the configured model identifier.
func (p *googleProvider) GetModel() string { return p.model }

// handleError normalizes Google API errors onto ProviderError.
func (p *googleProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.classifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}
		return p.classifier.ClassifyHTTPError(apiErr.Code, message, err)
	}

	return NewProviderError("google", ErrorTypeNetwork, 0, "request failed", err)
}
