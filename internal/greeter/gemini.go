package greeter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// GeminiProvider generates greetings with the Gemini API, falling back to
// templates when the call fails.
type GeminiProvider struct {
	client   *genai.Client
	fallback *TemplateProvider
}

// NewGeminiProvider creates a Gemini-backed greeter.
func NewGeminiProvider(ctx context.Context, apiKey string, fallback *TemplateProvider) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, fallback: fallback}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return geminiModel
}

// Greet asks the model for a one-line greeting. Unknown visitors and API
// failures fall through to the template provider.
func (p *GeminiProvider) Greet(ctx context.Context, visitorName string, now time.Time) (string, error) {
	if visitorName == "" {
		return p.fallback.Greet(ctx, visitorName, now)
	}

	prompt := fmt.Sprintf(
		"Write the single greeting line a smart mirror shows. It is %s. "+
			"Greet %s by name in one short, warm sentence. No quotes, no emoji.",
		PartOfDay(now), visitorName,
	)

	result, err := p.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), nil)
	if err != nil {
		return p.fallback.Greet(ctx, visitorName, now)
	}

	greeting := strings.TrimSpace(result.Text())
	if greeting == "" {
		return p.fallback.Greet(ctx, visitorName, now)
	}
	return greeting, nil
}
