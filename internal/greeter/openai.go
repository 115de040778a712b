package greeter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openaiModel = openai.ChatModelGPT4_1Mini

const openaiSystemPrompt = `You write the single greeting line a smart mirror
shows when it recognizes someone. One short, warm sentence addressing the
person by name. No quotes, no emoji, no explanations.`

// OpenAIProvider generates greetings with the OpenAI chat API, falling back
// to templates when the call fails.
type OpenAIProvider struct {
	client   *openai.Client
	fallback *TemplateProvider
}

// NewOpenAIProvider creates an OpenAI-backed greeter.
func NewOpenAIProvider(apiKey string, fallback *TemplateProvider) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client, fallback: fallback}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return string(openaiModel)
}

// Greet asks the model for a one-line greeting. Unknown visitors and API
// failures fall through to the template provider.
func (p *OpenAIProvider) Greet(ctx context.Context, visitorName string, now time.Time) (string, error) {
	if visitorName == "" {
		return p.fallback.Greet(ctx, visitorName, now)
	}

	userMessage := fmt.Sprintf("It is %s. Greet %s.", PartOfDay(now), visitorName)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openaiSystemPrompt),
			openai.UserMessage(userMessage),
		},
		MaxTokens: openai.Int(60),
	})
	if err != nil {
		return p.fallback.Greet(ctx, visitorName, now)
	}

	if len(resp.Choices) == 0 {
		return p.fallback.Greet(ctx, visitorName, now)
	}
	greeting := strings.TrimSpace(resp.Choices[0].Message.Content)
	if greeting == "" {
		return p.fallback.Greet(ctx, visitorName, now)
	}
	return greeting, nil
}
