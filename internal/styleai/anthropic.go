package styleai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

// implements Styler using Anthropic Claude
type AnthropicStyler struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicStyler(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*AnthropicStyler, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicStyler{client: client, model: model}, nil
}

func (s *AnthropicStyler) GenerateStyle(
	ctx context.Context,
	description string,
) (style.ParseResult, error) {
	message, err := s.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     s.model,
			MaxTokens: 1024,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(BuildPrompt(description)),
				),
			},
		},
	)
	if err != nil {
		return style.ParseResult{}, fmt.Errorf("style generation failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return style.ParseResult{}, fmt.Errorf("empty response from Anthropic")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	return resolve(responseText)
}

func (s *AnthropicStyler) Close() error {
	return nil
}
