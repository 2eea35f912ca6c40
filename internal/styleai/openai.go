package styleai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

// implements Styler using OpenAI Chat Completions
type OpenAIStyler struct {
	client openai.Client
	model  string
}

func NewOpenAIStyler(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAIStyler, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAIStyler{client: client, model: model}, nil
}

func (s *OpenAIStyler) GenerateStyle(
	ctx context.Context,
	description string,
) (style.ParseResult, error) {
	completion, err := s.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(BuildPrompt(description)),
			},
			Model: s.model,
		},
	)
	if err != nil {
		return style.ParseResult{}, fmt.Errorf("style generation failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return style.ParseResult{}, fmt.Errorf("empty response from OpenAI")
	}

	return resolve(completion.Choices[0].Message.Content)
}

func (s *OpenAIStyler) Close() error {
	return nil
}
