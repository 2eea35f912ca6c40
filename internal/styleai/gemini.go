package styleai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

// implements Styler using Google Gemini
type GeminiStyler struct {
	client *genai.Client
	model  string
}

func NewGeminiStyler(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiStyler, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiStyler{client: client, model: model}, nil
}

func (s *GeminiStyler) GenerateStyle(
	ctx context.Context,
	description string,
) (style.ParseResult, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(BuildPrompt(description)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return style.ParseResult{}, fmt.Errorf("style generation failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return style.ParseResult{}, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				responseText += part.Text
			}
		}
		if responseText != "" {
			break
		}
	}

	return resolve(responseText)
}

func (s *GeminiStyler) Close() error {
	return nil
}
