// Package styleai turns a natural-language description of a subtitle look
// ("big yellow text at the top, no box") into a style spec by asking a chat
// model for JSON and feeding the raw reply through the tolerant style parser.
// The model output is never trusted: whatever comes back is clamped and
// scored, and low-confidence replies fall back to the default style.
package styleai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

// interface for style generation from a description
type Styler interface {
	GenerateStyle(ctx context.Context, description string) (style.ParseResult, error)
}

// style generation provider
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

type Options struct {
	Model string
}

// creates Styler based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Styler, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIStyler(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicStyler(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiStyler(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported style provider: %s", provider)
	}
}

// BuildPrompt creates the style generation prompt for LLM providers.
func BuildPrompt(description string) string {
	var sb strings.Builder

	sb.WriteString("Convert the following subtitle style description into a JSON object.\n\n")
	sb.WriteString("The JSON object may contain any of these fields:\n")
	sb.WriteString("  fontFamily (string), fontSize (number, px),\n")
	sb.WriteString("  bold (boolean), textColor (hex string like \"#FFFFFF\"),\n")
	sb.WriteString("  strokeColor (hex string), strokeWidth (number, px),\n")
	sb.WriteString("  backgroundColor (hex string), backgroundOpacity (number, 0-100),\n")
	sb.WriteString("  hasBackground (boolean), textShadow (boolean),\n")
	sb.WriteString("  position (\"top\", \"center\" or \"bottom\"), positionOffset (number, px),\n")
	sb.WriteString("  maxWidthRatio (number, 0-1), lineHeight (number, percent),\n")
	sb.WriteString("  textTransform (\"none\", \"uppercase\", \"lowercase\" or \"capitalize\"),\n")
	sb.WriteString("  confidence (number, 0-1, how sure you are about the interpretation).\n\n")
	sb.WriteString("Include only the fields the description actually mentions, plus confidence.\n")
	sb.WriteString("Return ONLY the JSON object, no other text or markdown formatting.\n\n")
	sb.WriteString("Description: ")
	sb.WriteString(description)

	return sb.String()
}

// resolve runs the raw model reply through the tolerant style parser.
func resolve(responseText string) (style.ParseResult, error) {
	if strings.TrimSpace(responseText) == "" {
		return style.ParseResult{}, fmt.Errorf("empty style response")
	}
	return style.ParseAI(responseText), nil
}
