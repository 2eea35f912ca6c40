// Package transcribe turns audio into timed, confidence-scored segments that
// the subtitle generator packs into entries.
package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// Result is the full transcription of one audio file.
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

type Options struct {
	Language           string // source language of the audio
	TranscriptLanguage string // output language for the transcript ("native" keeps the original)
	Model              string
	Prompt             string
}

// Factory builds the Transcriber for the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
