package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Rionsanfas/lunaburn/internal/media"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// OpenAITranscriber transcribes through the Whisper audio endpoints. When the
// requested transcript language is English it uses the translation endpoint,
// which translates any source language in the same pass.
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

type whisperSegment struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	AvgLogprob   float64 `json:"avg_logprob"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	// probe duration up front; it backs the single-segment fallback when the
	// response carries no timing
	duration, _ := media.GetDuration(audioPath)

	if t.shouldUseTranslation() {
		return t.translateToEnglish(ctx, file, duration)
	}
	return t.transcribeVerbose(ctx, file, duration)
}

func (t *OpenAITranscriber) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

func (t *OpenAITranscriber) translateToEnglish(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	return &Result{
		Segments: segmentsOrFallback(resp.RawJSON(), resp.Text, duration),
		Language: "en",
		Duration: duration,
	}, nil
}

func (t *OpenAITranscriber) transcribeVerbose(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return &Result{
		Segments: segmentsOrFallback(resp.RawJSON(), resp.Text, duration),
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// segmentsOrFallback parses the timed segments out of the raw response; if
// the payload is not verbose_json it degrades to one full-length segment so
// the caller always gets subtitles.
func segmentsOrFallback(
	rawJSON, plainText string,
	duration time.Duration,
) []subtitle.Segment {
	segments, err := parseVerboseJSONResponse(rawJSON, duration)
	if err != nil {
		return []subtitle.Segment{{
			StartTime:  0,
			EndTime:    duration,
			Text:       strings.TrimSpace(plainText),
			Confidence: 1,
		}}
	}
	return segments
}

func parseVerboseJSONResponse(
	rawJSON string,
	fallbackDuration time.Duration,
) ([]subtitle.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(resp.Segments) == 0 {
		if resp.Text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		dur := fallbackDuration
		if resp.Duration > 0 {
			dur = time.Duration(resp.Duration * float64(time.Second))
		}
		return []subtitle.Segment{{
			StartTime:  0,
			EndTime:    dur,
			Text:       strings.TrimSpace(resp.Text),
			Confidence: 1,
		}}, nil
	}

	segments := make([]subtitle.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			StartTime:  time.Duration(seg.Start * float64(time.Second)),
			EndTime:    time.Duration(seg.End * float64(time.Second)),
			Text:       text,
			Confidence: segmentConfidence(seg),
		})
	}

	return segments, nil
}

// segmentConfidence maps Whisper's per-segment log probability to a 0..1
// score, discounted by the no-speech probability.
func segmentConfidence(seg whisperSegment) float64 {
	conf := math.Exp(seg.AvgLogprob) * (1 - seg.NoSpeechProb)
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

func (t *OpenAITranscriber) Close() error {
	return nil
}
