package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Rionsanfas/lunaburn/internal/media"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// GeminiTranscriber transcribes by uploading the audio file and asking the
// model for a timed JSON transcript.
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
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

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploaded, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploaded.Name, nil)
	}()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(t.buildTranscriptionPrompt()),
			genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
		}, genai.RoleUser),
	}

	reply, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := t.parseTranscriptionResponse(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	duration, _ := media.GetDuration(audioPath)

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	lines := []string{
		"Generate a detailed transcript of this audio.",
		"For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken.",
		"Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields,",
		"where 'start' and 'end' are timestamps in seconds (as numbers).",
	}

	if t.options.Language != "" {
		lines = append(lines, fmt.Sprintf("The audio is in %s.", t.options.Language))
	}
	if lang := t.options.TranscriptLanguage; lang != "" && lang != "native" {
		lines = append(lines, fmt.Sprintf("Output the transcript in %s.", lang))
	}
	if t.options.Prompt != "" {
		lines = append(lines, t.options.Prompt)
	}

	lines = append(lines, "Return ONLY the JSON array, no other text or markdown formatting.")

	return strings.Join(lines, " ")
}

func (t *GeminiTranscriber) parseTranscriptionResponse(reply *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	responseText := collectText(reply)
	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	responseText = cleanJSONResponse(responseText)

	var raw []transcriptSegment
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (response: %s)",
			err, truncateString(responseText, 200))
	}

	// the model reports no per-segment probabilities, so parsed segments
	// count as fully confident
	segments := make([]subtitle.Segment, len(raw))
	for i, seg := range raw {
		segments[i] = subtitle.Segment{
			StartTime:  time.Duration(seg.Start * float64(time.Second)),
			EndTime:    time.Duration(seg.End * float64(time.Second)),
			Text:       strings.TrimSpace(seg.Text),
			Confidence: 1,
		}
	}

	return segments, nil
}

// collectText concatenates the text parts of the first candidate that has any.
func collectText(reply *genai.GenerateContentResponse) string {
	if reply == nil {
		return ""
	}
	for _, candidate := range reply.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

var codeFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// cleanJSONResponse strips markdown code fences and surrounding whitespace.
func cleanJSONResponse(s string) string {
	s = codeFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func (t *GeminiTranscriber) Close() error {
	return nil
}
