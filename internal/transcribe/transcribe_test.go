package transcribe

import (
	"context"
	"os"
	"testing"
)

func TestFactoryReturnsOpenAITranscriber(t *testing.T) {
	ctx := context.Background()
	transcriber, err := Factory(ctx, ProviderOpenAI, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := transcriber.(*OpenAITranscriber); !ok {
		t.Errorf("expected *OpenAITranscriber, got %T", transcriber)
	}
}

func TestFactoryReturnsGeminiTranscriber(t *testing.T) {
	ctx := context.Background()
	transcriber, err := Factory(ctx, ProviderGemini, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := transcriber.(*GeminiTranscriber); !ok {
		t.Errorf("expected *GeminiTranscriber, got %T", transcriber)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, Provider("whisperx"), "fake-key", Options{})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestOpenAITranscriberRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	if _, err := NewOpenAITranscriber(ctx, "", Options{}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	ctx := context.Background()
	transcriber, err := NewOpenAITranscriber(ctx, "fake-key", Options{})
	if err != nil {
		t.Fatalf("NewOpenAITranscriber error: %v", err)
	}

	_, err = transcriber.Transcribe(ctx, "/nonexistent/audio.mp3")
	if err == nil {
		t.Error("expected error for missing audio file")
	}
}

// Integration test: only runs if OPENAI_API_KEY and LUNABURN_TEST_AUDIO are set
func TestOpenAITranscriberIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	audioPath := os.Getenv("LUNABURN_TEST_AUDIO")
	if apiKey == "" || audioPath == "" {
		t.Skip("OPENAI_API_KEY or LUNABURN_TEST_AUDIO not set; skipping integration test")
	}

	ctx := context.Background()
	transcriber, err := NewOpenAITranscriber(ctx, apiKey, Options{})
	if err != nil {
		t.Fatalf("NewOpenAITranscriber error: %v", err)
	}

	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if len(result.Segments) == 0 {
		t.Error("expected at least one segment")
	}
	for i, seg := range result.Segments {
		if seg.Text == "" {
			t.Errorf("segment %d has empty text", i)
		}
		if seg.EndTime < seg.StartTime {
			t.Errorf("segment %d ends before it starts", i)
		}
	}
}
