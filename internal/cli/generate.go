package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/media"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
	"github.com/Rionsanfas/lunaburn/internal/transcribe"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate subtitles for an audio or video file",
	Long: `Generate subtitles for the specified audio or video file using AI
transcription.

The command accepts both audio files (mp3, wav, aac, etc.) and video files
(mp4, mkv, etc.). For video files, audio is automatically extracted before
transcription. Generated subtitles can be output in SRT, VTT, or ASS format.

Examples:
  lunaburn generate video.mp4
  lunaburn generate audio.mp3 --format vtt
  lunaburn generate video.mp4 --provider gemini --api-key YOUR_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("provider", "openai", "Transcription provider (openai, gemini)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	generateCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider default if empty)")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript ('native' keeps the original)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	formatStr, _ := cmd.Flags().GetString("format")
	model, _ := cmd.Flags().GetString("model")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")

	provider := transcribe.Provider(providerStr)
	if apiKey == "" {
		switch provider {
		case transcribe.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		case transcribe.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set the provider environment variable",
		)
	}

	var format subtitle.Format
	switch strings.ToLower(formatStr) {
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	case "ass":
		format = subtitle.FormatASS
	default:
		return fmt.Errorf("unsupported format %q: use srt, vtt, or ass", formatStr)
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"format", formatStr,
		"provider", providerStr,
	)

	audioPath := mediaPath
	if media.IsVideoFile(mediaPath) {
		tempDir, err := os.MkdirTemp("", "lunaburn-*")
		if err != nil {
			return fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)

		logger.Infow("Extracting audio from video")
		audioPath = filepath.Join(tempDir, "audio.mp3")
		opts := media.DefaultAudioOptions()
		if err := media.ExtractAudio(ctx, mediaPath, audioPath, opts); err != nil {
			return fmt.Errorf("failed to extract audio: %w", err)
		}
	}

	transcribeOpts := transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribeOpts)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio")

	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
	)

	generator := subtitle.NewGenerator()
	entries := generator.Generate(result.Segments)
	if len(entries) == 0 {
		return fmt.Errorf("transcription produced no usable segments")
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}

	if err := writer.Write(entries, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Duration: %s\n", result.Duration.String())

	return nil
}
