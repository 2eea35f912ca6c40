package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/media"
	"github.com/Rionsanfas/lunaburn/internal/render"
	"github.com/Rionsanfas/lunaburn/internal/style"
	"github.com/Rionsanfas/lunaburn/internal/styleai"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// styles resolved from an AI description below this confidence are discarded
const minStyleConfidence = 0.5

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [subtitle_file]",
	Short: "Burn styled subtitles into a video",
	Long: `Burn a subtitle file into a video so the text becomes part of the
picture. The timeline can come from an SRT or VTT file; the visual style
from a JSON file (--style), a natural-language description
(--style-prompt), or the built-in default.

Two render strategies are available:
  engine     single ffmpeg pass using the subtitles filter (default)
  composite  frame-by-frame overlay drawing in-process

Examples:
  lunaburn burn video.mp4 video.srt
  lunaburn burn video.mp4 video.srt --style style.json
  lunaburn burn video.mp4 video.srt --style-prompt "big yellow text at the top"
  lunaburn burn video.mp4 video.vtt --strategy composite -o out.mp4`,
	Args: cobra.ExactArgs(2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().
		String("strategy", "engine", "Render strategy (engine, composite)")
	burnCmd.Flags().
		String("style", "", "Path to a style JSON file")
	burnCmd.Flags().
		String("style-prompt", "", "Natural-language style description resolved by AI")
	burnCmd.Flags().
		String("style-provider", "openai", "AI provider for --style-prompt (openai, anthropic, gemini)")
	burnCmd.Flags().
		StringP("api-key", "k", "", "API key for --style-prompt (or set the provider env var)")
	burnCmd.Flags().
		Bool("inline-style", false, "Pass the style as force_style instead of an ASS stylesheet (engine strategy)")
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	subtitlePath := args[1]
	ctx := context.Background()

	strategy, _ := cmd.Flags().GetString("strategy")
	stylePath, _ := cmd.Flags().GetString("style")
	stylePrompt, _ := cmd.Flags().GetString("style-prompt")
	inlineStyle, _ := cmd.Flags().GetBool("inline-style")
	outputPath, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf(
			"unsupported video type: %s",
			filepath.Ext(videoPath),
		)
	}
	if stylePath != "" && stylePrompt != "" {
		return fmt.Errorf("--style and --style-prompt are mutually exclusive")
	}

	entries, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}
	entries = subtitle.SortByStart(entries)

	spec, err := resolveStyle(ctx, cmd, stylePath, stylePrompt)
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		outputPath = baseName + ".burned.mp4"
	}

	engine := render.NewEngine()

	var renderer render.Renderer
	switch strategy {
	case "engine":
		fg := render.NewFilterGraph(engine, logger)
		fg.InlineStyle = inlineStyle
		renderer = fg
	case "composite":
		renderer = render.NewCompositor(engine, logger)
	default:
		return fmt.Errorf(
			"unsupported strategy %q: use engine or composite",
			strategy,
		)
	}

	logger.Infow("Starting subtitle burn-in",
		"input", videoPath,
		"subtitles", subtitlePath,
		"output", outputPath,
		"strategy", strategy,
		"entries", len(entries),
	)

	job := render.NewJob(renderer, render.Request{
		InputPath:  videoPath,
		OutputPath: outputPath,
		Timeline:   entries,
		Style:      spec,
	})

	result, err := job.Run(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	absOutput, _ := filepath.Abs(result.OutputPath)
	fmt.Printf("Subtitles burned successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Duration: %s\n", result.Duration.String())

	return nil
}

// resolveStyle loads the render style from a JSON file or an AI description.
// Returns nil when neither is given so the renderer falls back to defaults.
func resolveStyle(
	ctx context.Context,
	cmd *cobra.Command,
	stylePath, stylePrompt string,
) (*style.Spec, error) {
	if stylePath != "" {
		data, err := os.ReadFile(stylePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read style file: %w", err)
		}
		spec := style.Default()
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("invalid style file %s: %w", stylePath, err)
		}
		spec = spec.Clamp()
		return &spec, nil
	}

	if stylePrompt == "" {
		return nil, nil
	}

	providerStr, _ := cmd.Flags().GetString("style-provider")
	apiKey, _ := cmd.Flags().GetString("api-key")

	provider := styleai.Provider(providerStr)
	apiKey, err := styleAPIKey(provider, apiKey)
	if err != nil {
		return nil, err
	}

	styler, err := styleai.Factory(ctx, provider, apiKey, styleai.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create styler: %w", err)
	}

	result, err := styler.GenerateStyle(ctx, stylePrompt)
	if err != nil {
		return nil, fmt.Errorf("style generation failed: %w", err)
	}

	for _, issue := range result.Issues {
		logger.Warnw("Style field ignored", "issue", issue)
	}
	if result.Confidence < minStyleConfidence {
		logger.Warnw("Low-confidence style, using defaults",
			"confidence", result.Confidence,
		)
		spec := style.Default()
		return &spec, nil
	}

	logger.Infow("Resolved style from description",
		"confidence", result.Confidence,
	)
	return &result.Spec, nil
}

func styleAPIKey(provider styleai.Provider, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	var envVar string
	switch provider {
	case styleai.ProviderOpenAI:
		envVar = "OPENAI_API_KEY"
	case styleai.ProviderAnthropic:
		envVar = "ANTHROPIC_API_KEY"
	case styleai.ProviderGemini:
		envVar = "GEMINI_API_KEY"
	default:
		envVar = "API_KEY"
	}

	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}
