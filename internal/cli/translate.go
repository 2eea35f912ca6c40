package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/subtitle"
	"github.com/Rionsanfas/lunaburn/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate an existing subtitle file to another language using AI.

Supports SRT and VTT input. Timing is preserved exactly; only the text is
translated. If the provider returns a different number of lines than it was
given, the whole translation fails rather than re-timing by guesswork.

Examples:
  lunaburn translate video.srt --target-language japanese
  lunaburn translate video.vtt -l english --target-language spanish -o translated.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set the provider env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider default if empty)")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 50, "Number of subtitle entries per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	provider := translate.Provider(providerStr)

	if apiKey == "" {
		switch provider {
		case translate.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		case translate.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		case translate.ProviderAnthropic:
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set the provider environment variable",
		)
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	ext := filepath.Ext(subtitlePath)
	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, ext)
		outputPath = fmt.Sprintf("%s.%s%s", baseName, targetLang, ext)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"provider", providerStr,
	)

	entries, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	opts := translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	}

	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating subtitles",
		"entries", len(entries),
		"concurrency", concurrency,
	)

	if ct, ok := translator.(translate.ConcurrentTranslator); ok && concurrency > 1 {
		translator = concurrentAdapter{ct, concurrency}
	}

	translated, err := translate.TranslateEntries(ctx, translator, entries)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	format := subtitle.GetFormatFromExtension(outputPath)
	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(translated, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(translated))
	fmt.Printf("  Target language: %s\n", targetLang)

	return nil
}

// concurrentAdapter pins a worker count onto the plain Translate call so
// TranslateEntries can stay provider-agnostic.
type concurrentAdapter struct {
	translate.ConcurrentTranslator
	concurrency int
}

func (a concurrentAdapter) Translate(
	ctx context.Context,
	items []translate.TranslationItem,
) ([]translate.TranslationResult, error) {
	return a.TranslateWithConcurrency(ctx, items, a.concurrency)
}
