package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/styleai"
)

var styleCmd = &cobra.Command{
	Use:   "style [description]",
	Short: "Turn a style description into a style JSON file",
	Long: `Resolve a natural-language subtitle style description into the JSON
style format used by the burn and export commands.

The resolved style is printed to stdout, or written to a file with
--output. Low-confidence interpretations are reported but still emitted,
so the result can be inspected and edited by hand.

Examples:
  lunaburn style "big yellow text at the top, no box"
  lunaburn style "netflix look" -o style.json`,
	Args: cobra.ExactArgs(1),
	RunE: runStyle,
}

func init() {
	rootCmd.AddCommand(styleCmd)

	styleCmd.Flags().
		String("provider", "openai", "AI provider (openai, anthropic, gemini)")
	styleCmd.Flags().
		StringP("api-key", "k", "", "API key (or set the provider env var)")
	styleCmd.Flags().
		String("model", "", "Model to use (provider default if empty)")
}

func runStyle(cmd *cobra.Command, args []string) error {
	description := args[0]
	ctx := context.Background()

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	outputPath, _ := cmd.Flags().GetString("output")

	provider := styleai.Provider(providerStr)
	apiKey, err := styleAPIKey(provider, apiKey)
	if err != nil {
		return err
	}

	styler, err := styleai.Factory(ctx, provider, apiKey, styleai.Options{
		Model: model,
	})
	if err != nil {
		return fmt.Errorf("failed to create styler: %w", err)
	}

	logger.Infow("Resolving style description",
		"provider", providerStr,
	)

	result, err := styler.GenerateStyle(ctx, description)
	if err != nil {
		return fmt.Errorf("style generation failed: %w", err)
	}

	for _, issue := range result.Issues {
		logger.Warnw("Style field ignored", "issue", issue)
	}
	if result.Confidence < minStyleConfidence {
		logger.Warnw("Low confidence interpretation, review the output",
			"confidence", result.Confidence,
		)
	}

	data, err := json.MarshalIndent(result.Spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode style: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write style file: %w", err)
	}

	fmt.Printf("Style written: %s (confidence %.2f)\n", outputPath, result.Confidence)
	return nil
}
