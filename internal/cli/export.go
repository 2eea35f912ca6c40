package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/style"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a subtitle file between SRT, VTT, and ASS formats.

When exporting to ASS, a style JSON file (--style) or style description
(--style-prompt) is baked into the stylesheet so the file plays back styled
without any player configuration. The stylesheet is sized for the target
video resolution (--width/--height).

Examples:
  lunaburn export video.srt --format vtt
  lunaburn export video.srt --format ass --style style.json
  lunaburn export video.vtt -f ass --width 1280 --height 720 -o styled.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "ass", "Output subtitle format (srt, vtt, ass)")
	exportCmd.Flags().
		String("style", "", "Path to a style JSON file (ASS output only)")
	exportCmd.Flags().
		String("style-prompt", "", "Natural-language style description resolved by AI (ASS output only)")
	exportCmd.Flags().
		String("style-provider", "openai", "AI provider for --style-prompt (openai, anthropic, gemini)")
	exportCmd.Flags().
		StringP("api-key", "k", "", "API key for --style-prompt (or set the provider env var)")
	exportCmd.Flags().
		Int("width", 1920, "Target video width for ASS styling")
	exportCmd.Flags().
		Int("height", 1080, "Target video height for ASS styling")
}

func runExport(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	formatStr, _ := cmd.Flags().GetString("format")
	stylePath, _ := cmd.Flags().GetString("style")
	stylePrompt, _ := cmd.Flags().GetString("style-prompt")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	outputPath, _ := cmd.Flags().GetString("output")

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

	if width <= 0 || height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}

	entries, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}
	if sameFile(subtitlePath, outputPath) {
		return fmt.Errorf(
			"output would overwrite the input file, pass --output or a different --format",
		)
	}

	var writer subtitle.Writer
	if format == subtitle.FormatASS {
		spec, err := resolveStyle(ctx, cmd, stylePath, stylePrompt)
		if err != nil {
			return err
		}
		resolved := style.Default()
		if spec != nil {
			resolved = *spec
		}
		writer = &subtitle.ASSWriter{
			Title:     strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath)),
			StyleLine: style.StyleLine(resolved, width, height),
			PlayResX:  width,
			PlayResY:  height,
		}
	} else {
		if stylePath != "" || stylePrompt != "" {
			return fmt.Errorf("styles only apply to ASS output")
		}
		writer, err = subtitle.NewWriter(format)
		if err != nil {
			return fmt.Errorf("failed to create subtitle writer: %w", err)
		}
	}

	if err := writer.Write(entries, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles exported successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Format: %s\n", format)

	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
