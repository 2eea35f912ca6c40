package cli

import (
	"github.com/spf13/cobra"

	"github.com/Rionsanfas/lunaburn/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lunaburn",
	Short: "Burn styled subtitles into videos",
	Long: `Lunaburn renders subtitles directly into video frames so they play
back everywhere, no player support needed.

It can also generate subtitles from the audio track, translate existing
subtitle files, and convert between SRT, VTT, and ASS.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
