package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ytsum",
	Short: "Summarize YouTube video transcripts with a local or hosted LLM",
	Long: `ytsum fetches YouTube transcripts, splits them into token-bounded
chunks, summarizes each chunk concurrently, and aggregates the results
into an executive summary. Research plans batch many videos and add a
corpus-level analysis across all of their summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}
