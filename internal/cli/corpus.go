package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus <plan-id>",
	Short: "Rebuild a plan's corpus from existing summaries",
	Long: `Aggregate the summary documents a plan has already produced into the
combined corpus document and regenerate the corpus-level analysis,
without refetching or resummarizing any video.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := app.checkModel(ctx); err != nil {
			return fmt.Errorf("model check failed: %w", err)
		}

		pl, err := app.plans.Load(args[0])
		if err != nil {
			return err
		}

		stats, err := app.pipe.RunCorpus(ctx, pl)
		if err != nil {
			return err
		}
		fmt.Printf("Corpus: %s\n", stats.CorpusPath)
		fmt.Printf("Corpus summary: %s\n", stats.CorpusSummaryPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
}
