package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var planDescription string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage and run research plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available research plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := app.plans.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Printf("No plans in %s\n", app.plans.Dir())
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var planCreateCmd = &cobra.Command{
	Use:   "create <id> <name>",
	Short: "Create a new research plan from the template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		path, err := app.plans.Create(args[0], args[1], planDescription)
		if err != nil {
			return err
		}
		fmt.Printf("Created plan at %s\n", path)
		fmt.Println("Edit the file to add video URLs before running it.")
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a research plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return app.plans.Delete(args[0])
	},
}

var planRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Run a research plan end to end",
	Long: `Process every video the plan declares with the plan's prompts, then
aggregate the summaries into a corpus document and a corpus-level
analysis.`,
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

		stats, err := app.pipe.RunPlan(ctx, pl)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d videos: %d succeeded, %d partial, %d failed, %d skipped, %d without transcripts\n",
			stats.Total, stats.Succeeded, stats.Partial, stats.Failed, stats.Skipped, stats.NoTranscript)
		if stats.CorpusPath != "" {
			fmt.Printf("Corpus: %s\n", stats.CorpusPath)
			fmt.Printf("Corpus summary: %s\n", stats.CorpusSummaryPath)
		}
		return nil
	},
}

func init() {
	planCreateCmd.Flags().StringVarP(&planDescription, "description", "d", "", "plan description")
	planCmd.AddCommand(planListCmd, planCreateCmd, planDeleteCmd, planRunCmd)
	rootCmd.AddCommand(planCmd)
}
