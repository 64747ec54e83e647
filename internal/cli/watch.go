package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lancekrogers/yt-summarizer/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the plans directory and run plans as they are dropped in",
	Long: `Monitor the configured plans directory. Whenever a new plan file
appears it is loaded, validated, and run end to end, including the
corpus pass. Press Ctrl+C to stop; in-flight runs finish first.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler := func(ctx context.Context, planPath string) error {
		id := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
		pl, err := app.plans.Load(id)
		if err != nil {
			return err
		}
		_, err = app.pipe.RunPlan(ctx, pl)
		return err
	}

	w, err := watcher.New(app.cfg.Paths.PlansDir, handler, app.log, 1)
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("Watching %s for new plans. Press Ctrl+C to stop.\n", app.cfg.Paths.PlansDir)
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
