package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the transcript cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transcript cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		stats, err := app.cache.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d\n", stats.Entries)
		fmt.Printf("Transcript bytes: %d\n", stats.TotalBytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [video-id]",
	Short: "Remove one cached transcript, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := context.Background()
		if len(args) == 1 {
			removed, err := app.cache.Clear(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("No cached transcript for %s\n", args[0])
				return nil
			}
			fmt.Printf("Removed cached transcript for %s\n", args[0])
			return nil
		}

		n, err := app.cache.ClearAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached transcripts\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
