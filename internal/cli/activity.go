package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent processing activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.activity.Tail(activityLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded yet")
			return nil
		}
		for _, e := range entries {
			when := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
			subject := e.VideoID
			if subject == "" {
				subject = "plan:" + e.PlanID
			}
			line := fmt.Sprintf("%s  %-13s %s", when, e.Status, subject)
			if e.Title != "" {
				line += "  " + e.Title
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(activityCmd)
}
