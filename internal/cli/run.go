package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lancekrogers/yt-summarizer/internal/output"
)

var (
	exportDocx    bool
	videoListFile string
)

var runCmd = &cobra.Command{
	Use:   "run [url-or-id]...",
	Short: "Summarize one or more YouTube videos",
	Long: `Fetch the transcript for each video, summarize it chunk by chunk, and
write a markdown summary document. Transcripts are cached, so repeat
runs of the same video skip the network entirely. Videos can be given
as arguments, read from a list file with --list, or both.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&exportDocx, "docx", false, "also export the summary as a .docx file (single video only)")
	runCmd.Flags().StringVarP(&videoListFile, "list", "l", "", "file with one video URL or ID per line (# for comments)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	args, err := mergeVideoList(args, videoListFile)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("no videos given: pass URLs or IDs, or use --list")
	}

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

	if len(args) == 1 {
		outcome, err := app.pipe.ProcessVideo(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", outcome.VideoID, outcome.Status)
		if outcome.Path != "" {
			fmt.Printf("Summary: %s\n", outcome.Path)
		}
		if exportDocx && outcome.Path != "" {
			docxPath, err := exportSummaryDocx(outcome.Title, outcome.Path)
			if err != nil {
				return fmt.Errorf("export docx: %w", err)
			}
			fmt.Printf("Docx: %s\n", docxPath)
		}
		return nil
	}

	if exportDocx {
		app.log.Warn(ctx, "--docx applies to single-video runs only, ignoring")
	}

	stats, err := app.pipe.ProcessBatch(ctx, args)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d videos: %d succeeded, %d partial, %d failed, %d skipped, %d without transcripts\n",
		stats.Total, stats.Succeeded, stats.Partial, stats.Failed, stats.Skipped, stats.NoTranscript)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d videos failed", stats.Failed, stats.Total)
	}
	return nil
}

// mergeVideoList appends the entries of a list file to the positional
// arguments, skipping blanks and "#" comments and dropping duplicates
// while preserving order.
func mergeVideoList(args []string, listFile string) ([]string, error) {
	if listFile == "" {
		return args, nil
	}
	data, err := os.ReadFile(listFile)
	if err != nil {
		return nil, fmt.Errorf("read video list: %w", err)
	}

	merged := append([]string{}, args...)
	merged = append(merged, strings.Split(string(data), "\n")...)

	seen := make(map[string]bool, len(merged))
	unique := merged[:0]
	for _, v := range merged {
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "#") || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique, nil
}

func exportSummaryDocx(title, markdownPath string) (string, error) {
	data, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", err
	}
	docxPath := strings.TrimSuffix(markdownPath, ".md") + ".docx"
	if err := output.WriteDocx(title, string(data), docxPath); err != nil {
		return "", err
	}
	return docxPath, nil
}
