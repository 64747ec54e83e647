package pipeline

import (
	"context"

	"github.com/lancekrogers/yt-summarizer/internal/plan"
)

// Pipeline defines the end-to-end summarization operations
type Pipeline interface {
	// ProcessVideo summarizes a single video URL or ID and writes the
	// summary document.
	ProcessVideo(ctx context.Context, urlOrID string) (*VideoOutcome, error)
	// ProcessBatch summarizes several videos with bounded concurrency.
	// Per-video failures are recorded in the stats, not returned.
	ProcessBatch(ctx context.Context, urlsOrIDs []string) (*BatchStats, error)
	// RunPlan executes a research plan: all of its videos, then the
	// corpus aggregation and corpus summary passes.
	RunPlan(ctx context.Context, p *plan.Plan) (*PlanStats, error)
	// RunCorpus rebuilds a plan's corpus artifacts from the summary
	// documents already on disk.
	RunCorpus(ctx context.Context, p *plan.Plan) (*PlanStats, error)
}

// VideoOutcome reports where a single video's summary landed.
type VideoOutcome struct {
	VideoID string
	Title   string
	Status  string
	Path    string
	Cached  bool
}

// BatchStats aggregates the outcomes of a batch run.
type BatchStats struct {
	Total        int
	Succeeded    int
	Partial      int
	Failed       int
	Skipped      int
	NoTranscript int
}

// PlanStats extends batch stats with the corpus artifacts.
type PlanStats struct {
	BatchStats
	CorpusPath        string
	CorpusSummaryPath string
}
