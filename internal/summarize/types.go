package summarize

import "time"

// Status classifies the outcome of a summarization run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// UnavailableSentinel replaces a chunk summary whose generation exhausted
// its retries. The run continues and is marked partial.
const UnavailableSentinel = "[summary unavailable]"

// ChunkSummary is the generated summary for one chunk, ordered by the
// chunk's position in the source, never by completion order.
type ChunkSummary struct {
	ChunkIndex int
	Text       string
}

// Result is the persisted unit produced by a summarization run.
// ChunkCount always equals len(ChunkSummaries).
type Result struct {
	SubjectID        string
	Title            string
	ExecutiveSummary string
	ChunkSummaries   []ChunkSummary
	Model            string
	ChunkCount       int
	Status           Status
	CreatedAt        time.Time
}
