package pipeline

import (
	"context"
	"sync"

	"github.com/lancekrogers/yt-summarizer/internal/output"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
)

// semaphore implements a simple counting semaphore for limiting concurrency
type semaphore struct {
	ch chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{ch: make(chan struct{}, capacity)}
}

func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.ch
}

func (b *BatchStats) record(outcome *VideoOutcome, err error) {
	b.Total++
	if err != nil || outcome == nil {
		b.Failed++
		return
	}
	switch outcome.Status {
	case string(summarize.StatusSuccess):
		b.Succeeded++
	case string(summarize.StatusPartial):
		b.Partial++
	case output.ActivitySkipped:
		b.Skipped++
	case output.ActivityNoTranscript:
		b.NoTranscript++
	default:
		b.Failed++
	}
}

// ProcessBatch summarizes the given videos with bounded concurrency.
// Each video fails or succeeds on its own; one bad video never stops
// the rest.
func (p *implPipeline) ProcessBatch(ctx context.Context, urlsOrIDs []string) (*BatchStats, error) {
	job, err := p.defaultJob()
	if err != nil {
		return nil, err
	}
	outcomes, err := p.runBatch(ctx, urlsOrIDs, job)
	if err != nil {
		return nil, err
	}

	stats := &BatchStats{}
	for _, o := range outcomes {
		stats.record(o.outcome, o.err)
	}
	return stats, nil
}

type batchResult struct {
	outcome *VideoOutcome
	result  *summarize.Result
	err     error
}

// runBatch fans the videos out over the worker semaphore and returns
// per-video results in declared order.
func (p *implPipeline) runBatch(ctx context.Context, urlsOrIDs []string, job videoJob) ([]batchResult, error) {
	results := make([]batchResult, len(urlsOrIDs))
	sem := newSemaphore(p.cfg.Performance.MaxConcurrentVideos)

	var wg sync.WaitGroup
	for i, urlOrID := range urlsOrIDs {
		if err := sem.acquire(ctx); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.release()
			outcome, result, err := p.process(ctx, urlOrID, job)
			if err != nil {
				p.logger.Error(ctx, "Video %s failed: %v", urlOrID, err)
			}
			results[i] = batchResult{outcome: outcome, result: result, err: err}
		}()
	}
	wg.Wait()

	return results, nil
}
