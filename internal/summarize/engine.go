package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lancekrogers/yt-summarizer/internal/chunker"
	"github.com/lancekrogers/yt-summarizer/internal/llm"
	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/prompt"
)

// ErrExecutiveFailed indicates the executive pass exhausted its retries.
// No result is produced and no artifact should be written.
var ErrExecutiveFailed = errors.New("summarize: executive summary generation failed")

// Engine runs the two-level summarize-then-aggregate algorithm: a bounded
// concurrent chunk pass followed by a single executive pass over the
// ordered chunk summaries.
type Engine struct {
	client        llm.Client
	logger        logger.Logger
	maxConcurrent int
	maxAttempts   int
	backoffBase   time.Duration
	now           func() time.Time
}

// Option customizes an Engine during construction.
type Option func(*Engine)

// WithMaxConcurrent bounds how many chunk calls run at once.
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// WithMaxAttempts sets the retry ceiling per model call.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithBackoffBase sets the first retry delay; later delays double it.
func WithBackoffBase(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.backoffBase = d
		}
	}
}

// WithClock overrides the clock used for result timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.now = clock
	}
}

// NewEngine creates a summarization engine around a language model client.
func NewEngine(client llm.Client, log logger.Logger, opts ...Option) *Engine {
	engine := &Engine{
		client:        client,
		logger:        log,
		maxConcurrent: 2,
		maxAttempts:   3,
		backoffBase:   time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Summarize generates one summary per chunk concurrently, reassembles them
// in chunk order, and aggregates them into an executive summary.
//
// A chunk that exhausts its retries is recorded with UnavailableSentinel
// and downgrades the result to partial; terminal model errors abort the
// run immediately. If the executive pass fails, no Result is returned.
func (e *Engine) Summarize(ctx context.Context, subjectID string, chunks []chunker.Chunk, chunkTmpl, execTmpl prompt.Template, model string) (*Result, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("summarize: no chunks for %s", subjectID)
	}

	e.logger.Info(ctx, "Summarizing %s: %d chunks with model %s", subjectID, len(chunks), model)

	summaries := make([]ChunkSummary, len(chunks))
	var failedChunks atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)

	for _, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := e.generateWithRetry(gctx, model, chunkTmpl.Render(chunk.Text))
			if err != nil {
				if !llm.IsTransient(err) || gctx.Err() != nil {
					return fmt.Errorf("chunk %d: %w", chunk.Index, err)
				}
				e.logger.Warn(gctx, "Chunk %d of %s failed after retries: %v", chunk.Index, subjectID, err)
				failedChunks.Add(1)
				summaries[chunk.Index] = ChunkSummary{ChunkIndex: chunk.Index, Text: UnavailableSentinel}
				return nil
			}
			summaries[chunk.Index] = ChunkSummary{ChunkIndex: chunk.Index, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Executive pass over whatever chunk summaries succeeded, in source order.
	var usable []string
	for _, s := range summaries {
		if s.Text != UnavailableSentinel {
			usable = append(usable, s.Text)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: every chunk of %s failed", ErrExecutiveFailed, subjectID)
	}

	executive, err := e.generateWithRetry(ctx, model, execTmpl.Render(strings.Join(usable, "\n\n")))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutiveFailed, err)
	}

	status := StatusSuccess
	if failedChunks.Load() > 0 {
		status = StatusPartial
		e.logger.Warn(ctx, "%s completed with %d/%d chunks unavailable", subjectID, failedChunks.Load(), len(chunks))
	}

	return &Result{
		SubjectID:        subjectID,
		ExecutiveSummary: executive,
		ChunkSummaries:   summaries,
		Model:            model,
		ChunkCount:       len(summaries),
		Status:           status,
		CreatedAt:        e.now().UTC(),
	}, nil
}

// generateWithRetry wraps a model call with bounded retries and exponential
// backoff. Only transient failures are retried; terminal failures surface
// immediately.
func (e *Engine) generateWithRetry(ctx context.Context, model, renderedPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := e.backoffBase * (1 << uint(attempt-1))
			e.logger.Debug(ctx, "retrying model call in %s (attempt %d/%d)", backoff, attempt+1, e.maxAttempts)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		text, err := e.client.Generate(ctx, model, renderedPrompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !llm.IsTransient(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("exhausted %d attempts: %w", e.maxAttempts, lastErr)
}
