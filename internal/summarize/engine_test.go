package summarize

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/chunker"
	"github.com/lancekrogers/yt-summarizer/internal/llm"
	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/prompt"
)

// fakeClient scripts per-prompt behavior for engine tests.
type fakeClient struct {
	generate func(ctx context.Context, model, prompt string) (string, error)
	calls    atomic.Int64
}

func (f *fakeClient) Generate(ctx context.Context, model, promptText string) (string, error) {
	f.calls.Add(1)
	return f.generate(ctx, model, promptText)
}

func mustChunkTemplate(t *testing.T) prompt.Template {
	t.Helper()
	tmpl, err := prompt.ParseChunkTemplate("summarize: {chunk}")
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

func mustExecTemplate(t *testing.T) prompt.Template {
	t.Helper()
	tmpl, err := prompt.ParseExecutiveTemplate("combine: {bullet_summaries}")
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

func makeChunks(n int) []chunker.Chunk {
	chunks := make([]chunker.Chunk, n)
	for i := range chunks {
		chunks[i] = chunker.Chunk{Index: i, Text: fmt.Sprintf("chunk-%d", i)}
	}
	return chunks
}

func TestSummarizeOrderingInvariant(t *testing.T) {
	const n = 12

	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			// Random completion order must not leak into output order.
			time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
			if strings.HasPrefix(promptText, "combine:") {
				return "executive", nil
			}
			var idx int
			fmt.Sscanf(promptText, "summarize: chunk-%d", &idx)
			return fmt.Sprintf("summary-%d", idx), nil
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxConcurrent(6), WithBackoffBase(time.Millisecond))
	result, err := engine.Summarize(context.Background(), "vid", makeChunks(n), mustChunkTemplate(t), mustExecTemplate(t), "m")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Status != StatusSuccess {
		t.Errorf("Status = %s, want success", result.Status)
	}
	if result.ChunkCount != n || len(result.ChunkSummaries) != n {
		t.Fatalf("ChunkCount = %d, len = %d, want %d", result.ChunkCount, len(result.ChunkSummaries), n)
	}
	for i, s := range result.ChunkSummaries {
		if s.ChunkIndex != i {
			t.Errorf("position %d holds ChunkIndex %d", i, s.ChunkIndex)
		}
		if s.Text != fmt.Sprintf("summary-%d", i) {
			t.Errorf("position %d holds %q", i, s.Text)
		}
	}
	if result.ExecutiveSummary != "executive" {
		t.Errorf("ExecutiveSummary = %q", result.ExecutiveSummary)
	}
}

func TestSummarizePartialDegradation(t *testing.T) {
	// Chunk 1 always fails transiently; the run must still complete.
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			if strings.HasPrefix(promptText, "combine:") {
				if strings.Contains(promptText, UnavailableSentinel) {
					t.Error("sentinel text leaked into the executive prompt")
				}
				return "executive", nil
			}
			if strings.Contains(promptText, "chunk-1") {
				return "", fmt.Errorf("%w: timeout", llm.ErrUnavailable)
			}
			return "ok", nil
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxAttempts(2), WithBackoffBase(time.Millisecond))
	result, err := engine.Summarize(context.Background(), "vid", makeChunks(3), mustChunkTemplate(t), mustExecTemplate(t), "m")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Status != StatusPartial {
		t.Errorf("Status = %s, want partial", result.Status)
	}
	if result.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", result.ChunkCount)
	}
	if result.ChunkSummaries[1].Text != UnavailableSentinel {
		t.Errorf("failed chunk text = %q, want sentinel", result.ChunkSummaries[1].Text)
	}
	if result.ChunkSummaries[0].Text != "ok" || result.ChunkSummaries[2].Text != "ok" {
		t.Error("surviving chunks were not preserved")
	}
	if result.ExecutiveSummary != "executive" {
		t.Error("executive pass did not run on surviving summaries")
	}
}

func TestSummarizeExecutiveFailure(t *testing.T) {
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			if strings.HasPrefix(promptText, "combine:") {
				return "", fmt.Errorf("%w: timeout", llm.ErrUnavailable)
			}
			return "ok", nil
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxAttempts(2), WithBackoffBase(time.Millisecond))
	result, err := engine.Summarize(context.Background(), "vid", makeChunks(2), mustChunkTemplate(t), mustExecTemplate(t), "m")
	if !errors.Is(err, ErrExecutiveFailed) {
		t.Fatalf("Summarize() error = %v, want ErrExecutiveFailed", err)
	}
	if result != nil {
		t.Error("no result should be produced when the executive pass fails")
	}
}

func TestSummarizeTerminalErrorAborts(t *testing.T) {
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			return "", fmt.Errorf("%w: bogus", llm.ErrModelNotFound)
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxAttempts(3), WithBackoffBase(time.Millisecond))
	_, err := engine.Summarize(context.Background(), "vid", makeChunks(2), mustChunkTemplate(t), mustExecTemplate(t), "m")
	if !errors.Is(err, llm.ErrModelNotFound) {
		t.Fatalf("Summarize() error = %v, want ErrModelNotFound", err)
	}
	// No retries for a terminal failure: the losing goroutine may have run
	// once before cancellation, so at most one call per chunk.
	if client.calls.Load() > 2 {
		t.Errorf("terminal failure retried: %d calls", client.calls.Load())
	}
}

func TestGenerateWithRetryBackoffCeiling(t *testing.T) {
	var attempts atomic.Int64
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			attempts.Add(1)
			return "", fmt.Errorf("%w: reset", llm.ErrUnavailable)
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxAttempts(3), WithBackoffBase(time.Millisecond))
	_, err := engine.generateWithRetry(context.Background(), "m", "p")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts.Load() != 3 {
		t.Errorf("made %d attempts, want exactly 3", attempts.Load())
	}
	if !llm.IsTransient(err) {
		t.Error("exhausted transient error should still classify as transient")
	}
}

func TestGenerateWithRetryRecovers(t *testing.T) {
	var attempts atomic.Int64
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			if attempts.Add(1) < 3 {
				return "", fmt.Errorf("%w: reset", llm.ErrUnavailable)
			}
			return "recovered", nil
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxAttempts(3), WithBackoffBase(time.Millisecond))
	got, err := engine.generateWithRetry(context.Background(), "m", "p")
	if err != nil {
		t.Fatalf("generateWithRetry() error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("generateWithRetry() = %q", got)
	}
}

func TestSummarizeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{
		generate: func(ctx context.Context, model, promptText string) (string, error) {
			cancel()
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	engine := NewEngine(client, logger.Nop(), WithMaxConcurrent(1), WithBackoffBase(time.Millisecond))
	_, err := engine.Summarize(ctx, "vid", makeChunks(4), mustChunkTemplate(t), mustExecTemplate(t), "m")
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	// With one worker and immediate cancellation, no new calls are issued.
	if client.calls.Load() > 2 {
		t.Errorf("cancellation still issued %d calls", client.calls.Load())
	}
}
