package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lancekrogers/yt-summarizer/internal/chunker"
	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/prompt"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
)

// ErrEmptyCorpus indicates a plan run produced no usable summaries to
// aggregate.
var ErrEmptyCorpus = errors.New("corpus: no summaries to aggregate")

// Document is one per-video summary contributing to a corpus, in the
// order its video was declared in the plan.
type Document struct {
	SubjectID string
	Title     string
	Body      string
}

// Aggregator combines per-video summaries into a single corpus text and
// runs a corpus-level summarization pass over it with the same chunking
// and retry machinery used for individual videos.
type Aggregator struct {
	engine    *summarize.Engine
	logger    logger.Logger
	maxTokens int
}

func NewAggregator(engine *summarize.Engine, log logger.Logger, maxTokens int) *Aggregator {
	return &Aggregator{
		engine:    engine,
		logger:    log,
		maxTokens: maxTokens,
	}
}

// Build concatenates the documents into the corpus text. Order follows
// the declared document order, never completion order.
func Build(docs []Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrEmptyCorpus
	}

	sections := make([]string, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SubjectID
		}
		sections = append(sections, fmt.Sprintf("## Video Summary: %s\n\n%s", title, strings.TrimSpace(doc.Body)))
	}
	return strings.Join(sections, "\n\n---\n\n"), nil
}

// Summarize builds the corpus text and runs the chunk/executive passes
// over it. It returns the summarization result along with the corpus
// text itself so the caller can persist both artifacts.
func (a *Aggregator) Summarize(ctx context.Context, corpusID string, docs []Document, chunkTmpl, execTmpl prompt.Template, model string) (*summarize.Result, string, error) {
	text, err := Build(docs)
	if err != nil {
		return nil, "", err
	}

	chunks, err := chunker.Split(text, a.maxTokens)
	if err != nil {
		return nil, "", fmt.Errorf("corpus %s: %w", corpusID, err)
	}
	if len(chunks) == 0 {
		return nil, "", ErrEmptyCorpus
	}

	a.logger.Info(ctx, "Aggregating corpus %s: %d documents, %d chunks", corpusID, len(docs), len(chunks))

	result, err := a.engine.Summarize(ctx, corpusID, chunks, chunkTmpl, execTmpl, model)
	if err != nil {
		return nil, "", fmt.Errorf("corpus %s: %w", corpusID, err)
	}
	return result, text, nil
}
