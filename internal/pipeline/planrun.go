package pipeline

import (
	"context"
	"fmt"

	"github.com/lancekrogers/yt-summarizer/internal/corpus"
	"github.com/lancekrogers/yt-summarizer/internal/output"
	"github.com/lancekrogers/yt-summarizer/internal/plan"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
)

// RunPlan executes a research plan end to end: every declared video,
// then the corpus aggregation and the corpus-level summary. Corpus
// sections follow the plan's declared video order regardless of which
// video finished first.
func (p *implPipeline) RunPlan(ctx context.Context, pl *plan.Plan) (*PlanStats, error) {
	templates, err := pl.Templates()
	if err != nil {
		return nil, err
	}
	videos, err := pl.VideoList(p.cfg.Paths.PlansDir)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("plan %s: no videos to process", pl.ID)
	}

	p.logger.Info(ctx, "Running plan %s: %d videos", pl.ID, len(videos))

	job := videoJob{
		chunkTmpl: templates.Chunk,
		execTmpl:  templates.Executive,
		docsDir:   pl.Output.VideoSummariesDir,
		filename:  pl.VideoFilename,
	}
	results, err := p.runBatch(ctx, videos, job)
	if err != nil {
		return nil, err
	}

	stats := &PlanStats{}
	var docs []corpus.Document
	for _, r := range results {
		stats.record(r.outcome, r.err)
		if r.result == nil {
			continue
		}
		docs = append(docs, corpus.Document{
			SubjectID: r.outcome.VideoID,
			Title:     r.result.Title,
			Body:      output.BuildSummaryBody(r.result),
		})
	}

	if len(docs) == 0 {
		p.logger.Warn(ctx, "Plan %s produced no summaries, skipping corpus pass", pl.ID)
		return stats, nil
	}

	corpusPath, summaryPath, err := p.corpusPass(ctx, pl, templates, docs)
	if err != nil {
		return stats, err
	}
	stats.CorpusPath = corpusPath
	stats.CorpusSummaryPath = summaryPath

	p.logger.Info(ctx, "Plan %s finished: corpus at %s, summary at %s", pl.ID, stats.CorpusPath, stats.CorpusSummaryPath)
	return stats, nil
}

// RunCorpus rebuilds the corpus artifacts from the summary documents
// already on disk, without refetching or resummarizing any video.
func (p *implPipeline) RunCorpus(ctx context.Context, pl *plan.Plan) (*PlanStats, error) {
	templates, err := pl.Templates()
	if err != nil {
		return nil, err
	}
	docs, err := corpus.LoadDocuments(pl.Output.VideoSummariesDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("plan %s: no summaries in %s", pl.ID, pl.Output.VideoSummariesDir)
	}

	p.logger.Info(ctx, "Rebuilding corpus for plan %s from %d summaries", pl.ID, len(docs))

	stats := &PlanStats{}
	corpusPath, summaryPath, err := p.corpusPass(ctx, pl, templates, docs)
	if err != nil {
		return nil, err
	}
	stats.CorpusPath = corpusPath
	stats.CorpusSummaryPath = summaryPath
	return stats, nil
}

// corpusPass aggregates the documents, summarizes the corpus, and writes
// both corpus artifacts.
func (p *implPipeline) corpusPass(ctx context.Context, pl *plan.Plan, templates plan.Templates, docs []corpus.Document) (string, string, error) {
	corpusResult, corpusText, err := p.agg.Summarize(ctx, pl.ID, docs, templates.CorpusChunk, templates.CorpusExecutive, p.cfg.Model())
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{PlanID: pl.ID, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return "", "", fmt.Errorf("plan %s: corpus pass: %w", pl.ID, err)
	}
	corpusResult.Title = pl.Meta.Name

	// Combined corpus document.
	corpusFM := output.FrontMatter{
		PlanID: pl.ID,
		Title:  fmt.Sprintf("Research Corpus: %s", pl.Meta.Name),
		Slug:   output.Slugify(pl.Meta.Name),
		Saved:  output.FormatSaved(corpusResult.CreatedAt),
		Model:  corpusResult.Model,
		Tags:   output.DefaultTags,
	}
	corpusDoc, err := output.BuildCorpusMarkdown(corpusFM, corpusText)
	if err != nil {
		return "", "", err
	}
	written, err := p.writer.Write(pl.Output.CorpusDir, pl.CorpusFilename(), corpusDoc, p.policy)
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{PlanID: pl.ID, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return "", "", fmt.Errorf("plan %s: write corpus: %w", pl.ID, err)
	}
	corpusPath := written.Path

	// Corpus-level summary document.
	summaryFM := output.FrontMatter{
		PlanID:     pl.ID,
		Title:      fmt.Sprintf("Corpus Analysis: %s", pl.Meta.Name),
		Slug:       output.Slugify(pl.Meta.Name),
		Saved:      output.FormatSaved(corpusResult.CreatedAt),
		Model:      corpusResult.Model,
		ChunkCount: corpusResult.ChunkCount,
		Tags:       output.DefaultTags,
	}
	summaryDoc, err := output.BuildMarkdown(summaryFM, corpusResult)
	if err != nil {
		return "", "", err
	}
	written, err = p.writer.Write(pl.Output.CorpusDir, pl.CorpusSummaryFilename(), summaryDoc, p.policy)
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{PlanID: pl.ID, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return "", "", fmt.Errorf("plan %s: write corpus summary: %w", pl.ID, err)
	}

	p.recordActivity(ctx, output.ActivityEntry{
		PlanID:     pl.ID,
		Title:      pl.Meta.Name,
		Status:     string(corpusResult.Status),
		ChunkCount: corpusResult.ChunkCount,
		Model:      corpusResult.Model,
	})
	return corpusPath, written.Path, nil
}
