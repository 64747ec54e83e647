package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/chunker"
	"github.com/lancekrogers/yt-summarizer/internal/output"
	"github.com/lancekrogers/yt-summarizer/internal/prompt"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
	"github.com/lancekrogers/yt-summarizer/internal/transcript"
)

// videoJob carries the per-run settings: which prompts drive the
// summarization and where the document lands.
type videoJob struct {
	chunkTmpl prompt.Template
	execTmpl  prompt.Template
	docsDir   string
	filename  func(titleSlug, videoID string) string
}

func (p *implPipeline) defaultJob() (videoJob, error) {
	chunkTmpl, err := prompt.ParseChunkTemplate(prompt.DefaultChunkPrompt)
	if err != nil {
		return videoJob{}, err
	}
	execTmpl, err := prompt.ParseExecutiveTemplate(prompt.DefaultExecutivePrompt)
	if err != nil {
		return videoJob{}, err
	}
	return videoJob{
		chunkTmpl: chunkTmpl,
		execTmpl:  execTmpl,
		docsDir:   p.cfg.Paths.DocsDir,
		filename: func(titleSlug, videoID string) string {
			return fmt.Sprintf("%s_%s.md", titleSlug, videoID)
		},
	}, nil
}

// ProcessVideo summarizes one video with the default prompts.
func (p *implPipeline) ProcessVideo(ctx context.Context, urlOrID string) (*VideoOutcome, error) {
	job, err := p.defaultJob()
	if err != nil {
		return nil, err
	}
	outcome, _, err := p.process(ctx, urlOrID, job)
	return outcome, err
}

// process runs the full chain for one video: resolve ID, fetch or load
// the transcript, chunk, summarize, write, log. A missing transcript is
// an outcome, not an error, so batch runs keep going.
func (p *implPipeline) process(ctx context.Context, urlOrID string, job videoJob) (*VideoOutcome, *summarize.Result, error) {
	startTime := time.Now()

	videoID, err := transcript.ExtractVideoID(urlOrID)
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{Title: urlOrID, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return nil, nil, err
	}

	p.logger.Info(ctx, "Processing video %s", videoID)

	tr, cached, err := p.cache.GetOrFetch(ctx, videoID, p.fetcher)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) {
			p.logger.Warn(ctx, "No transcript available for %s", videoID)
			p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Status: output.ActivityNoTranscript})
			return &VideoOutcome{VideoID: videoID, Status: output.ActivityNoTranscript}, nil, nil
		}
		p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return nil, nil, fmt.Errorf("fetch transcript %s: %w", videoID, err)
	}
	if cached {
		p.logger.Debug(ctx, "Transcript for %s served from cache", videoID)
	}

	title := tr.Title
	if title == "" {
		title = transcript.FetchTitle(ctx, p.titles, videoID)
	}

	chunks, err := chunker.Split(tr.Text(), p.cfg.Summary.ChunkSize)
	if err != nil {
		return nil, nil, fmt.Errorf("chunk transcript %s: %w", videoID, err)
	}
	if len(chunks) == 0 {
		p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Title: title, Status: output.ActivityNoTranscript})
		return &VideoOutcome{VideoID: videoID, Title: title, Status: output.ActivityNoTranscript}, nil, nil
	}

	result, err := p.engine.Summarize(ctx, videoID, chunks, job.chunkTmpl, job.execTmpl, p.cfg.Model())
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Title: title, Status: string(summarize.StatusFailed), Model: p.cfg.Model(), Detail: err.Error()})
		return nil, nil, fmt.Errorf("summarize %s: %w", videoID, err)
	}
	result.Title = title

	titleSlug := output.Slugify(title)
	fm := output.FrontMatter{
		VideoID:    videoID,
		URL:        transcript.WatchURL(videoID),
		Title:      title,
		Slug:       titleSlug,
		Saved:      output.FormatSaved(result.CreatedAt),
		Model:      result.Model,
		ChunkCount: result.ChunkCount,
		Tags:       output.DefaultTags,
	}
	doc, err := output.BuildMarkdown(fm, result)
	if err != nil {
		return nil, nil, err
	}

	written, err := p.writer.Write(job.docsDir, job.filename(titleSlug, videoID), doc, p.policy)
	if err != nil {
		p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Title: title, Status: string(summarize.StatusFailed), Detail: err.Error()})
		return nil, nil, fmt.Errorf("write summary %s: %w", videoID, err)
	}

	outcome := &VideoOutcome{
		VideoID: videoID,
		Title:   title,
		Path:    written.Path,
		Cached:  cached,
	}
	if written.Skipped {
		outcome.Status = output.ActivitySkipped
		p.logger.Info(ctx, "Skipped %s: summary already exists at %s", videoID, written.Path)
		p.recordActivity(ctx, output.ActivityEntry{VideoID: videoID, Title: title, Status: output.ActivitySkipped})
		return outcome, result, nil
	}

	outcome.Status = string(result.Status)
	p.recordActivity(ctx, output.ActivityEntry{
		VideoID:    videoID,
		Title:      title,
		Status:     string(result.Status),
		ChunkCount: result.ChunkCount,
		Model:      result.Model,
	})
	p.logger.Info(ctx, "Finished %s in %s: %s (%d chunks)", videoID, time.Since(startTime).Round(time.Millisecond), result.Status, result.ChunkCount)

	return outcome, result, nil
}

func (p *implPipeline) recordActivity(ctx context.Context, entry output.ActivityEntry) {
	if p.activity == nil {
		return
	}
	if err := p.activity.Record(entry); err != nil {
		p.logger.Warn(ctx, "Failed to record activity entry: %v", err)
	}
}
