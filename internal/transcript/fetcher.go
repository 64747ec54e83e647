package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/pkg/executor"
)

// preferred caption languages, manual tracks before auto-generated ones
var captionLanguages = []string{"en", "en-US", "en-GB"}

type implFetcher struct {
	exec    executor.Executor
	client  *http.Client
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewFetcher creates a Fetcher that resolves caption tracks through yt-dlp
// and downloads them over HTTP. minDelay is the fixed inter-request delay
// enforced between consecutive fetches.
func NewFetcher(exec executor.Executor, log logger.Logger, minDelay time.Duration, timeout time.Duration) Fetcher {
	interval := rate.Inf
	if minDelay > 0 {
		interval = rate.Every(minDelay)
	}
	return &implFetcher{
		exec:    exec,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(interval, 1),
		logger:  log,
	}
}

// videoMetadata is the subset of yt-dlp's --dump-single-json output we need.
type videoMetadata struct {
	Title             string                    `json:"title"`
	Subtitles         map[string][]captionTrack `json:"subtitles"`
	AutomaticCaptions map[string][]captionTrack `json:"automatic_captions"`
}

type captionTrack struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// Fetch downloads the caption track for videoID and converts it to cues.
func (f *implFetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	f.logger.Info(ctx, "Fetching transcript for video %s", videoID)

	out, err := f.exec.Execute(ctx, "yt-dlp",
		"--skip-download",
		"--no-warnings",
		"--dump-single-json",
		WatchURL(videoID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "Video unavailable") || strings.Contains(err.Error(), "Private video") {
			return nil, fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
		}
		return nil, fmt.Errorf("%w: yt-dlp: %v", ErrUnavailable, err)
	}

	var meta videoMetadata
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		return nil, fmt.Errorf("%w: parse metadata: %v", ErrUnavailable, err)
	}

	track := pickTrack(meta.Subtitles)
	if track == nil {
		track = pickTrack(meta.AutomaticCaptions)
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}

	cues, err := f.downloadCues(ctx, track.URL)
	if err != nil {
		return nil, err
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}

	title := meta.Title
	if title == "" {
		title = videoID
	}

	return &Transcript{
		VideoID:   videoID,
		Title:     title,
		FetchedAt: time.Now().UTC(),
		Cues:      cues,
	}, nil
}

// pickTrack selects the first preferred-language json3 track.
func pickTrack(tracks map[string][]captionTrack) *captionTrack {
	for _, lang := range captionLanguages {
		for _, t := range tracks[lang] {
			if t.Ext == "json3" && t.URL != "" {
				return &t
			}
		}
	}
	return nil
}

// json3 caption payload as served by YouTube's timedtext endpoint.
type json3Payload struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segments   []struct {
			Text string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (f *implFetcher) downloadCues(ctx context.Context, trackURL string) ([]Cue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build caption request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download captions: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: caption download returned %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read captions: %v", ErrUnavailable, err)
	}

	var payload json3Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: parse captions: %v", ErrUnavailable, err)
	}

	var cues []Cue
	for _, event := range payload.Events {
		var text strings.Builder
		for _, seg := range event.Segments {
			text.WriteString(seg.Text)
		}
		line := strings.TrimSpace(strings.ReplaceAll(text.String(), "\n", " "))
		if line == "" {
			continue
		}
		cues = append(cues, Cue{
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
			Text:     line,
		})
	}
	return cues, nil
}
