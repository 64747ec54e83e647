package transcript

import "context"

// Fetcher defines the interface for the external transcript source adapter.
// Implementations fail with ErrNoTranscript or ErrUnavailable.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// FetchFunc adapts a plain function to the Fetcher interface.
type FetchFunc func(ctx context.Context, videoID string) (*Transcript, error)

func (f FetchFunc) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	return f(ctx, videoID)
}
