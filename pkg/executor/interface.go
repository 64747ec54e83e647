package executor

import "context"

// Executor runs external commands, capturing stdout. The transcript
// fetcher shells out to yt-dlp through this seam so tests can substitute
// a fake.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
