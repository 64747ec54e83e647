package transcript

import "errors"

var (
	// ErrNoTranscript indicates the video has no public captions.
	// Terminal: the subject is skipped, never retried.
	ErrNoTranscript = errors.New("transcript: no transcript available")
	// ErrUnavailable indicates a transient fetch failure worth retrying later.
	ErrUnavailable = errors.New("transcript: source unavailable")
	// ErrInvalidVideoID indicates the input could not be parsed into a video ID.
	ErrInvalidVideoID = errors.New("transcript: invalid video URL or ID")
)
