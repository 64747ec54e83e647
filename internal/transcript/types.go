package transcript

import (
	"strings"
	"time"
)

// Cue is a single timed caption segment as returned by the source adapter.
type Cue struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Transcript holds the fetched captions for one video. Immutable once
// fetched; the cache owns stored copies.
type Transcript struct {
	VideoID   string
	Title     string
	FetchedAt time.Time
	Cues      []Cue
}

// Text renders the cues as plain text, one cue per line.
func (t *Transcript) Text() string {
	lines := make([]string, 0, len(t.Cues))
	for _, cue := range t.Cues {
		lines = append(lines, cue.Text)
	}
	return strings.Join(lines, "\n")
}
