package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	videoIDFromURLRe = regexp.MustCompile(`(?:watch\?v=|youtu\.be/|embed/)([\w\-]{11})`)
	bareVideoIDRe    = regexp.MustCompile(`^[a-zA-Z0-9_\-]{11}$`)
)

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL, or
// accepts a bare ID unchanged.
func ExtractVideoID(urlOrID string) (string, error) {
	cleaned := strings.TrimSpace(urlOrID)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidVideoID)
	}

	if match := videoIDFromURLRe.FindStringSubmatch(cleaned); match != nil {
		return match[1], nil
	}
	if bareVideoIDRe.MatchString(cleaned) {
		return cleaned, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidVideoID, urlOrID)
}

// WatchURL returns the canonical short URL for a video ID.
func WatchURL(videoID string) string {
	return "https://youtu.be/" + videoID
}
