package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// FetchTitle looks a video title up via YouTube's oembed API. Falls back
// to the video ID when the lookup fails, so title resolution never blocks
// processing.
func FetchTitle(ctx context.Context, client *http.Client, videoID string) string {
	url := fmt.Sprintf("https://www.youtube.com/oembed?url=%s&format=json", WatchURL(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return videoID
	}
	resp, err := client.Do(req)
	if err != nil {
		return videoID
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return videoID
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Title == "" {
		return videoID
	}
	return payload.Title
}
