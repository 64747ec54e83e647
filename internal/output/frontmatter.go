package output

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML metadata block at the top of every saved
// summary document. VideoID is set for per-video artifacts, PlanID for
// corpus artifacts.
type FrontMatter struct {
	VideoID    string   `yaml:"video_id,omitempty"`
	PlanID     string   `yaml:"plan_id,omitempty"`
	URL        string   `yaml:"url,omitempty"`
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Saved      string   `yaml:"saved"`
	Model      string   `yaml:"model"`
	ChunkCount int      `yaml:"chunk_count"`
	Tags       []string `yaml:"tags,omitempty"`
}

// DefaultTags mark every document produced by this tool.
var DefaultTags = []string{"youtube", "transcript"}

// FormatSaved renders timestamps the way the front matter expects them.
func FormatSaved(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Render produces the document prefix: the metadata between YAML fences
// followed by a blank line.
func (fm FrontMatter) Render() ([]byte, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("output: encode front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	return buf.Bytes(), nil
}
