package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// The substitution placeholders a template may reference. Anything else is
// rejected when the template is parsed so a malformed research plan fails
// at load time, not in the middle of a run.
const (
	PlaceholderChunk           = "{chunk}"
	PlaceholderBulletSummaries = "{bullet_summaries}"
)

var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

// Template is a plain-string prompt with exactly one known placeholder.
type Template struct {
	text        string
	placeholder string
}

// ParseChunkTemplate validates a chunk-level prompt. It must contain
// {chunk} and no unknown placeholders.
func ParseChunkTemplate(text string) (Template, error) {
	return parse(text, PlaceholderChunk)
}

// ParseExecutiveTemplate validates an aggregation prompt. It must contain
// {bullet_summaries} and no unknown placeholders.
func ParseExecutiveTemplate(text string) (Template, error) {
	return parse(text, PlaceholderBulletSummaries)
}

func parse(text, placeholder string) (Template, error) {
	if strings.TrimSpace(text) == "" {
		return Template{}, fmt.Errorf("prompt: template is empty")
	}
	if !strings.Contains(text, placeholder) {
		return Template{}, fmt.Errorf("prompt: template missing %s placeholder", placeholder)
	}
	for _, ref := range placeholderRe.FindAllString(text, -1) {
		if ref != placeholder {
			return Template{}, fmt.Errorf("prompt: template references unknown placeholder %s", ref)
		}
	}
	return Template{text: text, placeholder: placeholder}, nil
}

// Render substitutes value at the template's placeholder.
func (t Template) Render(value string) string {
	return strings.ReplaceAll(t.text, t.placeholder, value)
}

// Text returns the raw template text.
func (t Template) Text() string {
	return t.text
}
