package prompt

import (
	"strings"
	"testing"
)

func TestParseChunkTemplate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", "Summarize this:\n\n{chunk}\n", false},
		{"missing placeholder", "Summarize this transcript.", true},
		{"empty", "   ", true},
		{"unknown placeholder", "Summarize {chunk} for {audience}", true},
		{"executive placeholder in chunk template", "Combine {bullet_summaries}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChunkTemplate(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseChunkTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseExecutiveTemplate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", "Combine:\n\n{bullet_summaries}", false},
		{"missing placeholder", "Combine the sections.", true},
		{"unknown placeholder", "Combine {bullet_summaries} as {format}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExecutiveTemplate(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseExecutiveTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tmpl, err := ParseChunkTemplate("before {chunk} after")
	if err != nil {
		t.Fatal(err)
	}
	got := tmpl.Render("CONTENT")
	if got != "before CONTENT after" {
		t.Errorf("Render() = %q", got)
	}
}

func TestDefaultsParse(t *testing.T) {
	if _, err := ParseChunkTemplate(DefaultChunkPrompt); err != nil {
		t.Errorf("DefaultChunkPrompt: %v", err)
	}
	if _, err := ParseExecutiveTemplate(DefaultExecutivePrompt); err != nil {
		t.Errorf("DefaultExecutivePrompt: %v", err)
	}
	if _, err := ParseChunkTemplate(DefaultCorpusChunkPrompt); err != nil {
		t.Errorf("DefaultCorpusChunkPrompt: %v", err)
	}
	if _, err := ParseExecutiveTemplate(DefaultCorpusExecutivePrompt); err != nil {
		t.Errorf("DefaultCorpusExecutivePrompt: %v", err)
	}
	if !strings.Contains(DefaultChunkPrompt, PlaceholderChunk) {
		t.Error("DefaultChunkPrompt missing {chunk}")
	}
}
