package output

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/summarize"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Go: Concurrency Patterns (2024)!", "go-concurrency-patterns-2024"},
		{"collapses runs", "a -- b   c", "a-b-c"},
		{"empty", "", "untitled"},
		{"only symbols", "!!! ???", "untitled"},
		{"long title capped", strings.Repeat("word ", 30), "word-word-word-word-word-word-word-word-word-word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > maxSlugLen {
				t.Errorf("slug exceeds %d chars: %q", maxSlugLen, got)
			}
		})
	}
}

func TestBuildMarkdown(t *testing.T) {
	saved := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fm := FrontMatter{
		VideoID:    "dQw4w9WgXcQ",
		URL:        "https://youtu.be/dQw4w9WgXcQ",
		Title:      "Test Video",
		Slug:       "test-video",
		Saved:      FormatSaved(saved),
		Model:      "llama3",
		ChunkCount: 2,
		Tags:       DefaultTags,
	}
	result := &summarize.Result{
		ExecutiveSummary: "The big picture.",
		ChunkSummaries: []summarize.ChunkSummary{
			{ChunkIndex: 0, Text: "First part."},
			{ChunkIndex: 1, Text: "Second part."},
		},
	}

	doc, err := BuildMarkdown(fm, result)
	if err != nil {
		t.Fatalf("BuildMarkdown() error = %v", err)
	}
	text := string(doc)

	if !strings.HasPrefix(text, "---\n") {
		t.Error("document does not start with a YAML fence")
	}
	for _, want := range []string{
		"video_id: dQw4w9WgXcQ",
		"saved: \"2026-08-30T12:00:00Z\"",
		"chunk_count: 2",
		"## Executive Summary",
		"The big picture.",
		"### Part 1",
		"First part.",
		"### Part 2",
		"Second part.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "plan_id") {
		t.Error("empty plan_id was serialized")
	}
	if strings.Contains(text, "status:") {
		t.Error("front matter carries a status field")
	}

	// The body starts with the executive section directly after the
	// closing fence, with no title heading in between.
	_, body, found := strings.Cut(text, "\n---\n\n")
	if !found {
		t.Fatalf("missing closing fence:\n%s", text)
	}
	if !strings.HasPrefix(body, "## Executive Summary") {
		t.Errorf("body does not open with the executive section:\n%s", body)
	}

	// Part order matches chunk order.
	if strings.Index(text, "First part.") > strings.Index(text, "Second part.") {
		t.Error("part summaries out of order")
	}
}

func TestBuildCorpusMarkdown(t *testing.T) {
	fm := FrontMatter{
		PlanID: "my-plan",
		Title:  "My Plan",
		Slug:   "my-plan",
		Saved:  FormatSaved(time.Now()),
		Model:  "llama3",
	}
	doc, err := BuildCorpusMarkdown(fm, "## Video Summary: A\n\nbody")
	if err != nil {
		t.Fatal(err)
	}
	text := string(doc)
	if !strings.Contains(text, "plan_id: my-plan") {
		t.Errorf("missing plan_id:\n%s", text)
	}
	if !strings.Contains(text, "## Video Summary: A") {
		t.Errorf("missing corpus body:\n%s", text)
	}
}

func TestActivityLog(t *testing.T) {
	log, err := NewActivityLog(filepath.Join(t.TempDir(), "logs", "activity.jsonl"))
	if err != nil {
		t.Fatalf("NewActivityLog() error = %v", err)
	}

	entries := []ActivityEntry{
		{VideoID: "aaa", Status: string(summarize.StatusSuccess), ChunkCount: 3, Model: "llama3"},
		{VideoID: "bbb", Status: ActivityNoTranscript},
		{VideoID: "ccc", Status: ActivitySkipped},
	}
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Tail() returned %d entries, want 3", len(got))
	}
	for i, e := range got {
		if e.VideoID != entries[i].VideoID || e.Status != entries[i].Status {
			t.Errorf("entry %d = %+v", i, e)
		}
		if e.Timestamp == 0 {
			t.Errorf("entry %d missing timestamp", i)
		}
	}

	// Tail bounds to the most recent entries.
	last, err := log.Tail(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 || last[0].VideoID != "ccc" {
		t.Errorf("Tail(1) = %+v", last)
	}
}

func TestActivityLogMissingFile(t *testing.T) {
	log, err := NewActivityLog(filepath.Join(t.TempDir(), "activity.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := log.Tail(5)
	if err != nil {
		t.Fatalf("Tail() on missing file error = %v", err)
	}
	if got != nil {
		t.Errorf("Tail() = %+v, want nil", got)
	}
}
