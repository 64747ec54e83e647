package output

import (
	"bytes"
	"fmt"

	"github.com/lancekrogers/yt-summarizer/internal/summarize"
)

// BuildSummaryBody renders the document body: executive summary first,
// then the ordered part summaries.
func BuildSummaryBody(result *summarize.Result) string {
	var buf bytes.Buffer
	buf.WriteString("## Executive Summary\n\n")
	buf.WriteString(result.ExecutiveSummary)
	buf.WriteString("\n\n## Part Summaries\n")
	for _, s := range result.ChunkSummaries {
		fmt.Fprintf(&buf, "\n### Part %d\n\n%s\n", s.ChunkIndex+1, s.Text)
	}
	return buf.String()
}

// BuildMarkdown assembles the full summary document: front matter
// followed directly by the summary body.
func BuildMarkdown(fm FrontMatter, result *summarize.Result) ([]byte, error) {
	head, err := fm.Render()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(head)
	buf.WriteString(BuildSummaryBody(result))
	return buf.Bytes(), nil
}

// BuildCorpusMarkdown assembles the combined corpus document: front
// matter, a title heading, then the concatenated per-video summary
// sections. The corpus document keeps its heading; per-video summary
// documents do not carry one.
func BuildCorpusMarkdown(fm FrontMatter, corpusText string) ([]byte, error) {
	head, err := fm.Render()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(head)
	fmt.Fprintf(&buf, "# %s\n\n", fm.Title)
	buf.WriteString(corpusText)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
