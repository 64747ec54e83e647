package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDocuments reads previously written summary documents from dir,
// sorted by filename. Front matter is stripped so only the summary body
// contributes to the corpus; the filename stem identifies each section.
func LoadDocuments(dir string) ([]Document, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("corpus: scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	var docs []Document
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("corpus: read %s: %w", path, err)
		}
		body := stripFrontMatter(string(data))
		if strings.TrimSpace(body) == "" {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".md")
		docs = append(docs, Document{SubjectID: stem, Body: body})
	}
	return docs, nil
}

func stripFrontMatter(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}
