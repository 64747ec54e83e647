package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/output"
)

// Manager loads and manages the plan files in a single directory. Each
// plan lives at <dir>/<id>.yaml.
type Manager struct {
	dir    string
	logger logger.Logger
}

func NewManager(dir string, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("plan: create plans dir: %w", err)
	}
	return &Manager{dir: dir, logger: log}, nil
}

// Dir returns the directory holding the plan files.
func (m *Manager) Dir() string {
	return m.dir
}

// List returns the IDs of all plans, sorted.
func (m *Manager) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("plan: list plans: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(match), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists reports whether a plan with the given ID is on disk.
func (m *Manager) Exists(id string) bool {
	_, err := os.Stat(m.path(id))
	return err == nil
}

// Load reads and validates a plan.
func (m *Manager) Load(id string) (*Plan, error) {
	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("plan: read %s: %w", id, err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, id, err)
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create writes a new plan file from the built-in template and returns
// its path. The ID is slugified before use.
func (m *Manager) Create(id, name, description string) (string, error) {
	safeID := output.Slugify(id)
	path := m.path(safeID)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, safeID)
	}

	if description == "" {
		description = "Research plan for focused content extraction"
	}
	data, err := yaml.Marshal(templatePlan(name, description))
	if err != nil {
		return "", fmt.Errorf("plan: encode template: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("plan: write %s: %w", path, err)
	}
	return path, nil
}

// Delete removes a plan file.
func (m *Manager) Delete(id string) error {
	err := os.Remove(m.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("plan: delete %s: %w", id, err)
	}
	return nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.dir, id+".yaml")
}

func templatePlan(name, description string) *Plan {
	return &Plan{
		Meta: Meta{Name: name, Description: description},
		Videos: Videos{
			URLs: []string{},
		},
		Prompts: Prompts{
			ChunkPrompt: "You are analyzing YouTube video transcripts for focused content extraction.\n" +
				"Extract and summarize only the relevant content from this transcript chunk:\n\n" +
				"{chunk}\n\n" +
				"Focus on the specific topics and information relevant to the research plan.",
			ExecutivePrompt: "Create a comprehensive summary by combining these extracted content sections:\n\n" +
				"{bullet_summaries}\n\n" +
				"Provide a clear, well-structured summary that captures the key information and themes.",
			CorpusChunkPrompt:     "You are analyzing a collection of research summaries from multiple videos.\nIdentify patterns, themes, and insights from this content:\n\n{chunk}\n\nFocus on connections and recurring themes across the research corpus.",
			CorpusExecutivePrompt: "Create a comprehensive analysis of the research corpus by synthesizing these insights:\n\n{bullet_summaries}\n\nOrganize findings by themes, highlight key patterns, and provide actionable insights.",
		},
		Output: Output{
			VideoSummariesDir:     "data/videos",
			CorpusDir:             "data/corpus",
			VideoFilenamePattern:  "{title}_{video_id}.md",
			CorpusFilename:        "{research_plan_name}.md",
			CorpusSummaryFilename: "{research_plan_name}_summary.md",
		},
	}
}
