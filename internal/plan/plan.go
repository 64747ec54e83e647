package plan

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lancekrogers/yt-summarizer/internal/prompt"
)

var (
	// ErrNotFound indicates the requested plan file does not exist.
	ErrNotFound = errors.New("plan: not found")
	// ErrExists indicates a plan with the same ID already exists.
	ErrExists = errors.New("plan: already exists")
	// ErrInvalid indicates the plan failed validation.
	ErrInvalid = errors.New("plan: invalid configuration")
)

// Plan is a research plan: a named set of videos, the four prompts that
// drive their summarization, and where the artifacts land.
type Plan struct {
	ID      string  `yaml:"-"`
	Meta    Meta    `yaml:"research_plan"`
	Videos  Videos  `yaml:"videos"`
	Prompts Prompts `yaml:"prompts"`
	Output  Output  `yaml:"output"`
}

type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Videos declares the inputs: inline URLs, a list file, or both.
type Videos struct {
	URLs     []string `yaml:"urls"`
	ListFile string   `yaml:"list_file"`
}

type Prompts struct {
	ChunkPrompt           string `yaml:"chunk_prompt"`
	ExecutivePrompt       string `yaml:"executive_prompt"`
	CorpusChunkPrompt     string `yaml:"corpus_chunk_prompt"`
	CorpusExecutivePrompt string `yaml:"corpus_executive_prompt"`
}

type Output struct {
	VideoSummariesDir     string `yaml:"video_summaries_dir"`
	CorpusDir             string `yaml:"corpus_dir"`
	VideoFilenamePattern  string `yaml:"video_filename_pattern"`
	CorpusFilename        string `yaml:"corpus_filename"`
	CorpusSummaryFilename string `yaml:"corpus_summary_filename"`
}

// Templates holds the four parsed prompt templates of a plan.
type Templates struct {
	Chunk           prompt.Template
	Executive       prompt.Template
	CorpusChunk     prompt.Template
	CorpusExecutive prompt.Template
}

// Validate applies output defaults and checks the plan is runnable.
// Prompt templates are parsed here so placeholder mistakes surface at
// load time, not mid-run.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing plan ID", ErrInvalid)
	}
	if strings.TrimSpace(p.Meta.Name) == "" {
		return fmt.Errorf("%w: research_plan.name is required", ErrInvalid)
	}
	if len(p.Videos.URLs) == 0 && strings.TrimSpace(p.Videos.ListFile) == "" {
		return fmt.Errorf("%w: must declare videos.urls or videos.list_file", ErrInvalid)
	}

	if p.Output.VideoSummariesDir == "" {
		p.Output.VideoSummariesDir = "data/videos"
	}
	if p.Output.CorpusDir == "" {
		p.Output.CorpusDir = "data/corpus"
	}
	if p.Output.VideoFilenamePattern == "" {
		p.Output.VideoFilenamePattern = "{title}_{video_id}.md"
	}
	if p.Output.CorpusFilename == "" {
		p.Output.CorpusFilename = "{research_plan_name}.md"
	}
	if p.Output.CorpusSummaryFilename == "" {
		p.Output.CorpusSummaryFilename = "{research_plan_name}_summary.md"
	}

	if _, err := p.Templates(); err != nil {
		return err
	}
	return nil
}

// Templates parses the plan's four prompts.
func (p *Plan) Templates() (Templates, error) {
	var t Templates
	var err error
	if t.Chunk, err = prompt.ParseChunkTemplate(p.Prompts.ChunkPrompt); err != nil {
		return Templates{}, fmt.Errorf("%w: chunk_prompt: %v", ErrInvalid, err)
	}
	if t.Executive, err = prompt.ParseExecutiveTemplate(p.Prompts.ExecutivePrompt); err != nil {
		return Templates{}, fmt.Errorf("%w: executive_prompt: %v", ErrInvalid, err)
	}
	if t.CorpusChunk, err = prompt.ParseChunkTemplate(p.Prompts.CorpusChunkPrompt); err != nil {
		return Templates{}, fmt.Errorf("%w: corpus_chunk_prompt: %v", ErrInvalid, err)
	}
	if t.CorpusExecutive, err = prompt.ParseExecutiveTemplate(p.Prompts.CorpusExecutivePrompt); err != nil {
		return Templates{}, fmt.Errorf("%w: corpus_executive_prompt: %v", ErrInvalid, err)
	}
	return t, nil
}

// VideoFilename resolves the per-video filename pattern.
func (p *Plan) VideoFilename(titleSlug, videoID string) string {
	name := strings.ReplaceAll(p.Output.VideoFilenamePattern, "{title}", titleSlug)
	return strings.ReplaceAll(name, "{video_id}", videoID)
}

// CorpusFilename resolves the combined corpus filename.
func (p *Plan) CorpusFilename() string {
	return strings.ReplaceAll(p.Output.CorpusFilename, "{research_plan_name}", p.ID)
}

// CorpusSummaryFilename resolves the corpus summary filename.
func (p *Plan) CorpusSummaryFilename() string {
	return strings.ReplaceAll(p.Output.CorpusSummaryFilename, "{research_plan_name}", p.ID)
}

// VideoList merges inline URLs with the list file, preserving declared
// order and dropping duplicates, blank lines, and "#" comments. A
// relative list file is resolved against baseDir first, then the
// working directory.
func (p *Plan) VideoList(baseDir string) ([]string, error) {
	var videos []string
	for _, url := range p.Videos.URLs {
		videos = append(videos, url)
	}

	if listFile := strings.TrimSpace(p.Videos.ListFile); listFile != "" {
		fromFile, err := readVideoList(resolveListFile(baseDir, listFile))
		if err != nil {
			return nil, fmt.Errorf("plan %s: read video list %s: %w", p.ID, listFile, err)
		}
		videos = append(videos, fromFile...)
	}

	seen := make(map[string]bool, len(videos))
	unique := videos[:0]
	for _, v := range videos {
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "#") || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique, nil
}

func resolveListFile(baseDir, listFile string) string {
	if filepath.IsAbs(listFile) {
		return listFile
	}
	candidate := filepath.Join(baseDir, listFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return listFile
}

func readVideoList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
