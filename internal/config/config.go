package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Summary     SummaryConfig     `yaml:"summary"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type LLMConfig struct {
	Provider string       `yaml:"provider"`
	Ollama   OllamaConfig `yaml:"ollama"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

type OllamaConfig struct {
	URL            string `yaml:"url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type SummaryConfig struct {
	ChunkSize   int `yaml:"chunk_size"`
	MaxAttempts int `yaml:"max_attempts"`
}

type PathsConfig struct {
	CacheDB  string `yaml:"cache_db"`
	DocsDir  string `yaml:"docs_dir"`
	LogsDir  string `yaml:"logs_dir"`
	PlansDir string `yaml:"plans_dir"`
}

type OutputConfig struct {
	ConflictPolicy string `yaml:"conflict_policy"`
}

type YouTubeConfig struct {
	RateLimitDelaySeconds float64 `yaml:"rate_limit_delay_seconds"`
	FetchTimeoutSeconds   int     `yaml:"fetch_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrentChunks int `yaml:"max_concurrent_chunks"`
	MaxConcurrentVideos int `yaml:"max_concurrent_videos"`
}

// Load reads a YAML config file and applies defaults. A missing file is
// not an error: every setting has a usable default.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	switch c.LLM.Provider {
	case "ollama", "gemini":
	default:
		return fmt.Errorf("llm.provider must be ollama or gemini, got %q", c.LLM.Provider)
	}

	if c.LLM.Provider == "gemini" && len(c.LLM.Gemini.APIKeys) == 0 {
		if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
			c.LLM.Gemini.APIKeys = []string{key}
		} else {
			return fmt.Errorf("llm.gemini.api_keys is required for the gemini provider")
		}
	}

	if c.LLM.Ollama.URL == "" {
		c.LLM.Ollama.URL = "http://localhost:11434"
	}
	if c.LLM.Ollama.Model == "" {
		c.LLM.Ollama.Model = "llama3.1:8b"
	}
	if c.LLM.Ollama.TimeoutSeconds == 0 {
		c.LLM.Ollama.TimeoutSeconds = 300
	}
	if c.LLM.Gemini.Model == "" {
		c.LLM.Gemini.Model = "gemini-2.5-flash"
	}

	if c.Summary.ChunkSize == 0 {
		c.Summary.ChunkSize = 2048
	}
	if c.Summary.ChunkSize < 0 {
		return fmt.Errorf("summary.chunk_size must be positive")
	}
	if c.Summary.MaxAttempts == 0 {
		c.Summary.MaxAttempts = 3
	}

	if c.Paths.CacheDB == "" {
		c.Paths.CacheDB = "data/transcripts.db"
	}
	if c.Paths.DocsDir == "" {
		c.Paths.DocsDir = "data/docs"
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "data/logs"
	}
	if c.Paths.PlansDir == "" {
		c.Paths.PlansDir = "research_plans"
	}

	if c.Output.ConflictPolicy == "" {
		c.Output.ConflictPolicy = "version"
	}
	switch c.Output.ConflictPolicy {
	case "overwrite", "skip", "version":
	default:
		return fmt.Errorf("output.conflict_policy must be overwrite, skip, or version, got %q", c.Output.ConflictPolicy)
	}

	if c.YouTube.RateLimitDelaySeconds == 0 {
		c.YouTube.RateLimitDelaySeconds = 2.0
	}
	if c.YouTube.FetchTimeoutSeconds == 0 {
		c.YouTube.FetchTimeoutSeconds = 30
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrentChunks == 0 {
		c.Performance.MaxConcurrentChunks = 2
	}
	if c.Performance.MaxConcurrentVideos == 0 {
		c.Performance.MaxConcurrentVideos = 2
	}

	return nil
}

// Model returns the model name for the active provider.
func (c *Config) Model() string {
	if c.LLM.Provider == "gemini" {
		return c.LLM.Gemini.Model
	}
	return c.LLM.Ollama.Model
}
