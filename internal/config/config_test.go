package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "explicit ollama",
			config: Config{
				LLM: LLMConfig{
					Provider: "ollama",
					Ollama:   OllamaConfig{URL: "http://ollama:11434", Model: "mistral"},
				},
			},
			wantErr: false,
		},
		{
			name: "unknown provider",
			config: Config{
				LLM: LLMConfig{Provider: "openai"},
			},
			wantErr: true,
		},
		{
			name: "gemini without keys",
			config: Config{
				LLM: LLMConfig{Provider: "gemini"},
			},
			wantErr: true,
		},
		{
			name: "gemini with keys",
			config: Config{
				LLM: LLMConfig{
					Provider: "gemini",
					Gemini:   GeminiConfig{APIKeys: []string{"key-1"}},
				},
			},
			wantErr: false,
		},
		{
			name: "bad conflict policy",
			config: Config{
				Output: OutputConfig{ConflictPolicy: "rename"},
			},
			wantErr: true,
		},
		{
			name: "negative chunk size",
			config: Config{
				Summary: SummaryConfig{ChunkSize: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.config.LLM.Provider == "gemini" && len(tt.config.LLM.Gemini.APIKeys) == 0 {
				t.Setenv("GEMINI_API_KEY", "")
			}
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Ollama.URL != "http://localhost:11434" {
		t.Errorf("Ollama.URL = %q", cfg.LLM.Ollama.URL)
	}
	if cfg.LLM.Ollama.TimeoutSeconds != 300 {
		t.Errorf("Ollama.TimeoutSeconds = %d", cfg.LLM.Ollama.TimeoutSeconds)
	}
	if cfg.Summary.ChunkSize != 2048 {
		t.Errorf("ChunkSize = %d", cfg.Summary.ChunkSize)
	}
	if cfg.Summary.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", cfg.Summary.MaxAttempts)
	}
	if cfg.Output.ConflictPolicy != "version" {
		t.Errorf("ConflictPolicy = %q", cfg.Output.ConflictPolicy)
	}
	if cfg.Performance.MaxConcurrentChunks != 2 || cfg.Performance.MaxConcurrentVideos != 2 {
		t.Errorf("Performance = %+v", cfg.Performance)
	}
	if cfg.YouTube.RateLimitDelaySeconds != 2.0 {
		t.Errorf("RateLimitDelaySeconds = %v", cfg.YouTube.RateLimitDelaySeconds)
	}
	if cfg.Model() != "llama3.1:8b" {
		t.Errorf("Model() = %q", cfg.Model())
	}
}

func TestGeminiKeyFromEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg := Config{LLM: LLMConfig{Provider: "gemini"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.LLM.Gemini.APIKeys) != 1 || cfg.LLM.Gemini.APIKeys[0] != "env-key" {
		t.Errorf("APIKeys = %v", cfg.LLM.Gemini.APIKeys)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `llm:
  provider: ollama
  ollama:
    model: mistral
summary:
  chunk_size: 1024
paths:
  docs_dir: out/docs
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Ollama.Model != "mistral" {
		t.Errorf("Model = %q", cfg.LLM.Ollama.Model)
	}
	if cfg.Summary.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d", cfg.Summary.ChunkSize)
	}
	if cfg.Paths.DocsDir != "out/docs" {
		t.Errorf("DocsDir = %q", cfg.Paths.DocsDir)
	}
	// Untouched settings still get defaults.
	if cfg.Paths.CacheDB != "data/transcripts.db" {
		t.Errorf("CacheDB = %q", cfg.Paths.CacheDB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted invalid YAML")
	}
}
