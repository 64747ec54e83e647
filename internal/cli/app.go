package cli

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/config"
	"github.com/lancekrogers/yt-summarizer/internal/corpus"
	"github.com/lancekrogers/yt-summarizer/internal/llm"
	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/output"
	"github.com/lancekrogers/yt-summarizer/internal/pipeline"
	"github.com/lancekrogers/yt-summarizer/internal/plan"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
	"github.com/lancekrogers/yt-summarizer/internal/transcript"
	"github.com/lancekrogers/yt-summarizer/pkg/executor"
)

// app wires the configured components together for the CLI commands.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	cache    *transcript.Cache
	client   llm.Client
	pipe     pipeline.Pipeline
	activity *output.ActivityLog
	plans    *plan.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log := logger.New(level)

	cache, err := transcript.OpenCache(cfg.Paths.CacheDB, log)
	if err != nil {
		return nil, err
	}

	var client llm.Client
	if cfg.LLM.Provider == "gemini" {
		client = llm.NewGemini(cfg.LLM.Gemini.APIKeys, log)
	} else {
		client = llm.NewOllama(cfg.LLM.Ollama.URL, time.Duration(cfg.LLM.Ollama.TimeoutSeconds)*time.Second, log)
	}

	engine := summarize.NewEngine(client, log,
		summarize.WithMaxConcurrent(cfg.Performance.MaxConcurrentChunks),
		summarize.WithMaxAttempts(cfg.Summary.MaxAttempts),
	)

	fetchTimeout := time.Duration(cfg.YouTube.FetchTimeoutSeconds) * time.Second
	minDelay := time.Duration(cfg.YouTube.RateLimitDelaySeconds * float64(time.Second))
	fetcher := transcript.NewFetcher(executor.New(), log, minDelay, fetchTimeout)

	activity, err := output.NewActivityLog(filepath.Join(cfg.Paths.LogsDir, "activity.jsonl"))
	if err != nil {
		cache.Close()
		return nil, err
	}

	plans, err := plan.NewManager(cfg.Paths.PlansDir, log)
	if err != nil {
		cache.Close()
		return nil, err
	}

	pipe, err := pipeline.New(cfg, pipeline.Deps{
		Cache:       cache,
		Fetcher:     fetcher,
		Engine:      engine,
		Aggregator:  corpus.NewAggregator(engine, log, cfg.Summary.ChunkSize),
		Writer:      output.NewWriter(log),
		Activity:    activity,
		TitleClient: &http.Client{Timeout: fetchTimeout},
	}, log)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		client:   client,
		pipe:     pipe,
		activity: activity,
		plans:    plans,
	}, nil
}

func (a *app) Close() {
	a.cache.Close()
}

// checkModel verifies the configured model exists before a long run.
// Backends without a check (Gemini) are trusted.
func (a *app) checkModel(ctx context.Context) error {
	if checker, ok := a.client.(llm.ModelChecker); ok {
		return checker.CheckModel(ctx, a.cfg.Model())
	}
	return nil
}
