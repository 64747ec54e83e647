package pipeline

import (
	"net/http"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/config"
	"github.com/lancekrogers/yt-summarizer/internal/corpus"
	"github.com/lancekrogers/yt-summarizer/internal/logger"
	"github.com/lancekrogers/yt-summarizer/internal/output"
	"github.com/lancekrogers/yt-summarizer/internal/summarize"
	"github.com/lancekrogers/yt-summarizer/internal/transcript"
)

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Cache       *transcript.Cache
	Fetcher     transcript.Fetcher
	Engine      *summarize.Engine
	Aggregator  *corpus.Aggregator
	Writer      *output.Writer
	Activity    *output.ActivityLog
	TitleClient *http.Client
}

type implPipeline struct {
	cfg      *config.Config
	cache    *transcript.Cache
	fetcher  transcript.Fetcher
	engine   *summarize.Engine
	agg      *corpus.Aggregator
	writer   *output.Writer
	activity *output.ActivityLog
	titles   *http.Client
	policy   output.Policy
	logger   logger.Logger
}

// New creates a new Pipeline instance
func New(cfg *config.Config, deps Deps, log logger.Logger) (Pipeline, error) {
	policy, err := output.ParsePolicy(cfg.Output.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	titles := deps.TitleClient
	if titles == nil {
		titles = &http.Client{Timeout: time.Duration(cfg.YouTube.FetchTimeoutSeconds) * time.Second}
	}

	return &implPipeline{
		cfg:      cfg,
		cache:    deps.Cache,
		fetcher:  deps.Fetcher,
		engine:   deps.Engine,
		agg:      deps.Aggregator,
		writer:   deps.Writer,
		activity: deps.Activity,
		titles:   titles,
		policy:   policy,
		logger:   log,
	}, nil
}
