package llm

import "context"

// Client defines the interface for language model generation
type Client interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ModelChecker is implemented by backends that can verify a model is
// available before a run starts.
type ModelChecker interface {
	CheckModel(ctx context.Context, model string) error
}
