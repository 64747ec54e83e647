package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
)

type implGemini struct {
	apiKeys    []string
	currentKey int
	mu         sync.Mutex
	logger     logger.Logger
}

// NewGemini creates a Client that rotates through the supplied Gemini API
// keys when one is rate limited.
func NewGemini(apiKeys []string, log logger.Logger) Client {
	return &implGemini{
		apiKeys: apiKeys,
		logger:  log,
	}
}

// Generate sends the prompt to Gemini. Rotates API keys on 429 / quota errors.
func (c *implGemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	if len(c.apiKeys) == 0 {
		return "", fmt.Errorf("%w: no API keys configured", ErrUnavailable)
	}

	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIndex := c.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				c.rotateKey()
				lastErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
				continue
			}
			if strings.Contains(errMsg, "NOT_FOUND") || strings.Contains(errMsg, "is not found") {
				return "", fmt.Errorf("%w: %s", ErrModelNotFound, model)
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if out := strings.TrimSpace(text.String()); out != "" {
				return out, nil
			}
		}

		return "", ErrEmptyResponse
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implGemini) activeKey() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey], c.currentKey
}

func (c *implGemini) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}
