package llm

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrModelNotFound indicates the requested model tag is unknown to the
	// backend. Retrying cannot fix this.
	ErrModelNotFound = errors.New("llm: model not found")
	// ErrUnavailable indicates a transient connection or timeout failure.
	ErrUnavailable = errors.New("llm: backend unavailable")
	// ErrEmptyResponse indicates the backend returned no generated text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// IsTransient reports whether err is worth retrying with backoff.
// Model-not-found and malformed requests are terminal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrModelNotFound) || errors.Is(err, ErrEmptyResponse) {
		return false
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
