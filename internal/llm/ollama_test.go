package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"response": "  a summary  "}`))
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, 5*time.Second, logger.Nop())
	got, err := client.Generate(context.Background(), "llama3.2:latest", "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "a summary" {
		t.Errorf("Generate() = %q, want trimmed summary", got)
	}
}

func TestGenerateModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "model 'nope' not found"}`))
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, 5*time.Second, logger.Nop())
	_, err := client.Generate(context.Background(), "nope", "prompt")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Generate() error = %v, want ErrModelNotFound", err)
	}
	if IsTransient(err) {
		t.Error("model-not-found must not be transient")
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, 5*time.Second, logger.Nop())
	_, err := client.Generate(context.Background(), "llama3.2:latest", "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Generate() error = %v, want ErrUnavailable", err)
	}
	if !IsTransient(err) {
		t.Error("5xx failures should be transient")
	}
}

func TestGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewOllama(srv.URL, time.Second, logger.Nop())
	_, err := client.Generate(context.Background(), "llama3.2:latest", "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Generate() error = %v, want ErrUnavailable", err)
	}
	if !IsTransient(err) {
		t.Error("connection failures should be transient")
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "   "}`))
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, 5*time.Second, logger.Nop())
	_, err := client.Generate(context.Background(), "llama3.2:latest", "prompt")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Generate() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCheckModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models": [{"name": "llama3.2:latest"}, {"name": "mistral:7b"}]}`))
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, 5*time.Second, logger.Nop()).(*implOllama)

	if err := client.CheckModel(context.Background(), "llama3.2:latest"); err != nil {
		t.Errorf("CheckModel() error = %v", err)
	}
	err := client.CheckModel(context.Background(), "absent:model")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("CheckModel() error = %v, want ErrModelNotFound", err)
	}
}
