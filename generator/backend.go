package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable means the backend is not configured or reported itself down
	ErrUnavailable = errors.New("generative backend unavailable")
	// ErrTimeout means the backend did not answer before the generation deadline
	ErrTimeout = errors.New("generative backend timed out")
	// ErrEmptyResponse means the backend answered with no text
	ErrEmptyResponse = errors.New("generative backend returned empty content")
)

// Sentinel markers some backends emit in place of an error
var unavailableMarkers = []string{"FALLBACK RESPONSE", "LLM NOT WORKING"}

// Backend produces a text completion for a prompt
type Backend interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Name() string
}

// Streamer is implemented by backends that can emit partial text as it is produced
type Streamer interface {
	GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error
}

// SignalsUnavailable reports whether text is a backend's "I am down" marker
func SignalsUnavailable(text string) bool {
	for _, marker := range unavailableMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Config selects and tunes a backend
type Config struct {
	Provider     string // "gemini", "openai" or "none"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIURL    string
	OpenAIModel  string
}

// NewBackend builds the configured backend wrapped with retries. It returns
// ErrUnavailable when generation is disabled; callers then always use templates.
func NewBackend(ctx context.Context, cfg Config, logger *zap.Logger) (Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var backend Backend
	switch cfg.Provider {
	case "", "none":
		return nil, ErrUnavailable
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, reports will use templates")
			return nil, ErrUnavailable
		}
		gemini, err := NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		backend = gemini
	case "openai", "ollama":
		backend = NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIURL, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}

	logger.Info("generative backend configured", zap.String("backend", backend.Name()))
	return NewRetrying(backend, DefaultMaxRetries, DefaultInitialBackoff, logger), nil
}
