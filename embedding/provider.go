package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable means no embedding provider is configured. Callers switch to
	// lexical-only ranking.
	ErrUnavailable = errors.New("embedding provider unavailable")
	ErrEmbedding   = errors.New("failed to generate embedding")
)

// Provider turns texts into fixed-width vectors
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// Config selects and tunes a provider
type Config struct {
	Provider  string // "gemini" or "none"
	APIKey    string
	Model     string
	Interval  time.Duration
	BatchSize int
}

// DefaultConfig returns the Gemini defaults without credentials
func DefaultConfig() Config {
	return Config{
		Provider:  "none",
		Model:     "text-embedding-004",
		Interval:  750 * time.Millisecond,
		BatchSize: 64,
	}
}

// NewProvider builds the configured provider wrapped in a rate-limited batcher.
// It returns ErrUnavailable when embeddings are disabled or lack credentials.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case "", "none":
		return nil, ErrUnavailable
	case "gemini":
		if cfg.APIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, dense ranking disabled")
			return nil, ErrUnavailable
		}
		gemini, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return NewBatcher(gemini, cfg.BatchSize, cfg.Interval, logger), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
