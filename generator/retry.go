package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
)

// Retrying retries transient backend failures with exponential backoff.
// Unavailability markers and context errors are never retried.
type Retrying struct {
	inner          Backend
	maxRetries     int
	initialBackoff time.Duration
	logger         *zap.Logger
}

// NewRetrying wraps inner
func NewRetrying(inner Backend, maxRetries int, initialBackoff time.Duration, logger *zap.Logger) *Retrying {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{inner: inner, maxRetries: maxRetries, initialBackoff: initialBackoff, logger: logger}
}

// Generate calls the wrapped backend until it succeeds or attempts run out
func (r *Retrying) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var lastErr error
	backoff := r.initialBackoff
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := r.inner.Generate(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			return "", err
		}
		r.logger.Warn("generation attempt failed",
			zap.String("backend", r.inner.Name()), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", fmt.Errorf("failed to generate content after %d attempts: %w", r.maxRetries, lastErr)
}

// GenerateStream streams from the wrapped backend when it supports streaming,
// otherwise it emits the full completion as one chunk. Streams are not retried.
func (r *Retrying) GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error {
	if s, ok := r.inner.(Streamer); ok {
		return s.GenerateStream(ctx, prompt, maxTokens, onChunk)
	}
	text, err := r.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return err
	}
	return onChunk(text)
}

// Name reports the wrapped backend's name
func (r *Retrying) Name() string {
	return r.inner.Name()
}

// Close closes the wrapped backend when it holds a client
func (r *Retrying) Close() error {
	if c, ok := r.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
