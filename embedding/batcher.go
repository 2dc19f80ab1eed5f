package embedding

import (
	"context"
	"fmt"
	"io"
	"time"

	"lexresearch-backend/index"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Batcher splits large requests into provider-sized batches, paces them with a
// rate limiter and L2-normalizes every returned vector
type Batcher struct {
	inner     Provider
	batchSize int
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewBatcher wraps inner. An interval of zero disables pacing.
func NewBatcher(inner Provider, batchSize int, interval time.Duration, logger *zap.Logger) *Batcher {
	if batchSize <= 0 {
		batchSize = 64
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batcher{
		inner:     inner,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// EmbedBatch embeds texts in order
func (b *Batcher) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limiter: %w", err)
		}

		vectors, err := b.inner.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts", ErrEmbedding, len(vectors), end-start)
		}
		for _, v := range vectors {
			out = append(out, index.Normalize(v))
		}
		b.logger.Debug("embedded batch", zap.String("provider", b.inner.Name()),
			zap.Int("from", start), zap.Int("to", end))
	}
	return out, nil
}

// Dimensions reports the wrapped provider's width
func (b *Batcher) Dimensions() int {
	return b.inner.Dimensions()
}

// Name reports the wrapped provider's name
func (b *Batcher) Name() string {
	return b.inner.Name()
}

// Close closes the wrapped provider when it holds a client
func (b *Batcher) Close() error {
	if c, ok := b.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
