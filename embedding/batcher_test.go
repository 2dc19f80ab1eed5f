package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	batches [][]string
	short   bool
	err     error
}

func (p *recordingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.batches = append(p.batches, append([]string(nil), texts...))
	out := make([][]float32, 0, len(texts))
	for i := range texts {
		out = append(out, []float32{float32(i + 1), 0, 0})
	}
	if p.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (p *recordingProvider) Dimensions() int { return 3 }
func (p *recordingProvider) Name() string    { return "recording" }

func TestBatcher_SplitsAndNormalizes(t *testing.T) {
	inner := &recordingProvider{}
	b := NewBatcher(inner, 2, 0, nil)

	vectors, err := b.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	require.Len(t, vectors, 5)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, inner.batches)

	for _, v := range vectors {
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	}
	assert.Equal(t, 3, b.Dimensions())
	assert.Equal(t, "recording", b.Name())
}

func TestBatcher_RejectsShortResponse(t *testing.T) {
	b := NewBatcher(&recordingProvider{short: true}, 4, 0, nil)

	_, err := b.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrEmbedding)
}

func TestBatcher_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	b := NewBatcher(&recordingProvider{err: boom}, 4, 0, nil)

	_, err := b.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, boom)
}

func TestBatcher_CancelledWhilePacing(t *testing.T) {
	b := NewBatcher(&recordingProvider{}, 1, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.EmbedBatch(ctx, []string{"a", "b"})
	assert.Error(t, err)
}

func TestNewProvider_Unavailable(t *testing.T) {
	for _, cfg := range []Config{
		{Provider: ""},
		{Provider: "none"},
		{Provider: "gemini"},
	} {
		_, err := NewProvider(context.Background(), cfg, nil)
		assert.ErrorIs(t, err, ErrUnavailable, "provider %q", cfg.Provider)
	}

	_, err := NewProvider(context.Background(), Config{Provider: "word2vec"}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "none", cfg.Provider)
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, 750*time.Millisecond, cfg.Interval)
}
