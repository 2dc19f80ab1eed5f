package index

import (
	"context"
	"sort"
	"strings"
	"time"

	"lexresearch-backend/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SnippetChars bounds the snippet attached to each hit
const SnippetChars = 700

// Embedder turns texts into vectors. Implementations may return vectors of any
// length as long as it is consistent across calls.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Bundle is the immutable set of indexes built over one authority store
type Bundle struct {
	ids         []string
	authorities map[string]*models.Authority
	lexical     *LexicalIndex
	dense       *DenseIndex
	embedder    Embedder
	logger      *zap.Logger
}

// Build indexes authorities in order. The lexical index and the document
// embeddings are computed concurrently. A failing or absent embedder leaves the
// bundle lexical-only; only context cancellation makes Build fail.
func Build(ctx context.Context, authorities []*models.Authority, embedder Embedder, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	defer func() { buildDuration.Observe(time.Since(start).Seconds()) }()

	b := &Bundle{
		ids:         make([]string, 0, len(authorities)),
		authorities: make(map[string]*models.Authority, len(authorities)),
		embedder:    embedder,
		logger:      logger,
	}
	bodies := make([]string, 0, len(authorities))
	for _, a := range authorities {
		b.ids = append(b.ids, a.ID)
		b.authorities[a.ID] = a
		body := a.Body
		if strings.TrimSpace(body) == "" {
			body = a.Summary
		}
		bodies = append(bodies, body)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.lexical = NewLexicalIndex(b.ids, bodies)
		return nil
	})
	if embedder != nil && len(bodies) > 0 {
		g.Go(func() error {
			vectors, err := embedder.EmbedBatch(gctx, bodies)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("document embeddings unavailable, using lexical ranking only", zap.Error(err))
				return nil
			}
			dense, err := NewDenseIndex(b.ids, vectors)
			if err != nil {
				logger.Warn("discarding malformed document embeddings", zap.Error(err))
				return nil
			}
			b.dense = dense
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("index bundle built",
		zap.Int("documents", len(b.ids)),
		zap.Bool("dense", b.dense != nil),
		zap.Duration("elapsed", time.Since(start)))
	return b, nil
}

// Len returns the number of indexed authorities
func (b *Bundle) Len() int {
	return len(b.ids)
}

// HasDense reports whether dense ranking is available
func (b *Bundle) HasDense() bool {
	return b.dense != nil
}

// Authority looks up an indexed authority
func (b *Bundle) Authority(id string) (*models.Authority, bool) {
	a, ok := b.authorities[id]
	return a, ok
}

// Search ranks authorities for query and returns at most topK hits with a
// positive blended score. A blank query returns an empty result.
func (b *Bundle) Search(ctx context.Context, query string, topK int) models.RetrievalResult {
	start := time.Now()
	result := models.RetrievalResult{Query: query, Items: []models.ScoredAuthority{}, Method: MethodNone}
	if strings.TrimSpace(query) == "" {
		return result
	}
	if topK < 1 {
		topK = 1
	}

	lexical := b.lexical.Score(query)
	dense := b.denseScores(ctx, query)

	blended, method := Blend(b.ids, lexical, dense)
	result.Method = method
	searchMethodTotal.WithLabelValues(method).Inc()

	sort.SliceStable(blended, func(i, j int) bool { return blended[i].Score > blended[j].Score })

	for _, hit := range blended {
		if len(result.Items) == topK {
			break
		}
		if hit.Score <= 0 {
			break
		}
		a := b.authorities[hit.ID]
		result.Items = append(result.Items, models.ScoredAuthority{
			Authority:    a,
			Score:        hit.Score,
			LexicalScore: hit.Lexical,
			DenseScore:   hit.Dense,
			Snippet:      a.Snippet(SnippetChars),
			MatchedTerms: MatchedTerms(query, a.SearchText()),
		})
	}

	searchLatency.Observe(time.Since(start).Seconds())
	return result
}

func (b *Bundle) denseScores(ctx context.Context, query string) map[string]float64 {
	if b.dense == nil || b.embedder == nil {
		return map[string]float64{}
	}
	vectors, err := b.embedder.EmbedBatch(ctx, []string{strings.TrimSpace(query)})
	if err != nil || len(vectors) == 0 {
		queryEmbeddingErrors.Inc()
		b.logger.Warn("failed to embed query, using lexical ranking", zap.Error(err))
		return map[string]float64{}
	}
	return b.dense.Score(vectors[0])
}
