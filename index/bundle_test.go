package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"lexresearch-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthorities() []*models.Authority {
	return []*models.Authority{
		{ID: "cloud", Title: "Cloud Outage", Summary: "Cloud vendor outage.", Body: "cloud vendor outage breached the service level agreement"},
		{ID: "custody", Title: "Custody", Summary: "Family custody.", Body: "family custody dispute and support order"},
		{ID: "noncompete", Title: "Noncompete", Summary: "", Body: "employment noncompete clause unreasonable in scope"},
		{ID: "storage", Title: "Storage", Summary: "Cloud storage.", Body: "cloud storage pricing dispute"},
	}
}

// keywordEmbedder embeds text as counts of a fixed vocabulary
type keywordEmbedder struct {
	vocab []string
	calls int
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(e.vocab))
		for j, word := range e.vocab {
			v[j] = float32(strings.Count(strings.ToLower(text), word))
		}
		out[i] = v
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func TestBuild_LexicalOnly(t *testing.T) {
	b, err := Build(context.Background(), testAuthorities(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())
	assert.False(t, b.HasDense())

	result := b.Search(context.Background(), "cloud outage", 3)
	assert.Equal(t, MethodLexicalOnly, result.Method)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "cloud", result.Items[0].Authority.ID)
	assert.Equal(t, 1.0, result.Items[0].Score)
	assert.Equal(t, []string{"cloud", "outage"}, result.Items[0].MatchedTerms)

	for _, item := range result.Items {
		assert.Equal(t, 0.0, item.DenseScore)
		assert.Equal(t, item.LexicalScore, item.Score)
	}
}

func TestSearch_ResultProperties(t *testing.T) {
	b, err := Build(context.Background(), testAuthorities(), nil, nil)
	require.NoError(t, err)

	for _, query := range []string{"cloud", "dispute", "cloud dispute custody", "noncompete scope"} {
		for topK := 1; topK <= 5; topK++ {
			result := b.Search(context.Background(), query, topK)
			assert.LessOrEqual(t, len(result.Items), topK)
			assert.True(t, sort.SliceIsSorted(result.Items, func(i, j int) bool {
				return result.Items[i].Score > result.Items[j].Score
			}), "query %q not sorted", query)
			for _, item := range result.Items {
				assert.Greater(t, item.Score, 0.0)
				assert.LessOrEqual(t, item.Score, 1.0)
			}
		}
	}
}

func TestSearch_EdgeCases(t *testing.T) {
	b, err := Build(context.Background(), testAuthorities(), nil, nil)
	require.NoError(t, err)

	blank := b.Search(context.Background(), "   ", 5)
	assert.Empty(t, blank.Items)
	assert.Equal(t, MethodNone, blank.Method)

	coerced := b.Search(context.Background(), "cloud", 0)
	assert.Len(t, coerced.Items, 1)

	unmatched := b.Search(context.Background(), "zzzz", 5)
	assert.Empty(t, unmatched.Items)
}

func TestSearch_StableTies(t *testing.T) {
	authorities := []*models.Authority{
		{ID: "first", Body: "identical text"},
		{ID: "second", Body: "identical text"},
		{ID: "third", Body: "identical text"},
	}
	b, err := Build(context.Background(), authorities, nil, nil)
	require.NoError(t, err)

	result := b.Search(context.Background(), "identical", 3)
	assert.Equal(t, []string{"first", "second", "third"}, result.IDs())
}

func TestSearch_SnippetFallsBackToBody(t *testing.T) {
	b, err := Build(context.Background(), testAuthorities(), nil, nil)
	require.NoError(t, err)

	result := b.Search(context.Background(), "noncompete", 1)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "employment noncompete clause unreasonable in scope", result.Items[0].Snippet)
}

func TestBuild_Hybrid(t *testing.T) {
	embedder := &keywordEmbedder{vocab: []string{"cloud", "family", "employment", "storage"}}
	b, err := Build(context.Background(), testAuthorities(), embedder, nil)
	require.NoError(t, err)
	require.True(t, b.HasDense())

	result := b.Search(context.Background(), "cloud outage", 4)
	assert.Equal(t, MethodHybrid, result.Method)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "cloud", result.Items[0].Authority.ID)
	assert.Greater(t, result.Items[0].DenseScore, 0.0)
	assert.Equal(t, 2, embedder.calls)
}

func TestBuild_FailingEmbedderDegrades(t *testing.T) {
	b, err := Build(context.Background(), testAuthorities(), failingEmbedder{}, nil)
	require.NoError(t, err)
	assert.False(t, b.HasDense())

	result := b.Search(context.Background(), "cloud", 2)
	assert.Equal(t, MethodLexicalOnly, result.Method)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, testAuthorities(), failingEmbedder{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_LargeCorpusTopK(t *testing.T) {
	authorities := make([]*models.Authority, 0, 30)
	for i := 0; i < 30; i++ {
		authorities = append(authorities, &models.Authority{
			ID:   fmt.Sprintf("doc_%02d", i),
			Body: strings.Repeat("contract ", i+1) + "filler text",
		})
	}
	b, err := Build(context.Background(), authorities, nil, nil)
	require.NoError(t, err)

	result := b.Search(context.Background(), "contract", 8)
	assert.Len(t, result.Items, 8)
	assert.Equal(t, 1.0, result.TopScore())
}
