package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiEmbeddingDimensions = 768

// GeminiProvider embeds texts with a Gemini embedding model
type GeminiProvider struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
}

// NewGeminiProvider opens a Gemini client for the given embedding model
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = "text-embedding-004"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  client.EmbeddingModel(model),
		name:   model,
	}, nil
}

// EmbedBatch embeds texts in a single BatchEmbedContents call
func (g *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := g.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := g.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("%w: empty embedding in response", ErrEmbedding)
		}
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}

// Dimensions returns the embedding width of Gemini text embedding models
func (g *GeminiProvider) Dimensions() int {
	return geminiEmbeddingDimensions
}

// Name returns the model name
func (g *GeminiProvider) Name() string {
	return "gemini:" + g.name
}

// Close releases the underlying client
func (g *GeminiProvider) Close() error {
	return g.client.Close()
}
