package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiBackend generates text with a Gemini model
type GeminiBackend struct {
	client    *genai.Client
	modelName string
}

// NewGeminiBackend opens a Gemini client
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiBackend{client: client, modelName: model}, nil
}

func (g *GeminiBackend) model(maxTokens int) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.3)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(int32(maxTokens))
	}
	return m
}

// Generate returns the concatenated text parts of every candidate
func (g *GeminiBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.model(maxTokens).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("API blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateStream forwards partial responses as they arrive
func (g *GeminiBackend) GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error {
	iter := g.model(maxTokens).GenerateContentStream(ctx, genai.Text(prompt))
	emitted := false
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("Gemini stream failed: %w", err)
		}
		if chunk := responseText(resp); chunk != "" {
			emitted = true
			if err := onChunk(chunk); err != nil {
				return err
			}
		}
	}
	if !emitted {
		return ErrEmptyResponse
	}
	return nil
}

// Name identifies the backend
func (g *GeminiBackend) Name() string {
	return "gemini:" + g.modelName
}

// Close releases the underlying client
func (g *GeminiBackend) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
