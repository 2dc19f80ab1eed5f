package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPersona = "You are a legal research strategist writing for in-house counsel."

// OpenAIBackend talks to the OpenAI chat API or any server exposing the same
// API (Ollama serves one under /v1)
type OpenAIBackend struct {
	client     *openai.Client
	model      string
	compatible bool
}

// NewOpenAIBackend creates a chat backend. A non-empty baseURL points it at a
// compatible server, for which an API key is optional.
func NewOpenAIBackend(apiKey, baseURL, model string) *OpenAIBackend {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if apiKey == "" && baseURL != "" {
		apiKey = "ollama"
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIBackend{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		compatible: baseURL != "",
	}
}

func (o *OpenAIBackend) request(prompt string, maxTokens int, stream bool) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		Stream:      stream,
	}
	if maxTokens > 0 {
		// compatible servers still read the older max_tokens field
		if o.compatible {
			req.MaxTokens = maxTokens
		} else {
			req.MaxCompletionTokens = maxTokens
		}
	}
	return req
}

// Generate returns the first choice's message content
func (o *OpenAIBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.request(prompt, maxTokens, false))
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream forwards content deltas as they arrive
func (o *OpenAIBackend) GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error {
	stream, err := o.client.CreateChatCompletionStream(ctx, o.request(prompt, maxTokens, true))
	if err != nil {
		return fmt.Errorf("OpenAI stream failed: %w", err)
	}
	defer stream.Close()

	emitted := false
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("OpenAI stream failed: %w", err)
		}
		for _, choice := range resp.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			emitted = true
			if err := onChunk(choice.Delta.Content); err != nil {
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
func (o *OpenAIBackend) Name() string {
	return "openai:" + o.model
}
