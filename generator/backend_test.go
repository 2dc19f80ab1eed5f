package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	replies []error
	text    string
	calls   int
}

func (s *scriptedBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.calls++
	if len(s.replies) >= s.calls {
		if err := s.replies[s.calls-1]; err != nil {
			return "", err
		}
	}
	return s.text, nil
}

func (s *scriptedBackend) Name() string { return "scripted" }

func TestSignalsUnavailable(t *testing.T) {
	assert.True(t, SignalsUnavailable("FALLBACK RESPONSE: nothing to see"))
	assert.True(t, SignalsUnavailable("error: LLM NOT WORKING"))
	assert.False(t, SignalsUnavailable("fallback response"))
	assert.False(t, SignalsUnavailable("A complete analysis."))
}

func TestRetrying_RecoversFromTransientErrors(t *testing.T) {
	inner := &scriptedBackend{replies: []error{errors.New("503"), errors.New("503")}, text: "report"}
	r := NewRetrying(inner, 3, time.Millisecond, nil)

	text, err := r.Generate(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "report", text)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrying_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	inner := &scriptedBackend{replies: []error{boom, boom, boom}}
	r := NewRetrying(inner, 3, time.Millisecond, nil)

	_, err := r.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrying_DoesNotRetryUnavailable(t *testing.T) {
	inner := &scriptedBackend{replies: []error{ErrUnavailable}}
	r := NewRetrying(inner, 3, time.Millisecond, nil)

	_, err := r.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, inner.calls)
}

func TestRetrying_StreamFallsBackToSingleChunk(t *testing.T) {
	r := NewRetrying(&scriptedBackend{text: "whole"}, 1, 0, nil)

	var chunks []string
	err := r.GenerateStream(context.Background(), "prompt", 10, func(s string) error {
		chunks = append(chunks, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"whole"}, chunks)
	assert.Equal(t, "scripted", r.Name())
}

func TestNewBackend(t *testing.T) {
	_, err := NewBackend(context.Background(), Config{Provider: "none"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewBackend(context.Background(), Config{Provider: "gemini"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewBackend(context.Background(), Config{Provider: "palm"}, nil)
	assert.Error(t, err)

	backend, err := NewBackend(context.Background(), Config{Provider: "ollama", OpenAIURL: "http://localhost:11434/v1", OpenAIModel: "llama3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai:llama3", backend.Name())
}

func TestRetrying_DeadlineBecomesTimeout(t *testing.T) {
	inner := &scriptedBackend{replies: []error{context.DeadlineExceeded}}
	r := NewRetrying(inner, 3, time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := r.Generate(ctx, "prompt", 100)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, inner.calls)
}
