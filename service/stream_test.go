package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lexresearch-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type streamingBackend struct {
	stubBackend
	chunks []string
	err    error
}

func (b *streamingBackend) GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error {
	for _, c := range b.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return b.err
}

// stallingBackend ignores ctx and sends its chunks only once release is closed
type stallingBackend struct {
	stubBackend
	release chan struct{}
	chunks  []string
}

func (b *stallingBackend) GenerateStream(ctx context.Context, prompt string, maxTokens int, onChunk func(string) error) error {
	<-b.release
	for _, c := range b.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return nil
}

func collect(t *testing.T, svc *ResearchService, query string) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	err := svc.ResearchStream(context.Background(), query, 0, func(e StreamEvent) error {
		events = append(events, e)
		return nil
	})
	require.NoError(t, err)
	return events
}

func eventNames(events []StreamEvent) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}

func TestResearchStream_Chunks(t *testing.T) {
	svc := newTestService(WithBackend(&streamingBackend{chunks: []string{"EXECUTIVE ", "SUMMARY: streamed"}}))

	events := collect(t, svc, "non-compete clause")
	assert.Equal(t, []string{EventContext, EventChunk, EventChunk, EventDone}, eventNames(events))

	ctxEvent, ok := events[0].Data.(StreamContext)
	require.True(t, ok)
	assert.NotEmpty(t, ctxEvent.Documents)

	done, ok := events[3].Data.(StreamDone)
	require.True(t, ok)
	assert.Equal(t, models.SourceLLM, done.Source)
	assert.Contains(t, done.Report, "EXECUTIVE SUMMARY: streamed")
}

func TestResearchStream_FallbackBeforeText(t *testing.T) {
	tests := []struct {
		name    string
		backend *streamingBackend
	}{
		{"error", &streamingBackend{err: errors.New("connection reset")}},
		{"sentinel", &streamingBackend{chunks: []string{"LLM NOT WORKING"}}},
		{"empty", &streamingBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(WithBackend(tt.backend))
			events := collect(t, svc, "cloud service liability")
			require.Equal(t, []string{EventContext, EventChunk, EventDone}, eventNames(events))

			assert.Contains(t, events[1].Data, "LIMITATION OF LIABILITY")
			done := events[2].Data.(StreamDone)
			assert.Equal(t, models.SourceFallback, done.Source)
		})
	}
}

func TestResearchStream_KeepsPartialText(t *testing.T) {
	svc := newTestService(WithBackend(&streamingBackend{chunks: []string{"partial analysis"}, err: errors.New("stream cut")}))

	events := collect(t, svc, "non-compete")
	done := events[len(events)-1].Data.(StreamDone)
	assert.Equal(t, models.SourceLLM, done.Source)
	assert.Contains(t, done.Report, "partial analysis")
	assert.NotContains(t, done.Report, "LIMITATION OF LIABILITY")
}

func TestResearchStream_NonStreamingBackend(t *testing.T) {
	svc := newTestService(WithBackend(&stubBackend{text: "whole body"}))

	events := collect(t, svc, "non-compete")
	require.Equal(t, []string{EventContext, EventChunk, EventDone}, eventNames(events))
	assert.Equal(t, "whole body", events[1].Data)
}

func TestResearchStream_EmitErrorStops(t *testing.T) {
	svc := newTestService(WithBackend(&streamingBackend{chunks: []string{"a", "b", "c"}}))
	stop := errors.New("client gone")

	calls := 0
	err := svc.ResearchStream(context.Background(), "non-compete", 0, func(e StreamEvent) error {
		calls++
		if e.Name == EventChunk {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestResearchStream_NoBackend(t *testing.T) {
	svc := newTestService()
	events := collect(t, svc, "divorce proceedings")
	require.Len(t, events, 3)
	assert.True(t, strings.Contains(events[1].Data.(string), "KEY LEGAL PRINCIPLES"))
}

func TestResearchStream_DeadlineWithStalledBackend(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &stallingBackend{release: make(chan struct{}), chunks: []string{"late text"}}
	svc := newTestService(WithBackend(backend), WithGenerationTimeout(50*time.Millisecond))

	start := time.Now()
	events := collect(t, svc, "non-compete")
	elapsed := time.Since(start)
	close(backend.release)

	assert.Less(t, elapsed, time.Second)
	require.Equal(t, []string{EventContext, EventChunk, EventDone}, eventNames(events))
	done := events[2].Data.(StreamDone)
	assert.Equal(t, models.SourceFallback, done.Source)
	assert.NotContains(t, done.Report, "late text")
}
