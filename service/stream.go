package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lexresearch-backend/generator"
	"lexresearch-backend/models"

	"go.uber.org/zap"
)

// Stream event names
const (
	EventContext = "context"
	EventChunk   = "chunk"
	EventDone    = "done"
)

// StreamEvent is one server-sent event of a streamed research request
type StreamEvent struct {
	Name string
	Data interface{}
}

// StreamContext is sent before any generated text
type StreamContext struct {
	Query             string                   `json:"query"`
	Documents         []models.DocumentView    `json:"documents"`
	Confidence        float64                  `json:"confidence_score"`
	KnowledgeGraph    models.KnowledgeGraph    `json:"knowledge_graph"`
	PrecedentAnalysis models.PrecedentAnalysis `json:"precedent_analysis"`
}

// StreamDone closes a stream
type StreamDone struct {
	Source models.ReportSource `json:"source"`
	Report string              `json:"report"`
}

var errSignalledUnavailable = errors.New("backend signalled unavailability")

// ResearchStream emits the retrieval context, then the report body as it is
// generated, then the complete formatted report. If the backend fails before
// producing text the template body is emitted instead. topK < 1 uses the
// interactive default.
func (s *ResearchService) ResearchStream(ctx context.Context, query string, topK int, emit func(StreamEvent) error) error {
	ctx, span := tracer.Start(ctx, "research.stream")
	defer span.End()

	rc, err := s.PrepareContext(ctx, query, topK)
	if err != nil {
		return err
	}

	err = emit(StreamEvent{Name: EventContext, Data: StreamContext{
		Query:             query,
		Documents:         SerializeDocuments(rc.Retrieval, 0),
		Confidence:        EstimateConfidence(rc.Retrieval),
		KnowledgeGraph:    rc.KnowledgeGraph,
		PrecedentAnalysis: rc.Precedent,
	}})
	if err != nil {
		return err
	}

	body, source, err := s.streamBody(ctx, rc, emit)
	if err != nil {
		return err
	}
	return emit(StreamEvent{Name: EventDone, Data: StreamDone{
		Source: source,
		Report: FormatReport(query, body, rc, s.now()),
	}})
}

func (s *ResearchService) streamBody(ctx context.Context, rc *ResearchContext, emit func(StreamEvent) error) (string, models.ReportSource, error) {
	streamer, ok := s.backend.(generator.Streamer)
	if !ok {
		body, source, err := s.generate(ctx, rc)
		if err != nil {
			return "", "", err
		}
		return body, source, emit(StreamEvent{Name: EventChunk, Data: body})
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The backend may ignore gctx, so chunks are forwarded over a channel and
	// the deadline is enforced here rather than inside GenerateStream.
	chunks := make(chan string)
	done := make(chan error, 1)
	go func() {
		done <- streamer.GenerateStream(gctx, rc.Prompt, s.maxTokens, func(chunk string) error {
			select {
			case chunks <- chunk:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}()

	var sb strings.Builder
	var err error
loop:
	for {
		select {
		case chunk := <-chunks:
			if sb.Len() == 0 && generator.SignalsUnavailable(chunk) {
				err = errSignalledUnavailable
				break loop
			}
			sb.WriteString(chunk)
			if emitErr := emit(StreamEvent{Name: EventChunk, Data: chunk}); emitErr != nil {
				return "", "", emitErr
			}
		case err = <-done:
			break loop
		case <-gctx.Done():
			err = gctx.Err()
			break loop
		}
	}

	switch {
	case ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", "", fmt.Errorf("%w: %v", ErrGenerationAbort, ctx.Err())
	case err == nil && strings.TrimSpace(sb.String()) != "":
		recordReport(models.SourceLLM, "")
		return sb.String(), models.SourceLLM, nil
	case sb.Len() > 0:
		// Text already reached the client; keep what arrived before the stream ended.
		reason := reasonError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = reasonTimeout
		}
		s.logger.Warn("generation stream ended early", zap.String("query", rc.Query), zap.String("reason", reason), zap.Error(err))
		recordReport(models.SourceLLM, reason)
		return sb.String(), models.SourceLLM, nil
	}

	reason := reasonError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = reasonTimeout
	case errors.Is(err, errSignalledUnavailable), errors.Is(err, generator.ErrUnavailable):
		reason = reasonUnavailable
	case err == nil, errors.Is(err, generator.ErrEmptyResponse):
		reason = reasonEmpty
	}
	s.logger.Warn("streamed generation failed, using template report",
		zap.String("query", rc.Query), zap.String("reason", reason), zap.Error(err))
	recordReport(models.SourceFallback, reason)

	body := TemplateBody(rc.Query)
	return body, models.SourceFallback, emit(StreamEvent{Name: EventChunk, Data: body})
}
