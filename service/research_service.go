package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lexresearch-backend/corpus"
	"lexresearch-backend/generator"
	"lexresearch-backend/graph"
	"lexresearch-backend/index"
	"lexresearch-backend/models"
	"lexresearch-backend/precedent"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("lexresearch.service")

const (
	DefaultInteractiveTopK   = 6
	DefaultBatchTopK         = 8
	DefaultMaxResults        = 10
	DefaultGenerationTimeout = 600 * time.Second
	DefaultMaxTokens         = 900
)

// engine is everything built once per process and shared read-only afterwards
type engine struct {
	store  *corpus.Store
	bundle *index.Bundle
	graph  *graph.Builder
}

// ResearchService owns the authority store and indexes and runs research requests
type ResearchService struct {
	source    corpus.Source
	embedder  index.Embedder
	backend   generator.Backend
	logger    *zap.Logger
	collision corpus.CollisionPolicy
	graphCap  int
	timeout   time.Duration
	maxTokens int
	topK      struct{ interactive, batch int }
	now       func() time.Time

	mu     sync.Mutex
	engine atomic.Pointer[engine]
}

// ResearchServiceOption configures a ResearchService
type ResearchServiceOption func(*ResearchService)

// WithCorpusSource sets where authorities are loaded from
func WithCorpusSource(src corpus.Source) ResearchServiceOption {
	return func(s *ResearchService) {
		s.source = src
	}
}

// WithEmbedder enables dense ranking
func WithEmbedder(e index.Embedder) ResearchServiceOption {
	return func(s *ResearchService) {
		s.embedder = e
	}
}

// WithBackend sets the generative backend
func WithBackend(b generator.Backend) ResearchServiceOption {
	return func(s *ResearchService) {
		s.backend = b
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ResearchServiceOption {
	return func(s *ResearchService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCollisionPolicy decides which record wins when ids collide
func WithCollisionPolicy(p corpus.CollisionPolicy) ResearchServiceOption {
	return func(s *ResearchService) {
		s.collision = p
	}
}

// WithGraphCap sets how many expansion nodes a knowledge graph may add
func WithGraphCap(n int) ResearchServiceOption {
	return func(s *ResearchService) {
		s.graphCap = n
	}
}

// WithGenerationTimeout bounds each backend call
func WithGenerationTimeout(d time.Duration) ResearchServiceOption {
	return func(s *ResearchService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxTokens sets the completion token budget
func WithMaxTokens(n int) ResearchServiceOption {
	return func(s *ResearchService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTopK sets the default result counts for interactive and batch callers
func WithTopK(interactive, batch int) ResearchServiceOption {
	return func(s *ResearchService) {
		if interactive > 0 {
			s.topK.interactive = interactive
		}
		if batch > 0 {
			s.topK.batch = batch
		}
	}
}

// WithClock replaces time.Now for report timestamps
func WithClock(now func() time.Time) ResearchServiceOption {
	return func(s *ResearchService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewResearchService creates a research service. Nothing is loaded until the
// first call to EnsureBuilt (directly or through a query).
func NewResearchService(opts ...ResearchServiceOption) *ResearchService {
	s := &ResearchService{
		logger:    zap.NewNop(),
		collision: corpus.LastWriteWins,
		graphCap:  graph.DefaultMaxRelated,
		timeout:   DefaultGenerationTimeout,
		maxTokens: DefaultMaxTokens,
		now:       time.Now,
	}
	s.topK.interactive = DefaultInteractiveTopK
	s.topK.batch = DefaultBatchTopK
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InteractiveTopK is the default result count for interactive callers
func (s *ResearchService) InteractiveTopK() int {
	return s.topK.interactive
}

// BatchTopK is the default result count for batch callers
func (s *ResearchService) BatchTopK() int {
	return s.topK.batch
}

// EnsureBuilt loads the corpus and builds the indexes exactly once. Concurrent
// callers block until the first build finishes. A failed build is not cached.
func (s *ResearchService) EnsureBuilt(ctx context.Context) error {
	_, err := s.ensureEngine(ctx)
	return err
}

func (s *ResearchService) ensureEngine(ctx context.Context) (*engine, error) {
	if e := s.engine.Load(); e != nil {
		return e, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.engine.Load(); e != nil {
		return e, nil
	}

	ctx, span := tracer.Start(ctx, "research.build")
	defer span.End()

	store := corpus.Load(ctx, s.source, corpus.LoadOptions{Collision: s.collision, Logger: s.logger})
	bundle, err := index.Build(ctx, store.All(), s.embedder, s.logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	e := &engine{
		store:  store,
		bundle: bundle,
		graph:  graph.NewBuilder(store, graph.WithMaxRelated(s.graphCap), graph.WithLogger(s.logger)),
	}
	span.SetAttributes(attribute.Int("authorities", store.Len()), attribute.Bool("dense", bundle.HasDense()))
	s.engine.Store(e)
	return e, nil
}

// Search runs the hybrid ranker. topK < 1 uses the interactive default.
func (s *ResearchService) Search(ctx context.Context, query string, topK int) (models.RetrievalResult, error) {
	e, err := s.ensureEngine(ctx)
	if err != nil {
		return models.RetrievalResult{}, err
	}
	if topK < 1 {
		topK = s.topK.interactive
	}
	return e.bundle.Search(ctx, query, topK), nil
}

// ResearchContext is everything rendered ahead of generation
type ResearchContext struct {
	Query          string
	Retrieval      models.RetrievalResult
	KnowledgeGraph models.KnowledgeGraph
	Precedent      models.PrecedentAnalysis
	ContextBlock   string
	Prompt         string
}

// PrepareContext retrieves, builds the graph, reasons over precedent and
// renders the context block and prompt. It never calls the backend.
func (s *ResearchService) PrepareContext(ctx context.Context, query string, topK int) (*ResearchContext, error) {
	e, err := s.ensureEngine(ctx)
	if err != nil {
		return nil, err
	}
	if topK < 1 {
		topK = s.topK.interactive
	}

	_, span := tracer.Start(ctx, "research.retrieve")
	retrieval := e.bundle.Search(ctx, query, topK)
	span.SetAttributes(attribute.Int("hits", len(retrieval.Items)), attribute.String("method", retrieval.Method))
	span.End()

	kg := e.graph.Build(retrieval.IDs())
	analysis := precedent.Analyze(query, retrieval)
	block := RenderContextBlock(query, retrieval, kg, analysis)

	return &ResearchContext{
		Query:          query,
		Retrieval:      retrieval,
		KnowledgeGraph: kg,
		Precedent:      analysis,
		ContextBlock:   block,
		Prompt:         BuildPrompt(query, block),
	}, nil
}

// ResearchRequest is a research query
type ResearchRequest struct {
	Query      string
	TopK       int // 0 uses the batch default
	MaxResults int // caps Documents; 0 uses DefaultMaxResults
}

// ResearchResult is a finished research report
type ResearchResult struct {
	RequestID         string                   `json:"request_id"`
	Query             string                   `json:"query"`
	Report            string                   `json:"report"`
	Documents         []models.DocumentView    `json:"documents"`
	Confidence        float64                  `json:"confidence_score"`
	KnowledgeGraph    models.KnowledgeGraph    `json:"knowledge_graph"`
	PrecedentAnalysis models.PrecedentAnalysis `json:"precedent_analysis"`
	Source            models.ReportSource      `json:"source"`
	Prompt            string                   `json:"-"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// Research produces a full report. Backend failures, timeouts and
// unavailability fall back to a template body; only a failed index build or
// caller cancellation returns an error.
func (s *ResearchService) Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	requestID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "research", trace.WithAttributes(attribute.String("request_id", requestID)))
	defer span.End()

	topK := req.TopK
	if topK < 1 {
		topK = s.topK.batch
	}
	rc, err := s.PrepareContext(ctx, req.Query, topK)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, source, err := s.generate(ctx, rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("source", string(source)))

	now := s.now()
	return &ResearchResult{
		RequestID:         requestID,
		Query:             req.Query,
		Report:            FormatReport(req.Query, body, rc, now),
		Documents:         SerializeDocuments(rc.Retrieval, req.MaxResults),
		Confidence:        EstimateConfidence(rc.Retrieval),
		KnowledgeGraph:    rc.KnowledgeGraph,
		PrecedentAnalysis: rc.Precedent,
		Source:            source,
		Prompt:            rc.Prompt,
		GeneratedAt:       now,
	}, nil
}

type generation struct {
	text string
	err  error
}

// generate runs the backend under the generation timeout and decides between
// the generated body and the template body
func (s *ResearchService) generate(ctx context.Context, rc *ResearchContext) (string, models.ReportSource, error) {
	ctx, span := tracer.Start(ctx, "research.generate")
	defer span.End()

	if s.backend == nil {
		recordReport(models.SourceFallback, reasonUnavailable)
		return TemplateBody(rc.Query), models.SourceFallback, nil
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		text, err := s.backend.Generate(gctx, rc.Prompt, s.maxTokens)
		done <- generation{text: text, err: err}
	}()

	var res generation
	select {
	case res = <-done:
	case <-gctx.Done():
		res = generation{err: gctx.Err()}
	}

	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationAbort, ctx.Err())
	}

	reason := ""
	switch {
	case errors.Is(res.err, generator.ErrTimeout), errors.Is(res.err, context.DeadlineExceeded),
		errors.Is(gctx.Err(), context.DeadlineExceeded):
		reason = reasonTimeout
		s.logger.Warn("generation timed out, using template report",
			zap.String("query", rc.Query), zap.Duration("timeout", s.timeout))
	case errors.Is(res.err, generator.ErrUnavailable):
		reason = reasonUnavailable
		s.logger.Warn("generative backend unavailable, using template report", zap.String("query", rc.Query))
	case res.err != nil:
		reason = reasonError
		s.logger.Error("generation failed, using template report", zap.String("query", rc.Query), zap.Error(res.err))
	case generator.SignalsUnavailable(res.text):
		reason = reasonUnavailable
		s.logger.Warn("generative backend signalled unavailability, using template report", zap.String("query", rc.Query))
	case strings.TrimSpace(res.text) == "":
		reason = reasonEmpty
		s.logger.Warn("generative backend returned empty text, using template report", zap.String("query", rc.Query))
	}

	if reason != "" {
		span.SetAttributes(attribute.String("fallback_reason", reason))
		recordReport(models.SourceFallback, reason)
		return TemplateBody(rc.Query), models.SourceFallback, nil
	}
	recordReport(models.SourceLLM, "")
	return res.text, models.SourceLLM, nil
}
