package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lexresearch-backend/config"
	"lexresearch-backend/corpus"
	"lexresearch-backend/embedding"
	"lexresearch-backend/generator"
	"lexresearch-backend/handlers"
	"lexresearch-backend/repository"
	"lexresearch-backend/service"
	"lexresearch-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired research service and the resources it must release
type App struct {
	Service *service.ResearchService
	closers []func()
}

// Close releases database pools and API clients
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New wires corpus source, embedder and backend from cfg. Missing optional
// collaborators degrade the service instead of failing startup.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	policy, err := corpus.ParseCollisionPolicy(cfg.IDCollision)
	if err != nil {
		return nil, err
	}

	src, err := a.corpusSource(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []service.ResearchServiceOption{
		service.WithCorpusSource(src),
		service.WithLogger(logger),
		service.WithCollisionPolicy(policy),
		service.WithGraphCap(cfg.GraphCap),
		service.WithGenerationTimeout(cfg.GenerationTimeout),
		service.WithMaxTokens(cfg.MaxTokens),
		service.WithTopK(cfg.InteractiveTopK, cfg.BatchTopK),
	}

	embedder, err := embedding.NewProvider(ctx, embedding.Config{
		Provider:  cfg.EmbeddingProvider,
		APIKey:    cfg.GeminiAPIKey,
		Model:     cfg.GeminiEmbeddingModel,
		Interval:  cfg.EmbeddingInterval,
		BatchSize: cfg.EmbeddingBatchSize,
	}, logger)
	switch {
	case errors.Is(err, embedding.ErrUnavailable):
		logger.Info("dense ranking disabled, using lexical ranking only")
	case err != nil:
		a.Close()
		return nil, err
	default:
		a.closeWith(embedder)
		opts = append(opts, service.WithEmbedder(embedder))
	}

	backend, err := generator.NewBackend(ctx, generator.Config{
		Provider:     cfg.GeneratorProvider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIURL:    cfg.OpenAIBaseURL,
		OpenAIModel:  cfg.OpenAIModel,
	}, logger)
	switch {
	case errors.Is(err, generator.ErrUnavailable):
		logger.Info("generative backend disabled, reports will use templates")
	case err != nil:
		a.Close()
		return nil, err
	default:
		a.closeWith(backend)
		opts = append(opts, service.WithBackend(backend))
	}

	a.Service = service.NewResearchService(opts...)
	return a, nil
}

func (a *App) closeWith(v interface{}) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}
}

func (a *App) corpusSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (corpus.Source, error) {
	switch cfg.CorpusSource {
	case "", "file":
		return corpus.NewFileSource(cfg.CorpusPath), nil
	case "storage":
		store, err := storage.NewStorage(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		if cfg.CorpusKey == "" {
			return nil, errors.New("LEXRESEARCH_CORPUS_KEY is required for storage corpus source")
		}
		return corpus.NewStorageSource(store, cfg.CorpusKey), nil
	case "postgres":
		pool, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		logger.Info("Postgres connection established", zap.String("corpus", cfg.CorpusName))
		return repository.NewAuthorityRepository(pool, cfg.CorpusName), nil
	default:
		return nil, fmt.Errorf("unknown corpus source: %s", cfg.CorpusSource)
	}
}

// OpenPostgres connects and pings the database
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// NewRouter builds the gin engine with health, metrics and research routes
func NewRouter(researcher handlers.Researcher, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	handlers.NewResearchHandler(researcher, logger).RegisterRoutes(api)
	return r
}
