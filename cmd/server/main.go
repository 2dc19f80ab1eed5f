package main

import (
	"context"
	"log"

	"lexresearch-backend/app"
	"lexresearch-backend/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize research service", zap.Error(err))
	}
	defer application.Close()

	// Build eagerly so the first request does not pay for indexing
	if err := application.Service.EnsureBuilt(ctx); err != nil {
		logger.Fatal("failed to build research index", zap.Error(err))
	}

	r := app.NewRouter(application.Service, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
