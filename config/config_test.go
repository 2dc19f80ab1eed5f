package config

import (
	"testing"
	"time"

	"lexresearch-backend/storage"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LEXRESEARCH_CORPUS_SOURCE", "LEXRESEARCH_CORPUS_PATH", "LEXRESEARCH_ID_COLLISION",
		"EMBEDDING_PROVIDER", "GENERATOR_PROVIDER", "LEXRESEARCH_GENERATION_TIMEOUT",
		"LEXRESEARCH_INTERACTIVE_TOP_K", "LEXRESEARCH_BATCH_TOP_K", "LEXRESEARCH_MAX_TOKENS",
		"LEXRESEARCH_GRAPH_CAP", "STORAGE_TYPE", "EMBEDDING_REQUEST_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file", cfg.CorpusSource)
	assert.Equal(t, "data/caselaw_sample.json", cfg.CorpusPath)
	assert.Equal(t, "last_write_wins", cfg.IDCollision)
	assert.Equal(t, "none", cfg.EmbeddingProvider)
	assert.Equal(t, "none", cfg.GeneratorProvider)
	assert.Equal(t, 600*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.EmbeddingInterval)
	assert.Equal(t, 6, cfg.InteractiveTopK)
	assert.Equal(t, 8, cfg.BatchTopK)
	assert.Equal(t, 900, cfg.MaxTokens)
	assert.Equal(t, 12, cfg.GraphCap)
	assert.Equal(t, storage.StorageTypeLocal, cfg.Storage.Type)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LEXRESEARCH_CORPUS_SOURCE", "Postgres")
	t.Setenv("LEXRESEARCH_GENERATION_TIMEOUT", "45")
	t.Setenv("EMBEDDING_REQUEST_INTERVAL", "2s")
	t.Setenv("LEXRESEARCH_BATCH_TOP_K", "12")
	t.Setenv("LEXRESEARCH_INTERACTIVE_TOP_K", "-3")
	t.Setenv("GENERATOR_PROVIDER", "OpenAI")

	cfg := FromEnv()
	assert.Equal(t, "postgres", cfg.CorpusSource)
	assert.Equal(t, 45*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 2*time.Second, cfg.EmbeddingInterval)
	assert.Equal(t, 12, cfg.BatchTopK)
	assert.Equal(t, 6, cfg.InteractiveTopK)
	assert.Equal(t, "openai", cfg.GeneratorProvider)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	assert.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewLogger("loud")
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
