package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"lexresearch-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		CorpusSource:      "file",
		CorpusPath:        filepath.Join(t.TempDir(), "missing.json"),
		EmbeddingProvider: "none",
		GeneratorProvider: "none",
	}
}

func TestNew_DegradesWithoutCollaborators(t *testing.T) {
	application, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer application.Close()

	require.NoError(t, application.Service.EnsureBuilt(context.Background()))
	result, err := application.Service.Search(context.Background(), "technology performance", 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "fallback_case_001", result.Items[0].Authority.ID)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.IDCollision = "coin_flip"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.CorpusSource = "ftp"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.CorpusSource = "storage"
	cfg.Storage.LocalPath = t.TempDir()
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err, "storage source needs a corpus key")
}

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	r := NewRouter(application.Service, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"consent automated processing"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fallback_case_002")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lexresearch_index_search_method_total")
}
