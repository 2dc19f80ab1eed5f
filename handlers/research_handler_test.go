package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lexresearch-backend/corpus"
	"lexresearch-backend/models"
	"lexresearch-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(r Researcher) *gin.Engine {
	engine := gin.New()
	NewResearchHandler(r, nil).RegisterRoutes(engine.Group("/api"))
	return engine
}

func newService() *service.ResearchService {
	return service.NewResearchService(service.WithCorpusSource(corpus.StaticSource{
		{
			"id":                  "harlow",
			"title":               "Harlow v. CloudCo",
			"citation":            "Harlow v. CloudCo, 910 F.3d 55",
			"summary":             "Liability cap in a cloud service agreement upheld.",
			"tags":                []interface{}{"liability"},
			"precedent_direction": "supports_claim",
		},
		{
			"id":      "marsh",
			"title":   "In re Marriage of Marsh",
			"summary": "Custody order modified after relocation.",
		},
	}))
}

func do(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSearch(t *testing.T) {
	engine := newRouter(newService())

	w := do(t, engine, "/api/search", `{"query":"cloud liability","top_k":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	var data SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "cloud liability", data.Query)
	assert.Equal(t, "lexical_only", data.Method)
	require.Len(t, data.Documents, 1)
	assert.Equal(t, "harlow", data.Documents[0].ID)
	assert.Equal(t, []string{"cloud", "liability"}, data.Documents[0].MatchedTerms)
}

func TestResearch(t *testing.T) {
	engine := newRouter(newService())

	w := do(t, engine, "/api/research", `{"query":"liability cap in a cloud service agreement"}`)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "fallback", data["source"])
	assert.Contains(t, data["report"], "LIMITATION OF LIABILITY")
	assert.Contains(t, data, "confidence_score")
	assert.Contains(t, data, "knowledge_graph")
	assert.Contains(t, data, "precedent_analysis")
	assert.NotContains(t, data, "Prompt")
}

func TestInvalidJSON(t *testing.T) {
	engine := newRouter(newService())

	for _, path := range []string{"/api/search", "/api/research", "/api/research/stream"} {
		w := do(t, engine, path, `{"query":`)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	}
}

type failingResearcher struct {
	err error
}

func (f failingResearcher) Search(ctx context.Context, query string, topK int) (models.RetrievalResult, error) {
	return models.RetrievalResult{}, f.err
}

func (f failingResearcher) Research(ctx context.Context, req service.ResearchRequest) (*service.ResearchResult, error) {
	return nil, f.err
}

func (f failingResearcher) ResearchStream(ctx context.Context, query string, topK int, emit func(service.StreamEvent) error) error {
	return f.err
}

func TestErrorCodes(t *testing.T) {
	engine := newRouter(failingResearcher{err: service.ErrBuildFailed})
	w := do(t, engine, "/api/search", `{"query":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SEARCH_FAILED", decode(t, w).Error.Code)

	w = do(t, engine, "/api/research", `{"query":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "RESEARCH_FAILED", decode(t, w).Error.Code)

	aborted := newRouter(failingResearcher{err: errors.Join(service.ErrGenerationAbort, context.Canceled)})
	w = do(t, aborted, "/api/research", `{"query":"x"}`)
	assert.Equal(t, 499, w.Code)
	assert.Equal(t, "REQUEST_CANCELLED", decode(t, w).Error.Code)
}

func TestResearchStream(t *testing.T) {
	engine := newRouter(newService())

	w := do(t, engine, "/api/research/stream", `{"query":"custody relocation"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))

	body := w.Body.String()
	assert.Contains(t, body, "event:context")
	assert.Contains(t, body, "event:chunk")
	assert.Contains(t, body, "event:done")
	assert.Less(t, strings.Index(body, "event:context"), strings.Index(body, "event:done"))
}

func TestResearchStream_Error(t *testing.T) {
	engine := newRouter(failingResearcher{err: service.ErrBuildFailed})

	w := do(t, engine, "/api/research/stream", `{"query":"x"}`)
	assert.Contains(t, w.Body.String(), "event:error")
}
