package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"lexresearch-backend/models"
	"lexresearch-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Researcher is the part of the research service the HTTP layer needs
type Researcher interface {
	Search(ctx context.Context, query string, topK int) (models.RetrievalResult, error)
	Research(ctx context.Context, req service.ResearchRequest) (*service.ResearchResult, error)
	ResearchStream(ctx context.Context, query string, topK int, emit func(service.StreamEvent) error) error
}

// ResearchHandler handles HTTP requests for search and research
type ResearchHandler struct {
	researcher Researcher
	logger     *zap.Logger
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(researcher Researcher, logger *zap.Logger) *ResearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResearchHandler{researcher: researcher, logger: logger}
}

// RegisterRoutes mounts the research endpoints under api
func (h *ResearchHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/search", h.Search)
	api.POST("/research", h.Research)
	api.POST("/research/stream", h.ResearchStream)
}

// SearchRequest represents the request body for a search
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// SearchResponse is the data payload of a search
type SearchResponse struct {
	Query     string                `json:"query"`
	Method    string                `json:"method"`
	Documents []models.DocumentView `json:"documents"`
}

// ResearchRequest represents the request body for research
type ResearchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	MaxResults int    `json:"max_results"`
}

// Search handles POST /api/search
func (h *ResearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.researcher.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		h.logger.Error("search failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": SearchResponse{
			Query:     req.Query,
			Method:    result.Method,
			Documents: service.SerializeDocuments(result, len(result.Items)),
		},
	})
}

// Research handles POST /api/research
func (h *ResearchHandler) Research(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.researcher.Research(c.Request.Context(), service.ResearchRequest{
		Query:      req.Query,
		TopK:       req.TopK,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		status, code := http.StatusInternalServerError, "RESEARCH_FAILED"
		if errors.Is(err, service.ErrGenerationAbort) {
			status, code = 499, "REQUEST_CANCELLED"
		}
		h.logger.Error("research failed", zap.String("code", code), zap.Error(err))
		respondError(c, status, code, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ResearchStream handles POST /api/research/stream as server-sent events
func (h *ResearchHandler) ResearchStream(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	err := h.researcher.ResearchStream(c.Request.Context(), req.Query, req.TopK, func(ev service.StreamEvent) error {
		c.SSEvent(ev.Name, ev.Data)
		c.Writer.Flush()
		return c.Request.Context().Err()
	})
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("research stream ended with error", zap.Error(err))
		c.SSEvent("error", gin.H{"code": "RESEARCH_FAILED", "message": err.Error()})
		c.Writer.Flush()
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
