package service

import (
	"strings"
	"testing"
	"time"

	"lexresearch-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderContextBlock(t *testing.T) {
	r := models.RetrievalResult{Items: []models.ScoredAuthority{{
		Authority: &models.Authority{
			ID: "a", Title: "Alpha", Citation: "1 A 1", Jurisdiction: "Somewhere",
			Tags: []string{"x", "y"}, Summary: "Alpha summary.", Direction: models.DirectionCautionary,
			Cues: []string{"overruled by"},
		},
		Score:        0.876,
		MatchedTerms: []string{"alpha"},
	}}}
	kg := models.KnowledgeGraph{Insights: []string{"Dominant themes: x, y."}}
	p := models.PrecedentAnalysis{Summary: "Cautionary or compliance warnings: 1 case(s)."}

	block := RenderContextBlock("alpha query", r, kg, p)
	assert.Contains(t, block, "Query Focus: alpha query")
	assert.Contains(t, block, "1. Alpha (1 A 1) - Score 0.88, Direction: cautionary")
	assert.Contains(t, block, "Jurisdiction: Somewhere | Year: Unknown")
	assert.Contains(t, block, "Tags: x, y")
	assert.NotContains(t, block, "Statutes:")
	assert.Contains(t, block, "Matched Terms: alpha")
	assert.Contains(t, block, "Precedent Cues: overruled by")
	assert.Contains(t, block, "- Dominant themes: x, y.")
	assert.True(t, strings.HasSuffix(block, p.Summary))
}

func TestRenderContextBlock_Empty(t *testing.T) {
	block := RenderContextBlock("q", models.RetrievalResult{}, models.KnowledgeGraph{}, models.PrecedentAnalysis{})
	assert.Equal(t, "Query Focus: q\n\nNo authorities retrieved by the hybrid engine.", block)
}

func TestBuildPrompt_ListsSections(t *testing.T) {
	prompt := BuildPrompt("q", "CONTEXT")
	assert.Contains(t, prompt, "Query: \"q\"")
	assert.Contains(t, prompt, "CONTEXT")
	for i, section := range reportSections {
		assert.Contains(t, prompt, section.heading, "section %d", i)
	}
	assert.Contains(t, prompt, "8. NEXT STEPS")
}

func TestFormatReport(t *testing.T) {
	rc := &ResearchContext{
		KnowledgeGraph: models.KnowledgeGraph{Insights: []string{noGraphInsight}},
		Precedent:      models.PrecedentAnalysis{Summary: "No decisive precedent signals identified."},
	}
	report := FormatReport("q", "  BODY\n", rc, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(report, "LEGAL RESEARCH ANALYSIS\nQuery: q\nDate: December 01, 2024\n\nBODY\n\nAPPENDIX A"))
	assert.Contains(t, report, "No documents retrieved by the hybrid research engine.")
	assert.Contains(t, report, "APPENDIX B - Knowledge Graph Insights\n- "+noGraphInsight)
	assert.Contains(t, report, "APPENDIX C - Precedent Signals\nNo decisive precedent signals identified.\n")
	assert.True(t, strings.HasSuffix(report, "\n---\n"+disclaimer))
}

const noGraphInsight = "No significant graph patterns detected."
