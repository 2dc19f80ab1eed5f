package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexresearch-backend/models"
)

const (
	reportDateLayout = "January 02, 2006"
	disclaimer       = "This research analysis is provided for informational purposes only and does not constitute legal advice."
)

// RenderContextBlock serializes a query and its retrieval, graph and precedent
// results into the text block handed to the generative backend
func RenderContextBlock(query string, r models.RetrievalResult, kg models.KnowledgeGraph, p models.PrecedentAnalysis) string {
	if len(r.Items) == 0 {
		return fmt.Sprintf("Query Focus: %s\n\nNo authorities retrieved by the hybrid engine.", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query Focus: %s\n\nRetrieved Authorities:\n", query)
	for i, item := range r.Items {
		a := item.Authority
		fmt.Fprintf(&sb, "%d. %s (%s) - Score %.2f, Direction: %s\n", i+1, a.Title, a.Citation, item.Score, a.Direction)
		fmt.Fprintf(&sb, "   Jurisdiction: %s | Year: %s\n", a.Jurisdiction, formatYear(a.Year))
		if len(a.Tags) > 0 {
			sb.WriteString("   Tags: " + strings.Join(a.Tags, ", ") + "\n")
		}
		if len(a.Statutes) > 0 {
			sb.WriteString("   Statutes: " + strings.Join(a.Statutes, ", ") + "\n")
		}
		if len(item.MatchedTerms) > 0 {
			sb.WriteString("   Matched Terms: " + strings.Join(item.MatchedTerms, ", ") + "\n")
		}
		if len(a.Cues) > 0 {
			sb.WriteString("   Precedent Cues: " + strings.Join(a.Cues, ", ") + "\n")
		}
		sb.WriteString("   Key Insight: " + a.Summary + "\n")
	}

	sb.WriteString("\nKnowledge Graph Highlights:\n")
	for _, insight := range kg.Insights {
		sb.WriteString("- " + insight + "\n")
	}
	sb.WriteString("\nPrecedent Reasoning Summary:\n")
	sb.WriteString(p.Summary)
	return sb.String()
}

// BuildPrompt wraps the context block with the report instructions
func BuildPrompt(query, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString("You are a legal research strategist. Analyse the query below using the retrieved authorities, ")
	sb.WriteString("hybrid search signals, and knowledge graph insights.\n\n")
	fmt.Fprintf(&sb, "Query: %q\n\n", query)
	sb.WriteString("Context from retrieval engine:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nDeliverable requirements:\n")
	for i, section := range reportSections {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, section.heading, section.instruction)
	}
	sb.WriteString("\nIncorporate precedent signalling (supporting, contrasting, cautionary) and note data gaps. ")
	sb.WriteString("Write in a professional tone suitable for in-house counsel.")
	return sb.String()
}

var reportSections = []struct{ heading, instruction string }{
	{"EXECUTIVE SUMMARY", "concise synopsis tied to the retrieved authorities."},
	{"KEY LEGAL PRINCIPLES", "cite statutes, regulations, or doctrinal rules surfaced."},
	{"RELEVANT LEGAL CONSIDERATIONS", "highlight jurisdictional differences and procedural posture."},
	{"RISK ASSESSMENT", "categorise risk levels with rationale grounded in precedent."},
	{"COMPLIANCE REQUIREMENTS", "link concrete obligations to governing instruments."},
	{"PRACTICAL RECOMMENDATIONS", "actionable steps referencing the retrieved authorities."},
	{"CASE LAW REFERENCES", "cite the most relevant cases with short parentheticals."},
	{"NEXT STEPS", "strategic follow-up actions."},
}

// FormatReport wraps a body with the fixed header, appendix and disclaimer.
// Generated and template bodies go through the same wrapper.
func FormatReport(query, body string, rc *ResearchContext, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("LEGAL RESEARCH ANALYSIS\n")
	sb.WriteString("Query: " + query + "\n")
	sb.WriteString("Date: " + now.Format(reportDateLayout) + "\n\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString(renderAppendix(rc))
	sb.WriteString("\n---\n")
	sb.WriteString(disclaimer)
	return sb.String()
}

func renderAppendix(rc *ResearchContext) string {
	var sb strings.Builder
	sb.WriteString("\n\nAPPENDIX A - Retrieved Authorities\n")
	if len(rc.Retrieval.Items) == 0 {
		sb.WriteString("No documents retrieved by the hybrid research engine.\n")
	}
	for _, item := range rc.Retrieval.Items {
		a := item.Authority
		fmt.Fprintf(&sb, "- %s (%s) | Score %.2f\n", a.Title, a.Citation, item.Score)
		if a.Summary != "" {
			sb.WriteString("  Summary: " + a.Summary + "\n")
		}
	}

	sb.WriteString("\nAPPENDIX B - Knowledge Graph Insights\n")
	for _, insight := range rc.KnowledgeGraph.Insights {
		sb.WriteString("- " + insight + "\n")
	}

	sb.WriteString("\nAPPENDIX C - Precedent Signals\n")
	sb.WriteString(rc.Precedent.Summary + "\n")
	return sb.String()
}

func formatYear(year *int) string {
	if year == nil {
		return "Unknown"
	}
	return strconv.Itoa(*year)
}
