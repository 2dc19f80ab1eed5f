package corpus

import (
	"regexp"
	"strings"

	"lexresearch-backend/models"
)

var (
	statuteCitation = regexp.MustCompile(`\b(u\.s\.c|c\.f\.r|code|act|regulations?)\b`)
	caseCitation    = regexp.MustCompile(`\b(v\.|vs\.|matter of|in re)\s`)
)

// InferKind classifies an authority from its citation and text
func InferKind(citation, body string) models.AuthorityKind {
	citationLower := strings.ToLower(citation)
	bodyLower := strings.ToLower(body)

	if caseCitation.MatchString(citationLower) {
		return models.KindCase
	}
	if statuteCitation.MatchString(citationLower) {
		return models.KindStatute
	}
	if strings.Contains(citationLower, "guidance") || strings.Contains(bodyLower, "guidance") ||
		strings.Contains(bodyLower, "policy memorandum") {
		return models.KindGuidance
	}

	// Fallback: analyze content
	if strings.Contains(bodyLower, "regulation") || strings.Contains(bodyLower, "cfr") {
		return models.KindStatute
	}
	return models.KindCase
}
