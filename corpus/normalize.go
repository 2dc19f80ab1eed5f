package corpus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lexresearch-backend/models"

	"golang.org/x/crypto/blake2b"
)

// Alias lists, highest priority first.
var (
	idKeys           = []string{"id", "doc_id", "case_id", "title", "citation"}
	titleKeys        = []string{"title", "name"}
	citationKeys     = []string{"citation"}
	jurisdictionKeys = []string{"jurisdiction", "court"}
	yearKeys         = []string{"year", "decision_year"}
	directionKeys    = []string{"precedent_direction", "outcome_category", "direction"}
	bodyPartKeys     = []string{"facts", "analysis", "holding", "summary"}
	bodyKeys         = []string{"body", "text"}
	relatedKeys      = []string{"related_authorities", "related_cases", "related"}
	kindKeys         = []string{"kind", "type", "source_type"}
)

const (
	untitledAuthority   = "Untitled Authority"
	unknownCitation     = "Unknown citation"
	unknownJurisdiction = "Unknown jurisdiction"
)

// Normalize maps a loosely-typed record onto an Authority. Missing fields fall
// back to fixed defaults, so every record yields an authority.
func Normalize(raw models.RawRecord) *models.Authority {
	summary := stringField(raw, "summary")

	a := &models.Authority{
		ID:                 firstString(raw, idKeys...),
		Title:              orDefault(firstString(raw, titleKeys...), untitledAuthority),
		Citation:           firstCitation(raw),
		Jurisdiction:       orDefault(firstString(raw, jurisdictionKeys...), unknownJurisdiction),
		Year:               firstYear(raw, yearKeys...),
		Summary:            summary,
		Body:               composeBody(raw, summary),
		Issues:             stringList(raw["issues"]),
		Statutes:           stringList(raw["statutes"]),
		Tags:               stringList(raw["tags"]),
		Outcome:            stringField(raw, "outcome"),
		RelatedAuthorities: firstList(raw, relatedKeys...),
	}
	if a.ID == "" {
		a.ID = contentID(summary)
	}

	if len(a.Statutes) == 0 {
		a.Statutes = ExtractStatutes(a.Body)
	}

	a.Direction, _ = models.ParseDirection(strings.ToLower(firstString(raw, directionKeys...)))
	a.Cues = DetectCues(a.Body)

	a.Kind = parseKind(firstString(raw, kindKeys...))
	if a.Kind == "" {
		a.Kind = InferKind(a.Citation, a.Body)
	}

	return a
}

// contentID derives a stable id from the summary text
func contentID(summary string) string {
	if summary == "" {
		summary = "fallback"
	}
	sum := blake2b.Sum256([]byte(summary))
	return "case_" + hex.EncodeToString(sum[:8])
}

func composeBody(raw models.RawRecord, summary string) string {
	parts := make([]string, 0, len(bodyPartKeys))
	for _, key := range bodyPartKeys {
		if part := strings.TrimSpace(stringField(raw, key)); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}
	if body := firstString(raw, bodyKeys...); body != "" {
		return body
	}
	return summary
}

func firstCitation(raw models.RawRecord) string {
	if c := firstString(raw, citationKeys...); c != "" {
		return c
	}
	if list := stringList(raw["citations"]); len(list) > 0 {
		return list[0]
	}
	return unknownCitation
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// firstString returns the first non-empty scalar found under keys
func firstString(raw models.RawRecord, keys ...string) string {
	for _, key := range keys {
		if s := scalarString(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

func firstList(raw models.RawRecord, keys ...string) []string {
	for _, key := range keys {
		if list := stringList(raw[key]); len(list) > 0 {
			return list
		}
	}
	return []string{}
}

func stringField(raw models.RawRecord, key string) string {
	s, _ := raw[key].(string)
	return s
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// stringList accepts a list of scalars or a single string
func stringList(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range t {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func firstYear(raw models.RawRecord, keys ...string) *int {
	for _, key := range keys {
		if y, ok := parseYear(raw[key]); ok {
			return &y
		}
	}
	return nil
}

func parseYear(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

func parseKind(s string) models.AuthorityKind {
	switch strings.ToLower(s) {
	case "case", "precedent_case", "appeal_decision", "decision":
		return models.KindCase
	case "statute", "regulation", "code":
		return models.KindStatute
	case "guidance", "policy", "memo":
		return models.KindGuidance
	}
	return ""
}

// Describe is a short log-friendly identifier for an authority
func Describe(a *models.Authority) string {
	return fmt.Sprintf("%s (%s)", a.ID, a.Citation)
}
