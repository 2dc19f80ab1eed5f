package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Direction is the stance an authority takes toward the claim under research
type Direction string

const (
	DirectionSupports   Direction = "supports_claim"
	DirectionContrasts  Direction = "contrasts_claim"
	DirectionCautionary Direction = "cautionary"
	DirectionNeutral    Direction = "neutral"
)

// Directions lists every direction in reporting order
var Directions = []Direction{
	DirectionSupports,
	DirectionContrasts,
	DirectionCautionary,
	DirectionNeutral,
}

// ParseDirection maps free text onto a Direction. Unknown values are neutral.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionSupports, DirectionContrasts, DirectionCautionary, DirectionNeutral:
		return Direction(s), true
	}
	return DirectionNeutral, false
}

// Label returns the human-readable bucket heading for the direction
func (d Direction) Label() string {
	switch d {
	case DirectionSupports:
		return "Supporting authorities or aligned precedent"
	case DirectionContrasts:
		return "Contrary or limiting precedent"
	case DirectionCautionary:
		return "Cautionary or compliance warnings"
	default:
		return "Background and contextual authorities"
	}
}

// AuthorityKind distinguishes cases from statutes and guidance material
type AuthorityKind string

const (
	KindCase     AuthorityKind = "case"
	KindStatute  AuthorityKind = "statute"
	KindGuidance AuthorityKind = "guidance"
)

// Authority is a normalized legal source (case, statute or guidance document).
// Authorities are immutable once loaded into a store.
type Authority struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Citation           string        `json:"citation"`
	Jurisdiction       string        `json:"jurisdiction"`
	Year               *int          `json:"year,omitempty"`
	Kind               AuthorityKind `json:"kind"`
	Summary            string        `json:"summary"`
	Body               string        `json:"body"`
	Issues             []string      `json:"issues"`
	Statutes           []string      `json:"statutes"`
	Tags               []string      `json:"tags"`
	Direction          Direction     `json:"precedent_direction"`
	Outcome            string        `json:"outcome"`
	RelatedAuthorities []string      `json:"related_authorities"`
	Cues               []string      `json:"cues,omitempty"`
}

// SearchText is the text matched-term extraction runs over
func (a *Authority) SearchText() string {
	return a.Summary + " " + a.Body
}

// RawRecord is a loosely-typed authority record as stored in JSONB or corpus files
type RawRecord map[string]interface{}

// Value implements driver.Valuer for JSONB
func (r RawRecord) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *RawRecord) Scan(value interface{}) error {
	if value == nil {
		*r = RawRecord{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case map[string]interface{}:
		*r = RawRecord(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RawRecord", value)
	}

	return json.Unmarshal(bytes, r)
}

// Snippet returns the summary (or body when there is no summary), cut to at
// most maxChars characters with a trailing "..." when truncated.
func (a *Authority) Snippet(maxChars int) string {
	content := a.Summary
	if content == "" {
		content = a.Body
	}
	runes := []rune(content)
	if len(runes) <= maxChars {
		return content
	}
	if maxChars <= 3 {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-3]) + "..."
}
