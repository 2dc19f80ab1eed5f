package models

// BucketEntry is a compact reference to an authority inside a precedent bucket
type BucketEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Citation string  `json:"citation"`
	Summary  string  `json:"summary"`
	Score    float64 `json:"score"`
	Outcome  string  `json:"outcome,omitempty"`
}

// PrecedentAnalysis groups retrieved authorities by precedent direction
type PrecedentAnalysis struct {
	Query   string                      `json:"query"`
	Summary string                      `json:"summary"`
	Buckets map[Direction][]BucketEntry `json:"buckets"`
}

// ReportSource records whether the report body came from the generative backend
type ReportSource string

const (
	SourceLLM      ReportSource = "llm"
	SourceFallback ReportSource = "fallback"
)

// DocumentView is the serialized form of a retrieved authority
type DocumentView struct {
	ID                 string    `json:"id"`
	Score              float64   `json:"score"`
	LexicalScore       float64   `json:"lexical_score"`
	DenseScore         float64   `json:"dense_score"`
	Content            string    `json:"content"`
	Title              string    `json:"title"`
	Citation           string    `json:"citation"`
	Jurisdiction       string    `json:"jurisdiction"`
	Year               *int      `json:"year,omitempty"`
	Tags               []string  `json:"tags"`
	Statutes           []string  `json:"statutes"`
	PrecedentDirection Direction `json:"precedent_direction"`
	Outcome            string    `json:"outcome,omitempty"`
	MatchedTerms       []string  `json:"matched_terms"`
}
