package models

// ScoredAuthority is one ranked hit. Scores are per-family max-normalized
// and the blended Score lies in [0, 1].
type ScoredAuthority struct {
	Authority    *Authority `json:"-"`
	Score        float64    `json:"score"`
	LexicalScore float64    `json:"lexical_score"`
	DenseScore   float64    `json:"dense_score"`
	Snippet      string     `json:"snippet"`
	MatchedTerms []string   `json:"matched_terms"`
}

// RetrievalResult is the ordered output of a hybrid search
type RetrievalResult struct {
	Query  string            `json:"query"`
	Items  []ScoredAuthority `json:"items"`
	Method string            `json:"method"` // "hybrid", "lexical_only", "dense_only" or "none"
}

// IDs returns the authority ids of the hits in rank order
func (r RetrievalResult) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.Authority.ID)
	}
	return ids
}

// TopScore returns the blended score of the first hit, or 0
func (r RetrievalResult) TopScore() float64 {
	if len(r.Items) == 0 {
		return 0
	}
	return r.Items[0].Score
}
