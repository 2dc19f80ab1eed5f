package service

import (
	"math"

	"lexresearch-backend/models"
)

const (
	emptyConfidence = 0.35
	maxConfidence   = 0.95
)

// EstimateConfidence scores a result set from its best blended score and its
// size. It does not depend on how the report body was produced.
func EstimateConfidence(r models.RetrievalResult) float64 {
	if len(r.Items) == 0 {
		return emptyConfidence
	}
	top := 0.0
	for _, item := range r.Items {
		top = math.Max(top, item.Score)
	}
	coverage := math.Min(float64(len(r.Items))/10.0, 0.2)
	return math.Min(0.6+0.3*top+coverage, maxConfidence)
}

// SerializeDocuments converts hits into their API form, rounding scores to
// four decimals. maxResults < 1 uses DefaultMaxResults.
func SerializeDocuments(r models.RetrievalResult, maxResults int) []models.DocumentView {
	if maxResults < 1 {
		maxResults = DefaultMaxResults
	}
	docs := make([]models.DocumentView, 0, len(r.Items))
	for i, item := range r.Items {
		if i == maxResults {
			break
		}
		a := item.Authority
		docs = append(docs, models.DocumentView{
			ID:                 a.ID,
			Score:              round4(item.Score),
			LexicalScore:       round4(item.LexicalScore),
			DenseScore:         round4(item.DenseScore),
			Content:            item.Snippet,
			Title:              a.Title,
			Citation:           a.Citation,
			Jurisdiction:       a.Jurisdiction,
			Year:               a.Year,
			Tags:               a.Tags,
			Statutes:           a.Statutes,
			PrecedentDirection: a.Direction,
			Outcome:            a.Outcome,
			MatchedTerms:       item.MatchedTerms,
		})
	}
	return docs
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
