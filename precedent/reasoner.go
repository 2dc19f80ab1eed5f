package precedent

import (
	"fmt"
	"strings"

	"lexresearch-backend/models"
)

const noDecisiveSignal = "No decisive precedent signals identified; treat retrieval as contextual guidance."

// headline lists the directions reported in the summary; neutral is never a headline
var headline = []models.Direction{
	models.DirectionSupports,
	models.DirectionContrasts,
	models.DirectionCautionary,
}

// Analyze buckets the retrieved authorities by precedent direction and
// summarizes the non-neutral buckets
func Analyze(query string, result models.RetrievalResult) models.PrecedentAnalysis {
	buckets := make(map[models.Direction][]models.BucketEntry, len(models.Directions))
	for _, d := range models.Directions {
		buckets[d] = []models.BucketEntry{}
	}

	for _, item := range result.Items {
		a := item.Authority
		direction, _ := models.ParseDirection(strings.ToLower(string(a.Direction)))
		buckets[direction] = append(buckets[direction], models.BucketEntry{
			ID:       a.ID,
			Title:    a.Title,
			Citation: a.Citation,
			Summary:  a.Summary,
			Score:    item.Score,
			Outcome:  a.Outcome,
		})
	}

	lines := []string{}
	for _, d := range headline {
		if n := len(buckets[d]); n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d case(s).", d.Label(), n))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, noDecisiveSignal)
	}

	return models.PrecedentAnalysis{
		Query:   query,
		Summary: strings.Join(lines, " "),
		Buckets: buckets,
	}
}
