package graph

import (
	"fmt"
	"sort"
	"strings"

	"lexresearch-backend/models"
)

const noPatterns = "No significant graph patterns detected."

// counter tallies keys and remembers first-seen order for tie breaking
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// mostCommon returns up to n keys by count, ties in first-seen order; n <= 0 returns all
func (c *counter) mostCommon(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// Insights summarizes tags, statutes and precedent directions across the focus authorities.
// It always returns at least one line.
func Insights(focus []*models.Authority) []string {
	tags, statutes, directions := newCounter(), newCounter(), newCounter()
	for _, a := range focus {
		for _, tag := range a.Tags {
			tags.add(strings.ToLower(tag))
		}
		for _, statute := range a.Statutes {
			statutes.add(strings.ToLower(statute))
		}
		direction := a.Direction
		if direction == "" {
			direction = models.DirectionNeutral
		}
		directions.add(string(direction))
	}

	insights := []string{}
	if len(tags.order) > 0 {
		insights = append(insights, fmt.Sprintf("Dominant themes: %s.", strings.Join(tags.mostCommon(3), ", ")))
	}
	if len(statutes.order) > 0 {
		insights = append(insights, fmt.Sprintf("Frequently cited statutes or regulations: %s.",
			strings.Join(statutes.mostCommon(3), ", ")))
	}
	if len(directions.order) > 0 {
		parts := make([]string, 0, len(directions.order))
		for _, d := range directions.mostCommon(0) {
			parts = append(parts, fmt.Sprintf("%s:%d", d, directions.counts[d]))
		}
		insights = append(insights, fmt.Sprintf("Precedent signals - %s.", strings.Join(parts, ", ")))
	}
	if len(insights) == 0 {
		insights = append(insights, noPatterns)
	}
	return insights
}
