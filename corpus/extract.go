package corpus

import (
	"regexp"
	"sort"
	"strings"
)

var statutePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s+U\.S\.C\.\s+§+\s?\d+[a-zA-Z\-]*`),
	regexp.MustCompile(`\b\d+\s+C\.F\.R\.\s+§+\s?[\d.]+[a-zA-Z\-]*`),
	regexp.MustCompile(`\bSection\s\d+[a-zA-Z\-]*\b`),
}

// ExtractStatutes returns statute references found in text, in order of first appearance
func ExtractStatutes(text string) []string {
	type hit struct {
		pos  int
		text string
	}
	var hits []hit
	for _, re := range statutePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{pos: loc[0], text: strings.TrimRight(text[loc[0]:loc[1]], ".")})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := []string{}
	seen := make(map[string]bool)
	for _, h := range hits {
		if seen[h.text] {
			continue
		}
		seen[h.text] = true
		out = append(out, h.text)
	}
	return out
}

// precedentCue matches phrases courts use to signal how a decision treats earlier authority
var precedentCue = regexp.MustCompile(`(?i)\b(as held in|in accordance with|distinguished in|contrary to|unlike the facts|overruled by|abrogated by|no longer good law)\b`)

// DetectCues returns the lower-cased precedent cue phrases in text, in order of
// first appearance. Cues annotate an authority; they do not set its direction.
func DetectCues(text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range precedentCue.FindAllString(text, -1) {
		cue := strings.ToLower(m)
		if seen[cue] {
			continue
		}
		seen[cue] = true
		out = append(out, cue)
	}
	return out
}
