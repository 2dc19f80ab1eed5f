package index

import (
	"sort"
	"strings"
)

// Tokenize lower-cases text and splits it on whitespace. No stemming and no
// punctuation stripping: "contract," and "contract" are different tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// MatchedTerms returns the query tokens longer than two characters that also
// occur in docText, sorted and deduplicated.
func MatchedTerms(query, docText string) []string {
	docTerms := make(map[string]struct{})
	for _, tok := range Tokenize(docText) {
		docTerms[tok] = struct{}{}
	}

	seen := make(map[string]struct{})
	terms := []string{}
	for _, tok := range Tokenize(query) {
		if len(tok) <= 2 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		if _, ok := docTerms[tok]; ok {
			seen[tok] = struct{}{}
			terms = append(terms, tok)
		}
	}
	sort.Strings(terms)
	return terms
}
