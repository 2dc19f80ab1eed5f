package index

import "math"

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// LexicalIndex is an Okapi BM25 index over a fixed, ordered document set
type LexicalIndex struct {
	ids       []string
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewLexicalIndex indexes bodies; ids[i] names bodies[i]
func NewLexicalIndex(ids, bodies []string) *LexicalIndex {
	idx := &LexicalIndex{
		ids:       ids,
		termFreqs: make([]map[string]int, len(bodies)),
		docLens:   make([]int, len(bodies)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	total := 0
	for i, body := range bodies {
		tokens := Tokenize(body)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			docFreq[tok]++
		}
		idx.termFreqs[i] = tf
		idx.docLens[i] = len(tokens)
		total += len(tokens)
	}

	n := float64(len(bodies))
	if len(bodies) > 0 {
		idx.avgDocLen = float64(total) / n
	}
	for tok, df := range docFreq {
		// ln(1 + ...) keeps idf positive even for terms in most documents
		idx.idf[tok] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}
	return idx
}

// Len returns the number of indexed documents
func (idx *LexicalIndex) Len() int {
	return len(idx.ids)
}

// Score returns a raw BM25 score for every document. A blank query yields an empty map.
func (idx *LexicalIndex) Score(query string) map[string]float64 {
	tokens := Tokenize(query)
	if len(tokens) == 0 || len(idx.ids) == 0 {
		return map[string]float64{}
	}

	avg := idx.avgDocLen
	if avg == 0 {
		avg = 1
	}

	scores := make(map[string]float64, len(idx.ids))
	for i, id := range idx.ids {
		tf := idx.termFreqs[i]
		norm := bm25K1 * (1 - bm25B + bm25B*float64(idx.docLens[i])/avg)
		var s float64
		for _, tok := range tokens {
			f := float64(tf[tok])
			if f == 0 {
				continue
			}
			s += idx.idf[tok] * f * (bm25K1 + 1) / (f + norm)
		}
		scores[id] = s
	}
	return scores
}
