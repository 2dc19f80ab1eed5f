package index

const (
	denseWeight   = 0.55
	lexicalWeight = 0.45
)

// Ranking methods reported by Blend
const (
	MethodHybrid      = "hybrid"
	MethodLexicalOnly = "lexical_only"
	MethodDenseOnly   = "dense_only"
	MethodNone        = "none"
)

// Blended is one document's combined score with its normalized components
type Blended struct {
	ID      string
	Score   float64
	Lexical float64
	Dense   float64
}

// Blend max-normalizes both score families and combines them for every id in
// order. When only one family has scores the blend is that family alone.
// The returned slice follows order and is not sorted.
func Blend(order []string, lexical, dense map[string]float64) ([]Blended, string) {
	lex := maxNormalize(lexical)
	den := maxNormalize(dense)

	method := MethodNone
	switch {
	case len(lex) > 0 && len(den) > 0:
		method = MethodHybrid
	case len(lex) > 0:
		method = MethodLexicalOnly
	case len(den) > 0:
		method = MethodDenseOnly
	}
	if method == MethodNone {
		return nil, method
	}

	out := make([]Blended, 0, len(order))
	for _, id := range order {
		_, inLex := lex[id]
		_, inDen := den[id]
		if !inLex && !inDen {
			continue
		}
		b := Blended{ID: id, Lexical: lex[id], Dense: den[id]}
		switch method {
		case MethodHybrid:
			b.Score = denseWeight*b.Dense + lexicalWeight*b.Lexical
		case MethodLexicalOnly:
			b.Score = b.Lexical
		default:
			b.Score = b.Dense
		}
		out = append(out, b)
	}
	return out, method
}

// maxNormalize divides by the family maximum. A non-positive maximum leaves
// every score at zero; negative similarities clamp to zero.
func maxNormalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	var top float64
	for _, s := range scores {
		if s > top {
			top = s
		}
	}
	for id, s := range scores {
		if top <= 0 || s <= 0 {
			out[id] = 0
			continue
		}
		out[id] = s / top
	}
	return out
}
