package index

import (
	"fmt"
	"math"
)

// DenseIndex holds one unit-length embedding per document
type DenseIndex struct {
	ids  []string
	rows [][]float32
	dim  int
}

// NewDenseIndex normalizes and stores vectors; vectors[i] embeds ids[i]
func NewDenseIndex(ids []string, vectors [][]float32) (*DenseIndex, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("dense index: %d ids but %d vectors", len(ids), len(vectors))
	}
	idx := &DenseIndex{ids: ids, rows: make([][]float32, len(vectors))}
	for i, v := range vectors {
		if i == 0 {
			idx.dim = len(v)
		} else if len(v) != idx.dim {
			return nil, fmt.Errorf("dense index: vector %d has dimension %d, want %d", i, len(v), idx.dim)
		}
		idx.rows[i] = Normalize(v)
	}
	return idx, nil
}

// Dimensions returns the embedding width
func (idx *DenseIndex) Dimensions() int {
	return idx.dim
}

// Score returns the cosine similarity of every document to queryVec. A nil
// index, an empty vector or a dimension mismatch yields an empty map.
func (idx *DenseIndex) Score(queryVec []float32) map[string]float64 {
	if idx == nil || len(queryVec) == 0 || len(queryVec) != idx.dim {
		return map[string]float64{}
	}
	q := Normalize(queryVec)

	scores := make(map[string]float64, len(idx.ids))
	for i, id := range idx.ids {
		var dot float64
		for j, x := range idx.rows[i] {
			dot += float64(x) * float64(q[j])
		}
		scores[id] = dot
	}
	return scores
}

// Normalize returns a unit-length copy of v. Zero vectors are returned as zeros.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
