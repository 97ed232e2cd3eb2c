// Package ranking orders stored vectors by similarity to a query vector.
// Stores that keep vectors outside a native index (memory, SQLite) share it
// so every backend ranks and breaks ties the same way.
package ranking

import (
	"sort"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// Candidate is a stored document with its vector and insertion sequence.
type Candidate struct {
	Document domain.Document
	Vector   []float32
	Seq      int64
}

// TopK returns at most k documents by descending similarity under metric.
// Equal similarities keep ascending Seq (insertion order).
// Callers validate k and vector dimensions.
func TopK(metric domain.DistanceMetric, query []float32, candidates []Candidate, k int) []domain.Document {
	type scored struct {
		candidate  *Candidate
		similarity float64
	}

	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		ranked = append(ranked, scored{
			candidate:  &candidates[i],
			similarity: metric.Similarity(query, candidates[i].Vector),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].similarity != ranked[j].similarity {
			return ranked[i].similarity > ranked[j].similarity
		}
		return ranked[i].candidate.Seq < ranked[j].candidate.Seq
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}

	results := make([]domain.Document, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, r.candidate.Document.WithSimilarity(r.similarity))
	}
	return results
}

// CheckDimensions returns domain.ErrDimensionMismatch unless vector is
// non-empty and, when want is non-zero, has exactly want entries.
func CheckDimensions(vector []float32, want int) error {
	if len(vector) == 0 || (want != 0 && len(vector) != want) {
		return domain.ErrDimensionMismatch
	}
	return nil
}
