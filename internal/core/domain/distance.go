package domain

import "math"

// DistanceMetric is the vector distance a store ranks by.
// It is fixed when the store is constructed.
type DistanceMetric string

// Available distance metrics.
const (
	// DistanceCosine is 1 - cosine similarity.
	DistanceCosine DistanceMetric = "cosine"

	// DistanceL2 is the Euclidean distance.
	DistanceL2 DistanceMetric = "l2"
)

// IsValid returns true if the metric is recognised.
func (m DistanceMetric) IsValid() bool {
	return m == DistanceCosine || m == DistanceL2
}

// String returns the string representation.
func (m DistanceMetric) String() string {
	return string(m)
}

// Distance computes the distance between a and b.
// Vectors must have equal length. A zero vector has cosine distance 1 to everything.
func (m DistanceMetric) Distance(a, b []float32) float64 {
	switch m {
	case DistanceL2:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return math.Sqrt(sum)
	default:
		var dot, na, nb float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
			na += float64(a[i]) * float64(a[i])
			nb += float64(b[i]) * float64(b[i])
		}
		if na == 0 || nb == 0 {
			return 1
		}
		return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	}
}

// Similarity returns 1 - Distance(a, b).
func (m DistanceMetric) Similarity(a, b []float32) float64 {
	return 1 - m.Distance(a, b)
}
