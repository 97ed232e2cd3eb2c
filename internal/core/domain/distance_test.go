package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetric_IsValid(t *testing.T) {
	assert.True(t, DistanceCosine.IsValid())
	assert.True(t, DistanceL2.IsValid())
	assert.False(t, DistanceMetric("dot").IsValid())
	assert.False(t, DistanceMetric("").IsValid())
}

func TestDistanceMetric_Cosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceCosine.Distance(tt.a, tt.b), 1e-6)
			assert.InDelta(t, 1-tt.want, DistanceCosine.Similarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestDistanceMetric_L2(t *testing.T) {
	assert.InDelta(t, 0, DistanceL2.Distance([]float32{1, 1}, []float32{1, 1}), 1e-9)
	assert.InDelta(t, 5, DistanceL2.Distance([]float32{0, 0}, []float32{3, 4}), 1e-9)
	assert.InDelta(t, -4, DistanceL2.Similarity([]float32{0, 0}, []float32{3, 4}), 1e-9)
	assert.InDelta(t, math.Sqrt2, DistanceL2.Distance([]float32{1, 0}, []float32{0, 1}), 1e-6)
}
