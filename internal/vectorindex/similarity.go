package vectorindex

import "math"

// CosineSimilarity returns dot(a, b) / (|a| * |b|), accumulated in float64.
// It is 0 when the dimensions differ or either vector has zero magnitude, so
// embeddings from different providers are never compared numerically.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push parallel vectors just outside [-1, 1].
	return math.Max(-1, math.Min(1, sim))
}
