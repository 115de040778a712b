package recognition

import "math"

// EuclideanDistance computes the L2 distance between two embeddings.
// Both embeddings must be present and of equal length.
func EuclideanDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrMissingEmbedding
	}
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Got: len(b), Want: len(a)}
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
