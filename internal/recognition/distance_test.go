package recognition

import (
	"errors"
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"unit apart", []float32{0, 0, 0}, []float32{1, 0, 0}, 1},
		{"pythagorean", []float32{0, 0}, []float32{3, 4}, 5},
		{"negative coordinates", []float32{-1, -1}, []float32{1, 1}, 2 * math.Sqrt2},
		{"single dimension", []float32{2}, []float32{5}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := EuclideanDistance(tc.a, tc.b)
			if err != nil {
				t.Fatalf("EuclideanDistance failed: %v", err)
			}
			if math.Abs(result-tc.expected) > 1e-9 {
				t.Errorf("EuclideanDistance(%v, %v) = %v; want %v", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}

func TestEuclideanDistanceSymmetric(t *testing.T) {
	a := []float32{0.1, 0.7, -0.3, 0.25}
	b := []float32{-0.4, 0.2, 0.9, 0.0}

	ab, err := EuclideanDistance(a, b)
	if err != nil {
		t.Fatalf("EuclideanDistance(a, b) failed: %v", err)
	}
	ba, err := EuclideanDistance(b, a)
	if err != nil {
		t.Fatalf("EuclideanDistance(b, a) failed: %v", err)
	}
	if ab != ba {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestEuclideanDistanceDimensionMismatch(t *testing.T) {
	_, err := EuclideanDistance([]float32{1, 2, 3}, []float32{1, 2})
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if dimErr.Got != 2 || dimErr.Want != 3 {
		t.Errorf("unexpected error fields: got %d, want %d", dimErr.Got, dimErr.Want)
	}
}

func TestEuclideanDistanceMissingEmbedding(t *testing.T) {
	if _, err := EuclideanDistance(nil, []float32{1}); !errors.Is(err, ErrMissingEmbedding) {
		t.Errorf("expected ErrMissingEmbedding for nil first argument, got %v", err)
	}
	if _, err := EuclideanDistance([]float32{1}, nil); !errors.Is(err, ErrMissingEmbedding) {
		t.Errorf("expected ErrMissingEmbedding for nil second argument, got %v", err)
	}
}
