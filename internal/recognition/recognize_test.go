package recognition

import (
	"errors"
	"math"
	"testing"
)

func TestRecognizeMatchesClosestCandidate(t *testing.T) {
	engine := NewEngine(4, 3)

	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0, 0, 0, 0}},
		{ID: "B", Name: "Bob", Embedding: []float32{1, 0, 0, 0}},
	}
	query := []float32{0.05, 0, 0, 0}

	match, err := engine.Recognize(query, catalog, 0.6)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match, got nil")
	}
	if match.ProfileID != "A" {
		t.Errorf("expected profile A, got %s", match.ProfileID)
	}
	if math.Abs(match.Distance-0.05) > 1e-6 {
		t.Errorf("expected distance 0.05, got %v", match.Distance)
	}
	if math.Abs(match.Confidence-0.95) > 1e-6 {
		t.Errorf("expected confidence 0.95, got %v", match.Confidence)
	}
}

func TestRecognizeNoCandidateUnderThreshold(t *testing.T) {
	engine := NewEngine(4, 3)

	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0, 0, 0, 0}},
		{ID: "B", Name: "Bob", Embedding: []float32{1, 0, 0, 0}},
	}
	query := []float32{10, 10, 10, 10}

	match, err := engine.Recognize(query, catalog, 0.6)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match != nil {
		t.Errorf("expected nil match, got %+v", match)
	}
}

func TestRecognizeEmptyCatalog(t *testing.T) {
	engine := NewEngine(2, 3)

	match, err := engine.Recognize([]float32{0, 0}, nil, 0.6)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match != nil {
		t.Errorf("expected nil match for empty catalog, got %+v", match)
	}
}

func TestRecognizeThresholdIsStrictBound(t *testing.T) {
	engine := NewEngine(2, 3)

	// Candidate sits at exactly the threshold distance: must not match.
	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0.5, 0}},
	}
	match, err := engine.Recognize([]float32{0, 0}, catalog, 0.5)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match != nil {
		t.Errorf("candidate at exactly the threshold distance should not match, got %+v", match)
	}
}

func TestRecognizeTieBreakFirstWins(t *testing.T) {
	engine := NewEngine(2, 3)

	// Both candidates are at exactly the same distance from the query.
	catalog := []Candidate{
		{ID: "first", Name: "First", Embedding: []float32{0.25, 0}},
		{ID: "second", Name: "Second", Embedding: []float32{-0.25, 0}},
	}

	match, err := engine.Recognize([]float32{0, 0}, catalog, 0.6)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match, got nil")
	}
	if match.ProfileID != "first" {
		t.Errorf("tie-break should keep the first candidate, got %s", match.ProfileID)
	}
}

func TestRecognizeThresholdValidation(t *testing.T) {
	engine := NewEngine(2, 3)
	query := []float32{0, 0}

	for _, threshold := range []float64{-0.1, 1.5} {
		_, err := engine.Recognize(query, nil, threshold)
		var thrErr *InvalidThresholdError
		if !errors.As(err, &thrErr) {
			t.Errorf("threshold %v: expected InvalidThresholdError, got %v", threshold, err)
		}
	}

	// 0 and 1 are valid boundary values.
	for _, threshold := range []float64{0, 1} {
		if _, err := engine.Recognize(query, nil, threshold); err != nil {
			t.Errorf("threshold %v should be valid, got %v", threshold, err)
		}
	}
}

func TestRecognizeThresholdZeroNeverMatches(t *testing.T) {
	engine := NewEngine(2, 3)

	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0, 0}},
	}
	// Even an identical embedding is rejected: distance 0 is not < 0.
	match, err := engine.Recognize([]float32{0, 0}, catalog, 0)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if match != nil {
		t.Errorf("expected nil match with threshold 0, got %+v", match)
	}
}

func TestRecognizeQueryValidation(t *testing.T) {
	engine := NewEngine(4, 3)

	if _, err := engine.Recognize(nil, nil, 0.6); !errors.Is(err, ErrMissingEmbedding) {
		t.Errorf("expected ErrMissingEmbedding for nil query, got %v", err)
	}

	_, err := engine.Recognize([]float32{1, 2}, nil, 0.6)
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionMismatchError for short query, got %v", err)
	}
}

func TestRecognizeCandidateDimensionMismatch(t *testing.T) {
	engine := NewEngine(2, 3)

	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0, 0, 0}},
	}
	_, err := engine.Recognize([]float32{0, 0}, catalog, 0.6)
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionMismatchError for malformed candidate, got %v", err)
	}
}

func TestRecognizeDoesNotMutateCatalog(t *testing.T) {
	engine := NewEngine(2, 3)

	catalog := []Candidate{
		{ID: "A", Name: "Alice", Embedding: []float32{0.1, 0.1}},
		{ID: "B", Name: "Bob", Embedding: []float32{0.2, 0.2}},
	}
	before := make([]Candidate, len(catalog))
	copy(before, catalog)

	if _, err := engine.Recognize([]float32{0, 0}, catalog, 0.6); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	for i := range catalog {
		if catalog[i].ID != before[i].ID || catalog[i].Name != before[i].Name {
			t.Errorf("catalog entry %d mutated: %+v", i, catalog[i])
		}
		for j := range catalog[i].Embedding {
			if catalog[i].Embedding[j] != before[i].Embedding[j] {
				t.Errorf("catalog embedding %d mutated", i)
			}
		}
	}
}
