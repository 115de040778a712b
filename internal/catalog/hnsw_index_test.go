package catalog

import (
	"testing"
	"time"
)

func testProfiles() []Profile {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []Profile{
		{ID: "p1", Name: "Alice", Embedding: []float32{0, 0, 0, 0}, CreatedAt: base},
		{ID: "p2", Name: "Bob", Embedding: []float32{1, 0, 0, 0}, CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Name: "Carol", Embedding: []float32{0, 1, 0, 0}, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestHNSWIndexSearch(t *testing.T) {
	idx := NewHNSWIndex()
	idx.BuildFromProfiles(testProfiles())

	if idx.Count() != 3 {
		t.Fatalf("expected 3 indexed profiles, got %d", idx.Count())
	}

	results := idx.Search([]float32{0.05, 0, 0, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	found := false
	for _, p := range results {
		if p.ID == "p1" {
			found = true
		}
	}
	if !found {
		t.Error("nearest profile p1 missing from search results")
	}
}

func TestHNSWIndexSearchOrderedByEnrollment(t *testing.T) {
	idx := NewHNSWIndex()
	idx.BuildFromProfiles(testProfiles())

	results := idx.Search([]float32{0.5, 0.5, 0, 0}, 3)
	for i := 1; i < len(results); i++ {
		if results[i].CreatedAt.Before(results[i-1].CreatedAt) {
			t.Errorf("results not in enrollment order: %s before %s", results[i].ID, results[i-1].ID)
		}
	}
}

func TestHNSWIndexDelete(t *testing.T) {
	idx := NewHNSWIndex()
	idx.BuildFromProfiles(testProfiles())

	idx.Delete("p1")
	if idx.Count() != 2 {
		t.Errorf("expected 2 profiles after delete, got %d", idx.Count())
	}

	results := idx.Search([]float32{0, 0, 0, 0}, 3)
	for _, p := range results {
		if p.ID == "p1" {
			t.Error("deleted profile p1 still returned by search")
		}
	}
}

func TestHNSWIndexAdd(t *testing.T) {
	idx := NewHNSWIndex()
	idx.BuildFromProfiles(testProfiles())

	idx.Add(&Profile{
		ID:        "p4",
		Name:      "Dan",
		Embedding: []float32{0, 0, 1, 0},
		CreatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	})

	if idx.Count() != 4 {
		t.Errorf("expected 4 profiles after add, got %d", idx.Count())
	}

	results := idx.Search([]float32{0, 0, 0.9, 0}, 1)
	if len(results) != 1 || results[0].ID != "p4" {
		t.Errorf("expected p4 as nearest, got %+v", results)
	}
}

func TestHNSWIndexEmpty(t *testing.T) {
	idx := NewHNSWIndex()
	idx.BuildFromProfiles(nil)

	if results := idx.Search([]float32{0, 0, 0, 0}, 5); results != nil {
		t.Errorf("expected nil results from empty index, got %v", results)
	}
}

func TestHNSWIndexSaveLoad(t *testing.T) {
	path := t.TempDir() + "/profiles.hnsw"

	idx := NewHNSWIndex()
	idx.BuildFromProfiles(testProfiles())
	idx.SetPath(path)
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewHNSWIndex()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	loaded.RebuildLookup(testProfiles())

	results := loaded.Search([]float32{0.05, 0, 0, 0}, 1)
	if len(results) != 1 || results[0].ID != "p1" {
		t.Errorf("expected p1 from loaded index, got %+v", results)
	}
}
