package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/catalog/mock"
)

func seedSightings(t *testing.T, store *mock.SightingStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := store.Record(context.Background(), &catalog.Sighting{
			ProfileID:  "p1",
			Name:       "Alice",
			Distance:   0.1,
			Confidence: 0.9,
		})
		if err != nil {
			t.Fatalf("failed to seed sighting: %v", err)
		}
	}
}

func TestListSightings(t *testing.T) {
	store := mock.NewSightingStore()
	seedSightings(t, store, 3)
	handler := NewSightingsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sightings", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp SightingListResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 3 {
		t.Errorf("expected 3 sightings, got %d", resp.Count)
	}
	// Newest first.
	if len(resp.Sightings) == 3 && resp.Sightings[0].ID < resp.Sightings[2].ID {
		t.Errorf("sightings not newest first: %+v", resp.Sightings)
	}
}

func TestListSightingsLimit(t *testing.T) {
	store := mock.NewSightingStore()
	seedSightings(t, store, 5)
	handler := NewSightingsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sightings?limit=2", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp SightingListResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 2 {
		t.Errorf("expected limit of 2 to apply, got %d", resp.Count)
	}
}

func TestListSightingsInvalidLimit(t *testing.T) {
	handler := NewSightingsHandler(mock.NewSightingStore())

	for _, limit := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sightings?limit="+limit, nil)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertErrorCode(t, recorder, codeInvalidRequest)
	}
}

func TestListSightingsStorageError(t *testing.T) {
	store := mock.NewSightingStore()
	store.RecentError = errors.New("connection refused")
	handler := NewSightingsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sightings", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
}
