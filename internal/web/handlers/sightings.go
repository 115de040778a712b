package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/magicmirror/magic-mirror/internal/catalog"
)

const (
	defaultSightingLimit = 50
	maxSightingLimit     = 500
)

// SightingsHandler exposes the recognition audit log.
type SightingsHandler struct {
	sightings catalog.SightingStore
}

// NewSightingsHandler creates a sightings handler.
func NewSightingsHandler(sightings catalog.SightingStore) *SightingsHandler {
	return &SightingsHandler{sightings: sightings}
}

// SightingResponse is the wire form of one recorded recognition.
type SightingResponse struct {
	ID         int64     `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Name       string    `json:"name"`
	Distance   float64   `json:"distance"`
	Confidence float64   `json:"confidence"`
	SeenAt     time.Time `json:"seen_at"`
}

// SightingListResponse represents the sighting list response
type SightingListResponse struct {
	Sightings []SightingResponse `json:"sightings"`
	Count     int                `json:"count"`
}

// List returns recent sightings, newest first.
func (h *SightingsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultSightingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, codeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSightingLimit)
	}

	sightings, err := h.sightings.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to list sightings")
		return
	}

	resp := SightingListResponse{
		Sightings: make([]SightingResponse, 0, len(sightings)),
		Count:     len(sightings),
	}
	for _, s := range sightings {
		resp.Sightings = append(resp.Sightings, SightingResponse{
			ID:         s.ID,
			ProfileID:  s.ProfileID,
			Name:       s.Name,
			Distance:   s.Distance,
			Confidence: s.Confidence,
			SeenAt:     s.SeenAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
