package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/greeter"
	"github.com/magicmirror/magic-mirror/internal/recognition"
)

// candidateLimit caps how many nearest profiles an index-backed source is
// asked for. Plenty for a household-sized catalog.
const candidateLimit = 100

// CandidateSource supplies the profiles a recognition query is compared
// against. Index-backed implementations may pre-select by proximity as long as
// they return candidates in enrollment order.
type CandidateSource interface {
	Candidates(ctx context.Context, query []float32, limit int) ([]catalog.Profile, error)
}

func toEngineCandidates(profiles []catalog.Profile) []recognition.Candidate {
	candidates := make([]recognition.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, recognition.Candidate{
			ID:        p.ID,
			Name:      p.Name,
			Embedding: p.Embedding,
		})
	}
	return candidates
}

// RecognizeHandler answers "who is in front of the mirror" queries.
type RecognizeHandler struct {
	engine           *recognition.Engine
	candidates       CandidateSource
	sightings        catalog.SightingStore
	greeter          greeter.Provider
	defaultThreshold float64
}

// NewRecognizeHandler creates a recognize handler.
func NewRecognizeHandler(engine *recognition.Engine, candidates CandidateSource, sightings catalog.SightingStore, g greeter.Provider, defaultThreshold float64) *RecognizeHandler {
	return &RecognizeHandler{
		engine:           engine,
		candidates:       candidates,
		sightings:        sightings,
		greeter:          g,
		defaultThreshold: defaultThreshold,
	}
}

// RecognizeRequest represents a recognition request. Threshold is a pointer so
// an explicit 0 survives decoding; absent means the configured default.
type RecognizeRequest struct {
	Embedding []float32 `json:"embedding"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// RecognizeMatch is the matched profile in a recognition response.
type RecognizeMatch struct {
	ProfileID  string  `json:"profile_id"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
}

// RecognizeResponse represents the recognition response. Match is null when
// nobody was close enough, which is a normal outcome, not an error.
type RecognizeResponse struct {
	Match    *RecognizeMatch `json:"match"`
	Greeting string          `json:"greeting"`
}

// Recognize matches the query embedding against the enrolled catalog, records
// a sighting on success, and returns a greeting line for the display.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req RecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, errInvalidRequestBody)
		return
	}

	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	if err := h.engine.Validate(req.Embedding, threshold); err != nil {
		respondEngineError(w, err)
		return
	}

	ctx := r.Context()
	candidates, err := h.candidates.Candidates(ctx, req.Embedding, candidateLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to load candidate profiles")
		return
	}

	match, err := h.engine.Recognize(req.Embedding, toEngineCandidates(candidates), threshold)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	resp := RecognizeResponse{}
	visitorName := ""
	if match != nil {
		visitorName = match.Name
		resp.Match = &RecognizeMatch{
			ProfileID:  match.ProfileID,
			Name:       match.Name,
			Distance:   match.Distance,
			Confidence: match.Confidence,
		}
		h.recordSighting(ctx, match)
	}

	resp.Greeting = h.greet(ctx, visitorName)
	respondJSON(w, http.StatusOK, resp)
}

// recordSighting stores the recognition in the audit log. Best effort; a
// storage hiccup must not break the mirror display.
func (h *RecognizeHandler) recordSighting(ctx context.Context, match *recognition.Match) {
	if h.sightings == nil {
		return
	}
	sighting := &catalog.Sighting{
		ProfileID:  match.ProfileID,
		Name:       match.Name,
		Distance:   match.Distance,
		Confidence: match.Confidence,
		SeenAt:     time.Now(),
	}
	if err := h.sightings.Record(ctx, sighting); err != nil {
		log.Printf("failed to record sighting for %s: %v", sanitizeForLog(match.ProfileID), err)
	}
}

func (h *RecognizeHandler) greet(ctx context.Context, visitorName string) string {
	if h.greeter == nil {
		return ""
	}
	greeting, err := h.greeter.Greet(ctx, visitorName, time.Now())
	if err != nil {
		log.Printf("greeter %s failed: %v", h.greeter.Name(), err)
		return ""
	}
	return greeting
}
