package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/recognition"
)

// ProfilesHandler manages enrolled visitor profiles.
type ProfilesHandler struct {
	engine   *recognition.Engine
	profiles catalog.ProfileWriter
}

// NewProfilesHandler creates a profiles handler.
func NewProfilesHandler(engine *recognition.Engine, profiles catalog.ProfileWriter) *ProfilesHandler {
	return &ProfilesHandler{engine: engine, profiles: profiles}
}

// EnrollmentSample is one captured frame's worth of input. A frame where no
// face was detected carries no embedding and does not count toward enrollment.
type EnrollmentSample struct {
	Embedding    []float32 `json:"embedding,omitempty"`
	FaceDetected bool      `json:"face_detected"`
}

// EnrollRequest represents a profile enrollment request
type EnrollRequest struct {
	Name    string             `json:"name"`
	Contact string             `json:"contact,omitempty"`
	Samples []EnrollmentSample `json:"samples"`
}

// ReEnrollRequest carries fresh samples for an existing profile.
type ReEnrollRequest struct {
	Samples []EnrollmentSample `json:"samples"`
}

// ProfileResponse is the wire form of a profile. The canonical embedding stays
// server-side; clients only see its dimension.
type ProfileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact,omitempty"`
	SampleCount  int       `json:"sample_count"`
	EmbeddingDim int       `json:"embedding_dim"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileListResponse represents the profile list response
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Count    int               `json:"count"`
}

func toProfileResponse(p *catalog.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           p.ID,
		Name:         p.Name,
		Contact:      p.Contact,
		SampleCount:  p.SampleCount,
		EmbeddingDim: len(p.Embedding),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toEngineSamples(samples []EnrollmentSample) []recognition.Sample {
	out := make([]recognition.Sample, len(samples))
	for i, s := range samples {
		out[i] = recognition.Sample{Embedding: s.Embedding, FaceDetected: s.FaceDetected}
	}
	return out
}

// Enroll aggregates the captured samples into a canonical embedding and
// creates the profile.
func (h *ProfilesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, errInvalidRequestBody)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "name is required")
		return
	}

	existing, err := h.profiles.GetByName(r.Context(), req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to check existing profiles")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, codeConflict, "a profile with this name already exists")
		return
	}

	canonical, used, err := h.engine.Aggregate(toEngineSamples(req.Samples))
	if err != nil {
		respondEngineError(w, err)
		return
	}

	profile := &catalog.Profile{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Contact:     req.Contact,
		Embedding:   canonical,
		SampleCount: used,
	}
	if err := h.profiles.Create(r.Context(), profile); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to create profile")
		return
	}

	log.Printf("Enrolled profile %s (%s) from %d samples", profile.ID, sanitizeForLog(profile.Name), used)
	respondJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// List returns all profiles in enrollment order.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to list profiles")
		return
	}

	resp := ProfileListResponse{
		Profiles: make([]ProfileResponse, 0, len(profiles)),
		Count:    len(profiles),
	}
	for i := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(&profiles[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

// Get returns a single profile by ID.
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to get profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "profile not found")
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// Delete removes a profile and its sightings.
func (h *ProfilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to get profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "profile not found")
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to delete profile")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// UpdateEmbedding re-enrolls an existing profile from a fresh batch of
// samples. The same minimum-sample policy applies as on first enrollment.
func (h *ProfilesHandler) UpdateEmbedding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ReEnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, errInvalidRequestBody)
		return
	}

	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to get profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "profile not found")
		return
	}

	canonical, used, err := h.engine.Aggregate(toEngineSamples(req.Samples))
	if err != nil {
		respondEngineError(w, err)
		return
	}

	if err := h.profiles.UpdateEmbedding(r.Context(), id, canonical, used); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to update embedding")
		return
	}

	updated, err := h.profiles.Get(r.Context(), id)
	if err != nil || updated == nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to load updated profile")
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(updated))
}
