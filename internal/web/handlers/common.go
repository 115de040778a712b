package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/magicmirror/magic-mirror/internal/recognition"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// Machine-readable error codes carried next to the human message so the mirror
// frontend can branch on the failure kind.
const (
	codeInvalidRequest      = "invalid_request"
	codeNotFound            = "not_found"
	codeConflict            = "conflict"
	codeInternal            = "internal_error"
	codeMissingEmbedding    = "missing_embedding"
	codeDimensionMismatch   = "dimension_mismatch"
	codeInsufficientSamples = "insufficient_samples"
	codeInvalidThreshold    = "invalid_threshold"
)

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// respondEngineError translates engine validation failures into 400 responses
// with distinguishable codes. Anything else is a 500.
func respondEngineError(w http.ResponseWriter, err error) {
	var dimErr *recognition.DimensionMismatchError
	var samplesErr *recognition.InsufficientSamplesError
	var thresholdErr *recognition.InvalidThresholdError

	switch {
	case errors.Is(err, recognition.ErrMissingEmbedding):
		respondError(w, http.StatusBadRequest, codeMissingEmbedding, err.Error())
	case errors.As(err, &dimErr):
		respondError(w, http.StatusBadRequest, codeDimensionMismatch, err.Error())
	case errors.As(err, &samplesErr):
		respondError(w, http.StatusBadRequest, codeInsufficientSamples, err.Error())
	case errors.As(err, &thresholdErr):
		respondError(w, http.StatusBadRequest, codeInvalidThreshold, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "recognition failed")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
