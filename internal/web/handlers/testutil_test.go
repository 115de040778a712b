package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/catalog/mock"
	"github.com/magicmirror/magic-mirror/internal/recognition"
)

// testDim keeps handler test embeddings short and readable.
const testDim = 4

// newTestEngine creates an engine with a small embedding dimension
func newTestEngine() *recognition.Engine {
	return recognition.NewEngine(testDim, 3)
}

// jsonRequest creates a request with a JSON-encoded body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedProfile stores a profile with the given embedding directly in the mock
func seedProfile(t *testing.T, store *mock.ProfileStore, id, name string, embedding []float32) {
	t.Helper()
	err := store.Create(context.Background(), &catalog.Profile{
		ID:          id,
		Name:        name,
		Embedding:   embedding,
		SampleCount: 3,
	})
	if err != nil {
		t.Fatalf("failed to seed profile %s: %v", id, err)
	}
}

// validSamples builds n identical valid enrollment samples
func validSamples(n int, embedding []float32) []EnrollmentSample {
	samples := make([]EnrollmentSample, n)
	for i := range samples {
		samples[i] = EnrollmentSample{Embedding: embedding, FaceDetected: true}
	}
	return samples
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertErrorCode checks if the response is a JSON error with the expected code
func assertErrorCode(t *testing.T, recorder *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["code"] != expectedCode {
		t.Errorf("expected error code '%s', got '%s' (error: %s)", expectedCode, result["code"], result["error"])
	}
}
