package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magicmirror/magic-mirror/internal/descriptor"
)

// stubDetector fakes the external descriptor service.
type stubDetector struct {
	response *descriptor.DetectResponse
	err      error
	gotFrame []byte
}

func (s *stubDetector) DetectFaces(ctx context.Context, frame []byte) (*descriptor.DetectResponse, error) {
	s.gotFrame = frame
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func multipartFrameRequest(t *testing.T, frame []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(frame)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/descriptors", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDetect(t *testing.T) {
	detector := &stubDetector{
		response: &descriptor.DetectResponse{
			FacesCount: 1,
			Faces: []descriptor.Face{
				{FaceIndex: 0, Dim: 4, Embedding: []float32{0.1, 0.2, 0.3, 0.4}, DetScore: 0.98},
			},
			Model: "test-model",
		},
	}
	handler := NewDescriptorsHandler(detector)

	frame := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	recorder := httptest.NewRecorder()
	handler.Detect(recorder, multipartFrameRequest(t, frame))

	assertStatusCode(t, recorder, http.StatusOK)
	if !bytes.Equal(detector.gotFrame, frame) {
		t.Error("frame bytes were not passed through to the detector")
	}

	var resp descriptor.DetectResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.FacesCount != 1 || len(resp.Faces) != 1 {
		t.Errorf("unexpected detect response: %+v", resp)
	}
}

func TestDetectMissingFile(t *testing.T) {
	handler := NewDescriptorsHandler(&stubDetector{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("other", "value")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/descriptors", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	handler.Detect(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestDetectEmptyFrame(t *testing.T) {
	handler := NewDescriptorsHandler(&stubDetector{})

	recorder := httptest.NewRecorder()
	handler.Detect(recorder, multipartFrameRequest(t, nil))

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestDetectServiceFailure(t *testing.T) {
	handler := NewDescriptorsHandler(&stubDetector{err: errors.New("model not loaded")})

	recorder := httptest.NewRecorder()
	handler.Detect(recorder, multipartFrameRequest(t, []byte{1, 2, 3}))

	assertStatusCode(t, recorder, http.StatusBadGateway)
}

func TestDetectNotConfigured(t *testing.T) {
	handler := NewDescriptorsHandler(nil)

	recorder := httptest.NewRecorder()
	handler.Detect(recorder, multipartFrameRequest(t, []byte{1, 2, 3}))

	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
}
