package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/magicmirror/magic-mirror/internal/descriptor"
)

// maxFrameUploadSize caps captured frames at 10 MB.
const maxFrameUploadSize = 10 << 20

// FaceDetector extracts face embeddings from a captured frame.
type FaceDetector interface {
	DetectFaces(ctx context.Context, frame []byte) (*descriptor.DetectResponse, error)
}

// DescriptorsHandler proxies captured frames to the external descriptor
// service. The backend itself never runs inference.
type DescriptorsHandler struct {
	detector FaceDetector
}

// NewDescriptorsHandler creates a descriptors handler.
func NewDescriptorsHandler(detector FaceDetector) *DescriptorsHandler {
	return &DescriptorsHandler{detector: detector}
}

// Detect accepts a multipart frame upload and returns the detected faces with
// their embeddings.
func (h *DescriptorsHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if h.detector == nil {
		respondError(w, http.StatusServiceUnavailable, codeInternal, "descriptor service not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFrameUploadSize)
	if err := r.ParseMultipartForm(maxFrameUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid multipart request")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "file field is required")
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "failed to read uploaded frame")
		return
	}
	if len(frame) == 0 {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "uploaded frame is empty")
		return
	}

	result, err := h.detector.DetectFaces(r.Context(), frame)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeInternal, "descriptor service failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
