package recognition

import (
	"errors"
	"fmt"
)

// ErrMissingEmbedding is returned when an enrollment sample or query carries
// no embedding at all.
var ErrMissingEmbedding = errors.New("missing embedding")

// DimensionMismatchError is returned when two embeddings being compared, or an
// embedding checked against the configured dimension, differ in length.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
}

// InsufficientSamplesError is returned when enrollment receives fewer valid
// samples than the configured minimum.
type InsufficientSamplesError struct {
	Got  int
	Want int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("insufficient enrollment samples: got %d valid, need %d", e.Got, e.Want)
}

// InvalidThresholdError is returned when a recognition threshold falls outside [0,1].
type InvalidThresholdError struct {
	Threshold float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %v: must be within [0,1]", e.Threshold)
}
