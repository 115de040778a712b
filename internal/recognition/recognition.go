// Package recognition implements face enrollment and nearest-match recognition
// over fixed-length embeddings. It is pure computation: the callers own image
// capture, descriptor extraction, and persistence.
package recognition

// Default engine parameters. The embedding dimension matches the 128-float
// descriptors produced by dlib-style face models.
const (
	DefaultEmbeddingDim = 128
	DefaultMinSamples   = 3
	DefaultThreshold    = 0.6
)

// Engine validates and matches embeddings of a fixed dimension.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	dim        int
	minSamples int
}

// NewEngine creates an engine for embeddings of the given dimension.
// Non-positive arguments fall back to the package defaults.
func NewEngine(dim, minSamples int) *Engine {
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	return &Engine{dim: dim, minSamples: minSamples}
}

// Dim returns the embedding dimension the engine was configured with.
func (e *Engine) Dim() int {
	return e.dim
}

// MinSamples returns the minimum number of valid samples required for enrollment.
func (e *Engine) MinSamples() int {
	return e.minSamples
}

// checkEmbedding enforces the entry-point validation gate: the embedding must
// be present and have exactly the configured dimension.
func (e *Engine) checkEmbedding(emb []float32) error {
	if len(emb) == 0 {
		return ErrMissingEmbedding
	}
	if len(emb) != e.dim {
		return &DimensionMismatchError{Got: len(emb), Want: e.dim}
	}
	return nil
}
