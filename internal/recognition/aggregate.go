package recognition

// Sample is one embedding captured during a registration session. Samples
// where detection failed carry no embedding and are skipped during aggregation.
type Sample struct {
	Embedding    []float32
	FaceDetected bool
}

// Valid reports whether the sample contributed a usable embedding.
func (s Sample) Valid() bool {
	return s.FaceDetected && len(s.Embedding) > 0
}

// Aggregate turns a batch of enrollment samples into one canonical embedding:
// the coordinate-wise arithmetic mean of all valid samples. It returns the
// canonical embedding and the number of samples used.
//
// Samples without an embedding are discarded first. If fewer than the
// configured minimum remain, an InsufficientSamplesError is returned. Every
// valid embedding must have the configured dimension.
//
// Summation runs in input order so results are bit-reproducible for a given
// sample set.
func (e *Engine) Aggregate(samples []Sample) ([]float32, int, error) {
	valid := make([][]float32, 0, len(samples))
	for _, s := range samples {
		if s.Valid() {
			valid = append(valid, s.Embedding)
		}
	}

	if len(valid) < e.minSamples {
		return nil, 0, &InsufficientSamplesError{Got: len(valid), Want: e.minSamples}
	}

	for _, emb := range valid {
		if len(emb) != e.dim {
			return nil, 0, &DimensionMismatchError{Got: len(emb), Want: e.dim}
		}
	}

	// Accumulate in float64 to limit rounding error before the final division.
	sums := make([]float64, e.dim)
	for _, emb := range valid {
		for i, v := range emb {
			sums[i] += float64(v)
		}
	}

	canonical := make([]float32, e.dim)
	n := float64(len(valid))
	for i, sum := range sums {
		canonical[i] = float32(sum / n)
	}

	return canonical, len(valid), nil
}
