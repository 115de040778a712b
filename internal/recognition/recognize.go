package recognition

// Candidate is one enrolled profile offered to the recognizer.
type Candidate struct {
	ID        string
	Name      string
	Embedding []float32
}

// Match is a successful recognition. Confidence is 1 - Distance: a display
// score, not a probability.
type Match struct {
	ProfileID  string
	Name       string
	Distance   float64
	Confidence float64
}

// Validate checks a query embedding and threshold without touching a catalog.
// Callers that pre-select candidates from an index run this first so a
// malformed query never reaches the index.
func (e *Engine) Validate(query []float32, threshold float64) error {
	if err := e.checkEmbedding(query); err != nil {
		return err
	}
	if threshold < 0 || threshold > 1 {
		return &InvalidThresholdError{Threshold: threshold}
	}
	return nil
}

// Recognize scans the catalog once and returns the candidate closest to the
// query, or nil if no candidate's distance is strictly below the threshold.
//
// The scan is a fold with the accumulator initialized to the threshold itself:
// a candidate only qualifies by being strictly closer than every previous best,
// so the threshold is a hard upper bound and the first candidate at a given
// minimal distance wins ties. An empty catalog yields a nil match, not an error.
func (e *Engine) Recognize(query []float32, catalog []Candidate, threshold float64) (*Match, error) {
	if err := e.Validate(query, threshold); err != nil {
		return nil, err
	}

	best := threshold
	var match *Match
	for _, c := range catalog {
		d, err := EuclideanDistance(query, c.Embedding)
		if err != nil {
			return nil, err
		}
		if d < best {
			best = d
			match = &Match{
				ProfileID:  c.ID,
				Name:       c.Name,
				Distance:   d,
				Confidence: 1 - d,
			}
		}
	}
	return match, nil
}
