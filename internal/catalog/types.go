// Package catalog defines the profile store backing the recognition engine:
// enrolled profiles with their canonical embeddings, plus the sighting audit
// trail written on successful recognitions.
package catalog

import "time"

// Profile is a registered identity with exactly one canonical embedding,
// produced by aggregating the enrollment samples.
type Profile struct {
	ID          string
	Name        string
	Contact     string // optional contact identifier (email, phone)
	Embedding   []float32
	SampleCount int // valid samples that went into the canonical embedding
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Sighting is an audit record of one successful recognition. Recognition
// never mutates the profile itself.
type Sighting struct {
	ID         int64
	ProfileID  string
	Name       string // profile display name at the time of the sighting
	Distance   float64
	Confidence float64
	SeenAt     time.Time
}
