package catalog

import "context"

// ProfileReader provides read-only access to enrolled profiles.
type ProfileReader interface {
	// Get retrieves a profile by ID, returns nil if not found.
	Get(ctx context.Context, id string) (*Profile, error)
	// GetByName retrieves a profile by display name. The comparison is
	// diacritics- and case-insensitive. Returns nil if not found.
	GetByName(ctx context.Context, name string) (*Profile, error)
	// List returns all profiles in enrollment order (oldest first). The
	// ordering is part of the contract: the recognizer's tie-break keeps
	// the earliest enrolled profile.
	List(ctx context.Context) ([]Profile, error)
	// Count returns the number of enrolled profiles.
	Count(ctx context.Context) (int, error)
}

// ProfileWriter provides write access to enrolled profiles.
type ProfileWriter interface {
	ProfileReader

	// Create stores a new profile. The caller supplies the ID.
	Create(ctx context.Context, p *Profile) error
	// UpdateEmbedding overwrites the canonical embedding and sample count
	// after a re-enrollment.
	UpdateEmbedding(ctx context.Context, id string, embedding []float32, sampleCount int) error
	// Delete removes a profile.
	Delete(ctx context.Context, id string) error
}

// SightingStore records and lists recognition audit records.
type SightingStore interface {
	// Record stores a sighting. Failures are reported but recognition
	// responses do not depend on them.
	Record(ctx context.Context, s *Sighting) error
	// Recent returns the most recent sightings, newest first.
	Recent(ctx context.Context, limit int) ([]Sighting, error)
}
