// Package mock provides in-memory implementations of the catalog interfaces
// for handler and CLI tests.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/names"
)

// ProfileStore is a mock implementation of catalog.ProfileWriter.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*catalog.Profile

	// Error injection
	GetError    error
	ListError   error
	CreateError error
	UpdateError error
	DeleteError error
}

// NewProfileStore creates a new empty mock profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]*catalog.Profile),
	}
}

// Get retrieves a profile by ID.
func (m *ProfileStore) Get(ctx context.Context, id string) (*catalog.Profile, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByName retrieves a profile by normalized display name.
func (m *ProfileStore) GetByName(ctx context.Context, name string) (*catalog.Profile, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if names.Equal(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// List returns all profiles in enrollment order.
func (m *ProfileStore) List(ctx context.Context) ([]catalog.Profile, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]catalog.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, *p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// Count returns the number of stored profiles.
func (m *ProfileStore) Count(ctx context.Context) (int, error) {
	if m.ListError != nil {
		return 0, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles), nil
}

// Create stores a new profile.
func (m *ProfileStore) Create(ctx context.Context, p *catalog.Profile) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = cp.CreatedAt
	m.profiles[cp.ID] = &cp
	return nil
}

// UpdateEmbedding overwrites the canonical embedding and sample count.
func (m *ProfileStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32, sampleCount int) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil
	}
	p.Embedding = embedding
	p.SampleCount = sampleCount
	p.UpdatedAt = time.Now()
	return nil
}

// Delete removes a profile.
func (m *ProfileStore) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, id)
	return nil
}

// Candidates offers every stored profile to the recognizer in enrollment
// order. The catalog is small enough that pre-selection is pointless here.
func (m *ProfileStore) Candidates(ctx context.Context, query []float32, limit int) ([]catalog.Profile, error) {
	return m.List(ctx)
}

// SightingStore is a mock implementation of catalog.SightingStore.
type SightingStore struct {
	mu        sync.RWMutex
	sightings []catalog.Sighting
	nextID    int64

	// Error injection
	RecordError error
	RecentError error
}

// NewSightingStore creates a new empty mock sighting store.
func NewSightingStore() *SightingStore {
	return &SightingStore{nextID: 1}
}

// Record stores a sighting.
func (m *SightingStore) Record(ctx context.Context, s *catalog.Sighting) error {
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.ID = m.nextID
	m.nextID++
	if cp.SeenAt.IsZero() {
		cp.SeenAt = time.Now()
	}
	m.sightings = append(m.sightings, cp)
	return nil
}

// Recent returns the most recent sightings, newest first.
func (m *SightingStore) Recent(ctx context.Context, limit int) ([]catalog.Sighting, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]catalog.Sighting, 0, limit)
	for i := len(m.sightings) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.sightings[i])
	}
	return result, nil
}

// All returns every recorded sighting in insertion order, for assertions.
func (m *SightingStore) All() []catalog.Sighting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make([]catalog.Sighting, len(m.sightings))
	copy(cp, m.sightings)
	return cp
}
