package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"

	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/names"
)

// ProfileRepository provides PostgreSQL-backed profile storage with an
// optional in-memory HNSW index for candidate pre-selection.
type ProfileRepository struct {
	pool        *Pool
	hnswIndex   *catalog.HNSWIndex
	hnswEnabled bool
	hnswMu      sync.RWMutex
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(pool *Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = "id, name, contact, embedding, sample_count, created_at, updated_at"

func scanProfile(row interface{ Scan(...any) error }) (*catalog.Profile, error) {
	var p catalog.Profile
	var vec pgvector.Vector
	err := row.Scan(&p.ID, &p.Name, &p.Contact, &vec, &p.SampleCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Embedding = vec.Slice()
	return &p, nil
}

// Get retrieves a profile by ID, returns nil if not found.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*catalog.Profile, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = $1", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// GetByName retrieves a profile by display name, tolerating case and
// diacritics differences. Name comparison happens in Go since the
// normalization rules live in the names package.
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*catalog.Profile, error) {
	profiles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if names.Equal(profiles[i].Name, name) {
			return &profiles[i], nil
		}
	}
	return nil, nil
}

// List returns all profiles in enrollment order (oldest first).
func (r *ProfileRepository) List(ctx context.Context) ([]catalog.Profile, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []catalog.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// Count returns the number of enrolled profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

// Create stores a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *catalog.Profile) error {
	vec := pgvector.NewVector(p.Embedding)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, contact, embedding, sample_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Contact, vec, p.SampleCount).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	r.hnswMu.RLock()
	if r.hnswEnabled {
		cp := *p
		r.hnswIndex.Add(&cp)
	}
	r.hnswMu.RUnlock()
	return nil
}

// UpdateEmbedding overwrites the canonical embedding and sample count after a
// re-enrollment.
func (r *ProfileRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32, sampleCount int) error {
	vec := pgvector.NewVector(embedding)
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles SET embedding = $2, sample_count = $3, updated_at = NOW()
		WHERE id = $1
	`, id, vec, sampleCount)
	if err != nil {
		return fmt.Errorf("update profile embedding: %w", err)
	}

	// The HNSW graph cannot update nodes in place; rebuild lazily on next enable.
	r.hnswMu.RLock()
	if r.hnswEnabled {
		if p, err := r.Get(ctx, id); err == nil && p != nil {
			r.hnswIndex.Delete(id)
			r.hnswIndex.Add(p)
		}
	}
	r.hnswMu.RUnlock()
	return nil
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM profiles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	r.hnswMu.RLock()
	if r.hnswEnabled {
		r.hnswIndex.Delete(id)
	}
	r.hnswMu.RUnlock()
	return nil
}

// FindNearest returns up to limit profiles ordered by L2 distance to the
// query embedding, using the pgvector <-> operator.
func (r *ProfileRepository) FindNearest(ctx context.Context, embedding []float32, limit int) ([]catalog.Profile, []float64, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`, embedding <-> $1 AS distance
		FROM profiles
		ORDER BY embedding <-> $1
		LIMIT $2
	`, vec, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("find nearest profiles: %w", err)
	}
	defer rows.Close()

	var profiles []catalog.Profile
	var distances []float64
	for rows.Next() {
		var p catalog.Profile
		var v pgvector.Vector
		var distance float64
		if err := rows.Scan(&p.ID, &p.Name, &p.Contact, &v, &p.SampleCount, &p.CreatedAt, &p.UpdatedAt, &distance); err != nil {
			return nil, nil, fmt.Errorf("scan nearest profile: %w", err)
		}
		p.Embedding = v.Slice()
		profiles = append(profiles, p)
		distances = append(distances, distance)
	}
	return profiles, distances, rows.Err()
}

// EnableHNSW loads or builds the in-memory HNSW index over the catalog.
// When indexPath is non-empty the index is persisted there on Save.
func (r *ProfileRepository) EnableHNSW(ctx context.Context, indexPath string) error {
	profiles, err := r.List(ctx)
	if err != nil {
		return fmt.Errorf("loading profiles for HNSW index: %w", err)
	}

	idx := catalog.NewHNSWIndex()
	if indexPath != "" {
		if err := idx.Load(indexPath); err != nil {
			return err
		}
		idx.RebuildLookup(profiles)
		if idx.Count() != len(profiles) {
			// Stale or missing index file, rebuild from the database.
			idx.BuildFromProfiles(profiles)
			idx.SetPath(indexPath)
		}
	} else {
		idx.BuildFromProfiles(profiles)
	}

	r.hnswMu.Lock()
	r.hnswIndex = idx
	r.hnswEnabled = true
	r.hnswMu.Unlock()
	return nil
}

// IsHNSWEnabled reports whether the in-memory index is active.
func (r *ProfileRepository) IsHNSWEnabled() bool {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	return r.hnswEnabled
}

// HNSWCount returns the number of profiles in the in-memory index.
func (r *ProfileRepository) HNSWCount() int {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if !r.hnswEnabled {
		return 0
	}
	return r.hnswIndex.Count()
}

// SaveHNSWIndex persists the in-memory index if a path was configured.
func (r *ProfileRepository) SaveHNSWIndex() error {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if !r.hnswEnabled {
		return nil
	}
	return r.hnswIndex.Save()
}

// Candidates returns the catalog subset to hand to the recognition engine:
// the HNSW pre-selection when enabled, otherwise every profile in enrollment
// order.
func (r *ProfileRepository) Candidates(ctx context.Context, query []float32, limit int) ([]catalog.Profile, error) {
	r.hnswMu.RLock()
	enabled := r.hnswEnabled
	idx := r.hnswIndex
	r.hnswMu.RUnlock()

	if enabled {
		return idx.Search(query, limit), nil
	}
	return r.List(ctx)
}
