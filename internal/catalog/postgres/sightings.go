package postgres

import (
	"context"
	"fmt"

	"github.com/magicmirror/magic-mirror/internal/catalog"
)

// SightingRepository provides PostgreSQL-backed recognition audit storage.
type SightingRepository struct {
	pool *Pool
}

// NewSightingRepository creates a new PostgreSQL sighting repository.
func NewSightingRepository(pool *Pool) *SightingRepository {
	return &SightingRepository{pool: pool}
}

// Record stores a sighting.
func (r *SightingRepository) Record(ctx context.Context, s *catalog.Sighting) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sightings (profile_id, name, distance, confidence)
		VALUES ($1, $2, $3, $4)
		RETURNING id, seen_at
	`, s.ProfileID, s.Name, s.Distance, s.Confidence).Scan(&s.ID, &s.SeenAt)
	if err != nil {
		return fmt.Errorf("record sighting: %w", err)
	}
	return nil
}

// Recent returns the most recent sightings, newest first.
func (r *SightingRepository) Recent(ctx context.Context, limit int) ([]catalog.Sighting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, name, distance, confidence, seen_at
		FROM sightings
		ORDER BY seen_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sightings: %w", err)
	}
	defer rows.Close()

	var sightings []catalog.Sighting
	for rows.Next() {
		var s catalog.Sighting
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Distance, &s.Confidence, &s.SeenAt); err != nil {
			return nil, fmt.Errorf("scan sighting: %w", err)
		}
		sightings = append(sightings, s)
	}
	return sightings, rows.Err()
}
