package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the schema. The embedding dimension is baked into the
// vector column, so changing EMBEDDING_DIM on an existing database requires a
// manual migration.
func (p *Pool) Migrate(ctx context.Context, embeddingDim int) error {
	if _, err := p.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createProfiles := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS profiles (
			id           UUID PRIMARY KEY,
			name         VARCHAR(255) NOT NULL,
			contact      VARCHAR(255) NOT NULL DEFAULT '',
			embedding    vector(%d) NOT NULL,
			sample_count INTEGER NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, embeddingDim)
	if _, err := p.db.ExecContext(ctx, createProfiles); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	createSightings := `
		CREATE TABLE IF NOT EXISTS sightings (
			id         BIGSERIAL PRIMARY KEY,
			profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name       VARCHAR(255) NOT NULL,
			distance   DOUBLE PRECISION NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			seen_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
	if _, err := p.db.ExecContext(ctx, createSightings); err != nil {
		return fmt.Errorf("failed to create sightings table: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS sightings_seen_at_idx ON sightings(seen_at DESC)
	`); err != nil {
		return fmt.Errorf("failed to create sightings index: %w", err)
	}

	return nil
}

// CreateVectorIndex creates the IVFFlat index for L2 similarity search.
// Best called once the table has some data.
func (p *Pool) CreateVectorIndex(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS profiles_vector_idx
		ON profiles USING ivfflat (embedding vector_l2_ops) WITH (lists = 100)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}
