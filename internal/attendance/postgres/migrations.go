package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the schema. Embeddings are opaque BYTEA blobs produced by
// the embedding codec; events reference workers so removal can cascade in
// one transaction.
func (p *Pool) Migrate(ctx context.Context) error {
	createWorkers := `
		CREATE TABLE IF NOT EXISTS workers (
			identifier   VARCHAR(11) PRIMARY KEY,
			display_name TEXT NOT NULL,
			role         TEXT NOT NULL,
			embedding    BYTEA NOT NULL,
			dim          INTEGER NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
	if _, err := p.Exec(ctx, createWorkers); err != nil {
		return fmt.Errorf("failed to create workers table: %w", err)
	}

	createEvents := `
		CREATE TABLE IF NOT EXISTS attendance_events (
			id          UUID PRIMARY KEY,
			identifier  VARCHAR(11) NOT NULL REFERENCES workers(identifier),
			direction   VARCHAR(8) NOT NULL CHECK (direction IN ('entrance', 'exit')),
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`
	if _, err := p.Exec(ctx, createEvents); err != nil {
		return fmt.Errorf("failed to create attendance_events table: %w", err)
	}

	if _, err := p.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS attendance_events_identifier_recorded_at_idx
		ON attendance_events(identifier, recorded_at DESC)
	`); err != nil {
		return fmt.Errorf("failed to create attendance_events index: %w", err)
	}

	return nil
}
