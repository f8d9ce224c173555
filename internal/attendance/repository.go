package attendance

import (
	"context"
	"time"
)

// WorkerStore owns worker records. Implementations must keep Insert's
// duplicate-face scan and the final write inside one critical section so
// that two concurrent enrollments cannot both pass the scan.
type WorkerStore interface {
	// Insert commits a new worker. Fails with ErrDuplicateIdentifier if the
	// identifier exists and with ErrDuplicateFace if the embedding matches
	// any stored embedding within the store's configured tolerance. The
	// duplicate-face check scans the full worker set; enrollment is O(n)
	// by contract.
	Insert(ctx context.Context, w Worker) error

	// GetEmbedding returns the stored embedding for an identifier.
	GetEmbedding(ctx context.Context, identifier string) ([]float64, error)

	// UpdateMetadata applies a partial update of the mutable fields.
	UpdateMetadata(ctx context.Context, identifier string, update MetadataUpdate) error

	// Remove deletes the worker and cascades deletion of its attendance
	// events in the same atomic operation.
	Remove(ctx context.Context, identifier string) error

	// ListAll returns worker metadata ordered by display name (case
	// sensitive), ties broken by identifier. Never includes embeddings.
	ListAll(ctx context.Context) ([]WorkerInfo, error)
}

// EventLedger owns the append-only attendance log. Implementations must
// serialize RecordEvent per identifier so the read-last-then-append step
// cannot interleave for the same worker.
type EventLedger interface {
	// RecordEvent derives the next direction from the most recent event
	// (none or exit -> entrance, entrance -> exit), appends an event at
	// now and returns the direction taken.
	RecordEvent(ctx context.Context, identifier string, now time.Time) (Direction, error)

	// ListEvents returns a worker's events, newest first.
	ListEvents(ctx context.Context, identifier string) ([]Event, error)

	// ListAllEvents returns every event joined with the worker's display
	// name, newest first.
	ListAllEvents(ctx context.Context) ([]EventRecord, error)
}
