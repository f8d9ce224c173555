// Package attendance implements the embedding-identity engine: worker
// enrollment with face-uniqueness enforcement and an append-only attendance
// ledger whose entrance/exit direction is derived from event history.
package attendance

import "time"

// Direction says whether an attendance event is an entrance or an exit.
type Direction string

const (
	DirectionEntrance Direction = "entrance"
	DirectionExit     Direction = "exit"
)

// Worker is an identity record. The identifier is the natural key of the
// whole system; it is immutable once created, as is the embedding.
type Worker struct {
	Identifier  string
	DisplayName string
	Role        string
	Embedding   []float64
	CreatedAt   time.Time
}

// WorkerInfo is the listing view of a worker. It deliberately carries no
// embedding so that listing paths can never leak biometric data.
type WorkerInfo struct {
	Identifier  string
	DisplayName string
	Role        string
	CreatedAt   time.Time
}

// Event is an immutable attendance fact. Timestamps are stored in UTC;
// rendering in a civil timezone is a presentation concern.
type Event struct {
	ID         string
	Identifier string
	Direction  Direction
	RecordedAt time.Time
}

// EventRecord is an event joined with the worker's display name, used by
// the reporting surface.
type EventRecord struct {
	Event
	DisplayName string
}

// MetadataUpdate describes a partial update of a worker's mutable fields.
// Nil fields are left unchanged.
type MetadataUpdate struct {
	DisplayName *string
	Role        *string
}
