package attendance

import (
	"context"
	"time"

	"github.com/kozaktomas/face-clock/internal/embedding"
)

// identifierLength is the required identifier length (a national
// identification number, always 11 ASCII digits).
const identifierLength = 11

// ValidIdentifier reports whether s is exactly 11 ASCII digits.
func ValidIdentifier(s string) bool {
	if len(s) != identifierLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Engine orchestrates the worker store, the event ledger and the matcher.
// It holds no state of its own and is the seam the HTTP and CLI layers
// call into.
type Engine struct {
	workers   WorkerStore
	ledger    EventLedger
	matcher   *embedding.Matcher
	tolerance float64
	now       func() time.Time
}

// NewEngine wires an engine. tolerance is the default match tolerance used
// by CheckIn when the caller does not override it.
func NewEngine(workers WorkerStore, ledger EventLedger, matcher *embedding.Matcher, tolerance float64) *Engine {
	return &Engine{
		workers:   workers,
		ledger:    ledger,
		matcher:   matcher,
		tolerance: tolerance,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Enroll validates the identifier format and commits a new worker. The
// store enforces identifier and face uniqueness.
func (e *Engine) Enroll(ctx context.Context, identifier, displayName, role string, emb []float64) error {
	if !ValidIdentifier(identifier) {
		return ErrInvalidIdentifier
	}
	return e.workers.Insert(ctx, Worker{
		Identifier:  identifier,
		DisplayName: displayName,
		Role:        role,
		Embedding:   emb,
	})
}

// CheckIn verifies the probe embedding against the worker's stored
// embedding and, on a match, appends an attendance event and returns its
// direction. tolerance <= 0 falls back to the engine default. Nothing is
// appended when the face is not recognized.
func (e *Engine) CheckIn(ctx context.Context, identifier string, probe []float64, tolerance float64) (Direction, error) {
	if !ValidIdentifier(identifier) {
		return "", ErrInvalidIdentifier
	}
	if tolerance <= 0 {
		tolerance = e.tolerance
	}

	stored, err := e.workers.GetEmbedding(ctx, identifier)
	if err != nil {
		return "", err
	}
	ok, err := e.matcher.IsMatch(stored, probe, tolerance)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrFaceNotRecognized
	}

	return e.ledger.RecordEvent(ctx, identifier, e.now())
}

// UpdateWorker applies a partial update of the mutable worker fields.
func (e *Engine) UpdateWorker(ctx context.Context, identifier string, update MetadataUpdate) error {
	if !ValidIdentifier(identifier) {
		return ErrInvalidIdentifier
	}
	return e.workers.UpdateMetadata(ctx, identifier, update)
}

// RemoveWorker deletes a worker and all of its attendance events.
func (e *Engine) RemoveWorker(ctx context.Context, identifier string) error {
	if !ValidIdentifier(identifier) {
		return ErrInvalidIdentifier
	}
	return e.workers.Remove(ctx, identifier)
}

// ListWorkers returns worker metadata ordered by display name.
func (e *Engine) ListWorkers(ctx context.Context) ([]WorkerInfo, error) {
	return e.workers.ListAll(ctx)
}

// ListEvents returns a single worker's events, newest first.
func (e *Engine) ListEvents(ctx context.Context, identifier string) ([]Event, error) {
	if !ValidIdentifier(identifier) {
		return nil, ErrInvalidIdentifier
	}
	return e.ledger.ListEvents(ctx, identifier)
}

// Report returns every event joined with display names, newest first.
func (e *Engine) Report(ctx context.Context) ([]EventRecord, error) {
	return e.ledger.ListAllEvents(ctx)
}
