package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-clock/internal/attendance"
)

// EventRepository provides PostgreSQL-backed attendance event storage. The
// ledger is append-only; direction is derived from history on every append
// instead of keeping a separate status column.
type EventRepository struct {
	pool *Pool
}

// NewEventRepository creates an event repository.
func NewEventRepository(pool *Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// RecordEvent derives the next direction from the newest stored event and
// appends a new one. The read-then-append runs inside a transaction holding
// a per-identifier advisory lock, so two concurrent check-ins for the same
// worker cannot both read the same last event.
func (r *EventRepository) RecordEvent(ctx context.Context, identifier string, now time.Time) (attendance.Direction, error) {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return "", attendance.NewStorageError("record event", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", identifierLockKey(identifier)); err != nil {
		return "", attendance.NewStorageError("record event", err)
	}

	var exists bool
	err = tx.QueryRowContext(
		ctx, "SELECT EXISTS(SELECT 1 FROM workers WHERE identifier = $1)", identifier,
	).Scan(&exists)
	if err != nil {
		return "", attendance.NewStorageError("record event", err)
	}
	if !exists {
		return "", attendance.ErrNotFound
	}

	direction := attendance.DirectionEntrance
	var last string
	err = tx.QueryRowContext(ctx, `
		SELECT direction
		FROM attendance_events
		WHERE identifier = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`, identifier).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", attendance.NewStorageError("record event", err)
	}
	if err == nil && attendance.Direction(last) == attendance.DirectionEntrance {
		direction = attendance.DirectionExit
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attendance_events (id, identifier, direction, recorded_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), identifier, string(direction), now.UTC())
	if err != nil {
		return "", attendance.NewStorageError("record event", err)
	}

	if err := tx.Commit(); err != nil {
		return "", attendance.NewStorageError("record event", err)
	}
	return direction, nil
}

// ListEvents returns a worker's events, newest first.
func (r *EventRepository) ListEvents(ctx context.Context, identifier string) ([]attendance.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identifier, direction, recorded_at
		FROM attendance_events
		WHERE identifier = $1
		ORDER BY recorded_at DESC, id DESC
	`, identifier)
	if err != nil {
		return nil, attendance.NewStorageError("list events", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListAllEvents returns every event joined with the worker's display name,
// newest first.
func (r *EventRepository) ListAllEvents(ctx context.Context) ([]attendance.EventRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.identifier, e.direction, e.recorded_at, w.display_name
		FROM attendance_events e
		JOIN workers w ON w.identifier = e.identifier
		ORDER BY e.recorded_at DESC, e.id DESC
	`)
	if err != nil {
		return nil, attendance.NewStorageError("list all events", err)
	}
	defer rows.Close()

	var records []attendance.EventRecord
	for rows.Next() {
		var rec attendance.EventRecord
		var direction string
		var recordedAt time.Time
		if err := rows.Scan(&rec.ID, &rec.Identifier, &direction, &recordedAt, &rec.DisplayName); err != nil {
			return nil, attendance.NewStorageError("list all events", err)
		}
		rec.Direction = attendance.Direction(direction)
		rec.RecordedAt = recordedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, attendance.NewStorageError("list all events", err)
	}
	return records, nil
}

func scanEvents(rows *sql.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var ev attendance.Event
		var direction string
		var recordedAt time.Time
		if err := rows.Scan(&ev.ID, &ev.Identifier, &direction, &recordedAt); err != nil {
			return nil, attendance.NewStorageError("scan events", err)
		}
		ev.Direction = attendance.Direction(direction)
		ev.RecordedAt = recordedAt.UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, attendance.NewStorageError("scan events", err)
	}
	return events, nil
}
