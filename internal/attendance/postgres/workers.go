package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

// WorkerRepository provides PostgreSQL-backed worker storage. The
// duplicate-face check decodes and compares every stored embedding; the
// scan and the insert run inside one transaction holding an advisory lock,
// so two concurrent enrollments with near-identical faces cannot both
// commit.
type WorkerRepository struct {
	pool      *Pool
	codec     *embedding.Codec
	matcher   *embedding.Matcher
	tolerance float64
}

// NewWorkerRepository creates a worker repository using the given codec,
// matcher and duplicate-face tolerance.
func NewWorkerRepository(pool *Pool, codec *embedding.Codec, matcher *embedding.Matcher, tolerance float64) *WorkerRepository {
	return &WorkerRepository{
		pool:      pool,
		codec:     codec,
		matcher:   matcher,
		tolerance: tolerance,
	}
}

// Insert commits a new worker after the uniqueness checks.
func (r *WorkerRepository) Insert(ctx context.Context, w attendance.Worker) error {
	blob, err := r.codec.Encode(w.Embedding)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return attendance.NewStorageError("insert worker", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Serialize the scan-then-insert sequence; the lock is released on
	// commit or rollback.
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", enrollLockKey); err != nil {
		return attendance.NewStorageError("insert worker", err)
	}

	var exists bool
	err = tx.QueryRowContext(
		ctx, "SELECT EXISTS(SELECT 1 FROM workers WHERE identifier = $1)", w.Identifier,
	).Scan(&exists)
	if err != nil {
		return attendance.NewStorageError("insert worker", err)
	}
	if exists {
		return attendance.ErrDuplicateIdentifier
	}

	// Linear scan over all stored embeddings. O(n) per enrollment by
	// contract; worker sets are expected to stay in the low thousands.
	rows, err := tx.QueryContext(ctx, "SELECT embedding FROM workers")
	if err != nil {
		return attendance.NewStorageError("insert worker", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stored []byte
		if err := rows.Scan(&stored); err != nil {
			return attendance.NewStorageError("insert worker", err)
		}
		vec, err := r.codec.Decode(stored)
		if err != nil {
			return err
		}
		match, err := r.matcher.IsMatch(vec, w.Embedding, r.tolerance)
		if err != nil {
			return err
		}
		if match {
			return attendance.ErrDuplicateFace
		}
	}
	if err := rows.Err(); err != nil {
		return attendance.NewStorageError("insert worker", err)
	}
	rows.Close()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workers (identifier, display_name, role, embedding, dim, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, w.Identifier, w.DisplayName, w.Role, blob, r.codec.Dim())
	if err != nil {
		return attendance.NewStorageError("insert worker", err)
	}

	if err := tx.Commit(); err != nil {
		return attendance.NewStorageError("insert worker", err)
	}
	return nil
}

// GetEmbedding returns the decoded embedding for an identifier.
func (r *WorkerRepository) GetEmbedding(ctx context.Context, identifier string) ([]float64, error) {
	var blob []byte
	err := r.pool.QueryRow(
		ctx, "SELECT embedding FROM workers WHERE identifier = $1", identifier,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, attendance.ErrNotFound
	}
	if err != nil {
		return nil, attendance.NewStorageError("get embedding", err)
	}
	return r.codec.Decode(blob)
}

// UpdateMetadata applies a partial update of display name and role.
func (r *WorkerRepository) UpdateMetadata(ctx context.Context, identifier string, update attendance.MetadataUpdate) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE workers
		SET display_name = COALESCE($2, display_name),
		    role         = COALESCE($3, role)
		WHERE identifier = $1
	`, identifier, update.DisplayName, update.Role)
	if err != nil {
		return attendance.NewStorageError("update metadata", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return attendance.NewStorageError("update metadata", err)
	}
	if affected == 0 {
		return attendance.ErrNotFound
	}
	return nil
}

// Remove deletes the worker and all of its attendance events in one
// transaction.
func (r *WorkerRepository) Remove(ctx context.Context, identifier string) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return attendance.NewStorageError("remove worker", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_events WHERE identifier = $1", identifier); err != nil {
		return attendance.NewStorageError("remove worker", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM workers WHERE identifier = $1", identifier)
	if err != nil {
		return attendance.NewStorageError("remove worker", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return attendance.NewStorageError("remove worker", err)
	}
	if affected == 0 {
		return attendance.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return attendance.NewStorageError("remove worker", err)
	}
	return nil
}

// ListAll returns worker metadata ordered by display name, ties broken by
// identifier. Embeddings are never selected.
func (r *WorkerRepository) ListAll(ctx context.Context) ([]attendance.WorkerInfo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT identifier, display_name, role, created_at
		FROM workers
		ORDER BY display_name COLLATE "C", identifier
	`)
	if err != nil {
		return nil, attendance.NewStorageError("list workers", err)
	}
	defer rows.Close()

	var infos []attendance.WorkerInfo
	for rows.Next() {
		var info attendance.WorkerInfo
		var createdAt time.Time
		if err := rows.Scan(&info.Identifier, &info.DisplayName, &info.Role, &createdAt); err != nil {
			return nil, attendance.NewStorageError("list workers", err)
		}
		info.CreatedAt = createdAt.UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, attendance.NewStorageError("list workers", err)
	}
	return infos, nil
}
