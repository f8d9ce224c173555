// Package mock provides in-memory implementations of the attendance store
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

// Store is an in-memory implementation of attendance.WorkerStore and
// attendance.EventLedger. A single mutex serializes every operation, which
// trivially satisfies the scan-then-insert and per-identifier append
// critical sections.
type Store struct {
	mu        sync.Mutex
	matcher   *embedding.Matcher
	tolerance float64
	workers   map[string]attendance.Worker
	events    map[string][]attendance.Event

	// Error injection
	InsertError       error
	GetEmbeddingError error
	UpdateError       error
	RemoveError       error
	ListError         error
	RecordError       error
	ListEventsError   error
}

// NewStore creates an empty in-memory store using the given matcher and
// duplicate-face tolerance.
func NewStore(matcher *embedding.Matcher, tolerance float64) *Store {
	return &Store{
		matcher:   matcher,
		tolerance: tolerance,
		workers:   make(map[string]attendance.Worker),
		events:    make(map[string][]attendance.Event),
	}
}

// Insert commits a new worker after the duplicate-identifier and
// duplicate-face checks.
func (s *Store) Insert(ctx context.Context, w attendance.Worker) error {
	if s.InsertError != nil {
		return s.InsertError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[w.Identifier]; ok {
		return attendance.ErrDuplicateIdentifier
	}
	for _, existing := range s.workers {
		match, err := s.matcher.IsMatch(existing.Embedding, w.Embedding, s.tolerance)
		if err != nil {
			return err
		}
		if match {
			return attendance.ErrDuplicateFace
		}
	}

	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.Embedding = append([]float64(nil), w.Embedding...)
	s.workers[w.Identifier] = w
	return nil
}

// GetEmbedding returns the stored embedding for an identifier.
func (s *Store) GetEmbedding(ctx context.Context, identifier string) ([]float64, error) {
	if s.GetEmbeddingError != nil {
		return nil, s.GetEmbeddingError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[identifier]
	if !ok {
		return nil, attendance.ErrNotFound
	}
	return append([]float64(nil), w.Embedding...), nil
}

// UpdateMetadata applies a partial update of display name and role.
func (s *Store) UpdateMetadata(ctx context.Context, identifier string, update attendance.MetadataUpdate) error {
	if s.UpdateError != nil {
		return s.UpdateError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[identifier]
	if !ok {
		return attendance.ErrNotFound
	}
	if update.DisplayName != nil {
		w.DisplayName = *update.DisplayName
	}
	if update.Role != nil {
		w.Role = *update.Role
	}
	s.workers[identifier] = w
	return nil
}

// Remove deletes the worker and all of its events.
func (s *Store) Remove(ctx context.Context, identifier string) error {
	if s.RemoveError != nil {
		return s.RemoveError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[identifier]; !ok {
		return attendance.ErrNotFound
	}
	delete(s.workers, identifier)
	delete(s.events, identifier)
	return nil
}

// ListAll returns worker metadata ordered by display name, ties broken by
// identifier.
func (s *Store) ListAll(ctx context.Context) ([]attendance.WorkerInfo, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]attendance.WorkerInfo, 0, len(s.workers))
	for _, w := range s.workers {
		infos = append(infos, attendance.WorkerInfo{
			Identifier:  w.Identifier,
			DisplayName: w.DisplayName,
			Role:        w.Role,
			CreatedAt:   w.CreatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].DisplayName != infos[j].DisplayName {
			return infos[i].DisplayName < infos[j].DisplayName
		}
		return infos[i].Identifier < infos[j].Identifier
	})
	return infos, nil
}

// RecordEvent derives the direction from the newest stored event and
// appends a new one.
func (s *Store) RecordEvent(ctx context.Context, identifier string, now time.Time) (attendance.Direction, error) {
	if s.RecordError != nil {
		return "", s.RecordError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[identifier]; !ok {
		return "", attendance.ErrNotFound
	}

	direction := attendance.DirectionEntrance
	if history := s.events[identifier]; len(history) > 0 {
		if history[len(history)-1].Direction == attendance.DirectionEntrance {
			direction = attendance.DirectionExit
		}
	}

	s.events[identifier] = append(s.events[identifier], attendance.Event{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Direction:  direction,
		RecordedAt: now.UTC(),
	})
	return direction, nil
}

// ListEvents returns a worker's events, newest first.
func (s *Store) ListEvents(ctx context.Context, identifier string) ([]attendance.Event, error) {
	if s.ListEventsError != nil {
		return nil, s.ListEventsError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.events[identifier]
	out := make([]attendance.Event, len(history))
	for i, ev := range history {
		out[len(history)-1-i] = ev
	}
	return out, nil
}

// ListAllEvents returns every event joined with display names, newest first.
func (s *Store) ListAllEvents(ctx context.Context) ([]attendance.EventRecord, error) {
	if s.ListEventsError != nil {
		return nil, s.ListEventsError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []attendance.EventRecord
	for id, history := range s.events {
		name := s.workers[id].DisplayName
		for _, ev := range history {
			out = append(out, attendance.EventRecord{Event: ev, DisplayName: name})
		}
	}
	// Newest first, ties broken by id descending, same as the SQL store.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// EventCount returns the number of stored events for an identifier. Test
// helper only.
func (s *Store) EventCount(identifier string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[identifier])
}

// WorkerCount returns the number of enrolled workers. Test helper only.
func (s *Store) WorkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}
