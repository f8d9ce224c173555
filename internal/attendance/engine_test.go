package attendance_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/attendance/mock"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

const (
	testDim       = 8
	testTolerance = 0.6
)

// testEmbedding builds a deterministic embedding far from every other seed.
// Embeddings for different seeds are at least distance 2 apart, well outside
// the test tolerance.
func testEmbedding(seed int) []float64 {
	v := make([]float64, testDim)
	v[seed%testDim] = 2.0 * float64(seed/testDim+1)
	v[(seed+1)%testDim] = float64(seed)
	return v
}

// nearby returns a copy of v nudged by eps in the first coordinate.
func nearby(v []float64, eps float64) []float64 {
	out := append([]float64(nil), v...)
	out[0] += eps
	return out
}

func newTestEngine() (*attendance.Engine, *mock.Store) {
	matcher := embedding.NewMatcher(testDim)
	store := mock.NewStore(matcher, testTolerance)
	return attendance.NewEngine(store, store, matcher, testTolerance), store
}

func TestEnrollInvalidIdentifier(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	tests := []string{"", "123", "123456789012", "1234567890a", "12345 78901"}
	for _, id := range tests {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			err := engine.Enroll(ctx, id, "Worker", "Operator", testEmbedding(1))
			if !errors.Is(err, attendance.ErrInvalidIdentifier) {
				t.Errorf("expected ErrInvalidIdentifier, got %v", err)
			}
		})
	}
}

func TestEnrollDuplicateIdentifierAndFace(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()
	e1 := testEmbedding(1)

	if err := engine.Enroll(ctx, "12345678901", "Ana", "Operator", e1); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}

	// Same identifier, any embedding.
	err := engine.Enroll(ctx, "12345678901", "Ana Again", "Operator", testEmbedding(2))
	if !errors.Is(err, attendance.ErrDuplicateIdentifier) {
		t.Errorf("expected ErrDuplicateIdentifier, got %v", err)
	}

	// Different identifier, embedding equal to E1.
	err = engine.Enroll(ctx, "98765432109", "Bruno", "Supervisor", append([]float64(nil), e1...))
	if !errors.Is(err, attendance.ErrDuplicateFace) {
		t.Errorf("expected ErrDuplicateFace, got %v", err)
	}

	// Different identifier, embedding within tolerance of E1.
	err = engine.Enroll(ctx, "98765432109", "Bruno", "Supervisor", nearby(e1, 0.3))
	if !errors.Is(err, attendance.ErrDuplicateFace) {
		t.Errorf("near-duplicate face: expected ErrDuplicateFace, got %v", err)
	}
}

func TestEnrollDedupOrderIndependence(t *testing.T) {
	a := testEmbedding(1)
	b := nearby(a, 0.3) // within tolerance of a

	for _, order := range [][2][]float64{{a, b}, {b, a}} {
		engine, _ := newTestEngine()
		ctx := context.Background()

		if err := engine.Enroll(ctx, "11111111111", "First", "Operator", order[0]); err != nil {
			t.Fatalf("first enrollment failed: %v", err)
		}
		err := engine.Enroll(ctx, "22222222222", "Second", "Operator", order[1])
		if !errors.Is(err, attendance.ErrDuplicateFace) {
			t.Errorf("expected ErrDuplicateFace regardless of insertion order, got %v", err)
		}
	}
}

func TestCheckInAlternation(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()
	e1 := testEmbedding(1)

	if err := engine.Enroll(ctx, "11111111111", "Ana", "Operator", e1); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	probe := nearby(e1, 0.1)
	want := []attendance.Direction{
		attendance.DirectionEntrance,
		attendance.DirectionExit,
		attendance.DirectionEntrance,
		attendance.DirectionExit,
		attendance.DirectionEntrance,
	}
	for i, expected := range want {
		got, err := engine.CheckIn(ctx, "11111111111", probe, testTolerance)
		if err != nil {
			t.Fatalf("check-in %d failed: %v", i, err)
		}
		if got != expected {
			t.Errorf("check-in %d: direction = %s, want %s", i, got, expected)
		}
	}

	// The stored history must alternate starting with entrance, newest first.
	events, err := engine.ListEvents(ctx, "11111111111")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != len(want) {
		t.Fatalf("stored %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		expected := want[len(want)-1-i]
		if ev.Direction != expected {
			t.Errorf("event %d (newest first): direction = %s, want %s", i, ev.Direction, expected)
		}
	}
}

func TestCheckInUnknownWorker(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.CheckIn(context.Background(), "00000000000", testEmbedding(1), testTolerance)
	if !errors.Is(err, attendance.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckInFaceNotRecognized(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if err := engine.Enroll(ctx, "11111111111", "Ana", "Operator", testEmbedding(1)); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	_, err := engine.CheckIn(ctx, "11111111111", testEmbedding(9), testTolerance)
	if !errors.Is(err, attendance.ErrFaceNotRecognized) {
		t.Errorf("expected ErrFaceNotRecognized, got %v", err)
	}
	if n := store.EventCount("11111111111"); n != 0 {
		t.Errorf("rejected check-in must not append events, ledger has %d", n)
	}
}

func TestCheckInDimensionMismatch(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	if err := engine.Enroll(ctx, "11111111111", "Ana", "Operator", testEmbedding(1)); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	_, err := engine.CheckIn(ctx, "11111111111", []float64{1, 2, 3}, testTolerance)
	if !errors.Is(err, embedding.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if n := store.EventCount("11111111111"); n != 0 {
		t.Errorf("invalid probe must not append events, ledger has %d", n)
	}
}

func TestUpdateAndRemoveWorker(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()
	e1 := testEmbedding(1)

	if err := engine.Enroll(ctx, "11111111111", "Ana", "Operator", e1); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	role := "Supervisor"
	if err := engine.UpdateWorker(ctx, "11111111111", attendance.MetadataUpdate{Role: &role}); err != nil {
		t.Fatalf("UpdateWorker failed: %v", err)
	}
	workers, err := engine.ListWorkers(ctx)
	if err != nil {
		t.Fatalf("ListWorkers failed: %v", err)
	}
	if len(workers) != 1 || workers[0].Role != "Supervisor" || workers[0].DisplayName != "Ana" {
		t.Errorf("unexpected listing after update: %+v", workers)
	}

	if _, err := engine.CheckIn(ctx, "11111111111", nearby(e1, 0.1), testTolerance); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	if err := engine.RemoveWorker(ctx, "11111111111"); err != nil {
		t.Fatalf("RemoveWorker failed: %v", err)
	}
	if store.WorkerCount() != 0 {
		t.Error("worker still present after removal")
	}
	if n := store.EventCount("11111111111"); n != 0 {
		t.Errorf("removal must cascade event deletion, ledger still has %d", n)
	}
	if err := engine.RemoveWorker(ctx, "11111111111"); !errors.Is(err, attendance.ErrNotFound) {
		t.Errorf("second removal: expected ErrNotFound, got %v", err)
	}
}

func TestListWorkersOrdering(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	enroll := []struct {
		id, name string
		seed     int
	}{
		{"33333333333", "Carla", 3},
		{"11111111111", "Ana", 1},
		{"44444444444", "Ana", 4}, // same name, higher identifier
		{"22222222222", "Bruno", 2},
	}
	for _, e := range enroll {
		if err := engine.Enroll(ctx, e.id, e.name, "Operator", testEmbedding(e.seed*10)); err != nil {
			t.Fatalf("enrollment of %s failed: %v", e.id, err)
		}
	}

	workers, err := engine.ListWorkers(ctx)
	if err != nil {
		t.Fatalf("ListWorkers failed: %v", err)
	}
	wantOrder := []string{"11111111111", "44444444444", "22222222222", "33333333333"}
	if len(workers) != len(wantOrder) {
		t.Fatalf("listed %d workers, want %d", len(workers), len(wantOrder))
	}
	for i, id := range wantOrder {
		if workers[i].Identifier != id {
			t.Errorf("position %d: got %s, want %s", i, workers[i].Identifier, id)
		}
	}
}

func TestConcurrentEnrollments(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("%011d", i+1)
			errs[i] = engine.Enroll(ctx, id, fmt.Sprintf("Worker %d", i), "Operator", testEmbedding(i*10))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("enrollment %d failed: %v", i, err)
		}
	}
	if store.WorkerCount() != n {
		t.Errorf("worker count = %d, want %d", store.WorkerCount(), n)
	}
}

func TestStorageFailurePropagation(t *testing.T) {
	matcher := embedding.NewMatcher(testDim)
	store := mock.NewStore(matcher, testTolerance)
	engine := attendance.NewEngine(store, store, matcher, testTolerance)
	ctx := context.Background()

	store.InsertError = attendance.NewStorageError("insert worker", errors.New("connection reset"))
	err := engine.Enroll(ctx, "11111111111", "Ana", "Operator", testEmbedding(1))
	if !attendance.IsStorageError(err) {
		t.Errorf("expected a storage error, got %v", err)
	}
}
