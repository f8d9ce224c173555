package embedding

import (
	"errors"
	"math"
	"testing"
)

func TestMatcherDistance(t *testing.T) {
	m := NewMatcher(3)

	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"unit apart", []float64{0, 0, 0}, []float64{1, 0, 0}, 1},
		{"pythagorean", []float64{0, 0, 0}, []float64{3, 4, 0}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := m.Distance(tc.a, tc.b)
			if err != nil {
				t.Fatalf("Distance failed: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Distance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatcherSymmetry(t *testing.T) {
	m := NewMatcher(4)
	a := []float64{0.1, -0.2, 0.3, -0.4}
	b := []float64{0.5, 0.6, -0.7, 0.8}

	for _, tol := range []float64{0.0, 0.5, 0.6, 2.0} {
		ab, err := m.IsMatch(a, b, tol)
		if err != nil {
			t.Fatalf("IsMatch(a, b, %v) failed: %v", tol, err)
		}
		ba, err := m.IsMatch(b, a, tol)
		if err != nil {
			t.Fatalf("IsMatch(b, a, %v) failed: %v", tol, err)
		}
		if ab != ba {
			t.Errorf("tolerance %v: IsMatch(a, b) = %v but IsMatch(b, a) = %v", tol, ab, ba)
		}
	}
}

func TestMatcherToleranceBoundary(t *testing.T) {
	m := NewMatcher(2)
	a := []float64{0, 0}
	b := []float64{0.6, 0} // distance exactly 0.6

	ok, err := m.IsMatch(a, b, 0.6)
	if err != nil {
		t.Fatalf("IsMatch failed: %v", err)
	}
	if !ok {
		t.Error("distance equal to tolerance should match")
	}

	ok, err = m.IsMatch(a, b, 0.59)
	if err != nil {
		t.Fatalf("IsMatch failed: %v", err)
	}
	if ok {
		t.Error("distance above tolerance should not match")
	}
}

func TestMatcherDimensionMismatch(t *testing.T) {
	m := NewMatcher(3)

	if _, err := m.Distance([]float64{1, 2}, []float64{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short first vector: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := m.Distance([]float64{1, 2, 3}, []float64{1, 2, 3, 4}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("long second vector: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := m.CompareMany([][]float64{{1, 2, 3}}, []float64{1, 2}, 0.6); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short probe: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestMatcherCompareMany(t *testing.T) {
	m := NewMatcher(2)
	probe := []float64{0, 0}
	candidates := [][]float64{
		{0.1, 0},  // match
		{5, 5},    // no match
		{0, 0.59}, // match
		{0.7, 0},  // no match
	}

	got, err := m.CompareMany(candidates, probe, 0.6)
	if err != nil {
		t.Fatalf("CompareMany failed: %v", err)
	}
	want := []bool{true, false, true, false}
	if len(got) != len(want) {
		t.Fatalf("result length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMatcherCompareManyEmpty(t *testing.T) {
	m := NewMatcher(2)
	got, err := m.CompareMany(nil, []float64{0, 0}, 0.6)
	if err != nil {
		t.Fatalf("CompareMany failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d entries", len(got))
	}
}
