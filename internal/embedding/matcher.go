package embedding

import (
	"errors"
	"fmt"
	"math"
)

// DefaultDim is the dimensionality of the face embedding model in use.
const DefaultDim = 128

// DefaultTolerance is the default maximum Euclidean distance for two
// embeddings to be considered the same face.
const DefaultTolerance = 0.6

// ErrDimensionMismatch is returned when a vector's length disagrees with
// the configured dimensionality.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Matcher compares embeddings using Euclidean distance. It is a pure
// component: no state beyond the fixed dimensionality, no I/O. The
// tolerance is always supplied by the caller so that policy stays with
// the facade.
type Matcher struct {
	dim int
}

// NewMatcher creates a matcher for vectors of the given dimensionality.
func NewMatcher(dim int) *Matcher {
	return &Matcher{dim: dim}
}

// Distance computes the Euclidean distance between two vectors.
func (m *Matcher) Distance(a, b []float64) (float64, error) {
	if err := m.check(a); err != nil {
		return 0, err
	}
	if err := m.check(b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// IsMatch reports whether the distance between a and b is within tolerance.
func (m *Matcher) IsMatch(a, b []float64, tolerance float64) (bool, error) {
	d, err := m.Distance(a, b)
	if err != nil {
		return false, err
	}
	return d <= tolerance, nil
}

// CompareMany compares a probe against every candidate and returns one
// boolean per candidate, in input order. Any vector with the wrong
// dimensionality fails the whole call.
func (m *Matcher) CompareMany(candidates [][]float64, probe []float64, tolerance float64) ([]bool, error) {
	if err := m.check(probe); err != nil {
		return nil, err
	}
	results := make([]bool, len(candidates))
	for i, c := range candidates {
		ok, err := m.IsMatch(c, probe, tolerance)
		if err != nil {
			return nil, err
		}
		results[i] = ok
	}
	return results, nil
}

func (m *Matcher) check(v []float64) error {
	if len(v) != m.dim {
		return fmt.Errorf("%w: expected %d elements, got %d", ErrDimensionMismatch, m.dim, len(v))
	}
	return nil
}
