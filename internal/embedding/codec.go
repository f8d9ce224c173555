// Package embedding holds the numeric core of the face engine: the binary
// codec used to persist embeddings and the similarity matcher that decides
// whether two embeddings belong to the same face.
package embedding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// elementWidth is the storage width of a single vector element in bytes.
// Embeddings are stored as little-endian IEEE 754 float64 values.
const elementWidth = 8

// ErrMalformedEmbedding is returned when a stored blob cannot be decoded
// back into a vector of the configured dimensionality.
var ErrMalformedEmbedding = errors.New("malformed embedding blob")

// Codec serializes fixed-dimension float64 vectors to opaque byte blobs.
// Encoding is exact; Decode(Encode(v)) reproduces v bit for bit.
type Codec struct {
	dim int
}

// NewCodec creates a codec for vectors of the given dimensionality.
func NewCodec(dim int) *Codec {
	return &Codec{dim: dim}
}

// Dim returns the fixed vector dimensionality.
func (c *Codec) Dim() int {
	return c.dim
}

// Encode encodes a vector into a little-endian float64 blob.
// The vector length must equal the configured dimensionality.
func (c *Codec) Encode(vec []float64) ([]byte, error) {
	if len(vec) != c.dim {
		return nil, fmt.Errorf("%w: expected %d elements, got %d", ErrDimensionMismatch, c.dim, len(vec))
	}
	b := make([]byte, len(vec)*elementWidth)
	for i, v := range vec {
		binary.LittleEndian.PutUint64(b[i*elementWidth:], math.Float64bits(v))
	}
	return b, nil
}

// Decode decodes a blob produced by Encode. It fails with
// ErrMalformedEmbedding when the blob length is not a multiple of the
// element width or when the element count differs from the configured
// dimensionality.
func (c *Codec) Decode(b []byte) ([]float64, error) {
	if len(b)%elementWidth != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedEmbedding, len(b), elementWidth)
	}
	n := len(b) / elementWidth
	if n != c.dim {
		return nil, fmt.Errorf("%w: decoded %d elements, expected %d", ErrMalformedEmbedding, n, c.dim)
	}
	vec := make([]float64, n)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*elementWidth:]))
	}
	return vec, nil
}
