// Package similarity computes pairwise similarity scores between
// fixed-length embedding vectors.
//
// Two conventions are exposed: Compute returns the raw Gram matrix of
// inner products, ComputeCosine normalizes each vector first so every
// entry is a cosine similarity in [-1, 1]. Callers pick the convention
// that matches their provider; some models emit pre-normalized vectors,
// some do not.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/gonum"
)

var (
	// ErrEmptyBatch indicates a batch with zero embeddings.
	ErrEmptyBatch = errors.New("similarity: empty batch")

	// ErrDimensionMismatch indicates vectors of differing lengths in one batch.
	ErrDimensionMismatch = errors.New("similarity: dimension mismatch")
)

// Matrix is a square matrix of pairwise similarity scores.
// Entry (i, j) is the similarity between embeddings i and j, so the
// matrix is symmetric by construction.
type Matrix [][]float64

// Dim returns the number of rows (and columns) of the matrix.
func (m Matrix) Dim() int {
	return len(m)
}

// At returns the similarity score at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m[i][j]
}

// blasEngine dispatches float32 kernels to Gonum's BLAS implementation,
// which handles SIMD selection internally.
var blasEngine = gonum.Implementation{}

// Dot returns the inner product of two vectors.
// Fails with ErrDimensionMismatch when the lengths differ.
func Dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	return float64(blasEngine.Sdot(len(a), a, 1, b, 1)), nil
}

// Compute returns the Gram matrix of the batch: entry (i, j) is the raw
// inner product of embeddings i and j. If the input vectors are unit
// length the result is a cosine-similarity matrix with a diagonal of 1;
// otherwise the diagonal holds the squared norms and the caller owns the
// interpretation of scale.
func Compute(batch [][]float32) (Matrix, error) {
	if err := validate(batch); err != nil {
		return nil, err
	}
	return gram(batch), nil
}

// ComputeCosine normalizes every vector to unit length and returns the
// cosine-similarity matrix: all entries lie in [-1, 1] and the diagonal
// is 1 within floating-point tolerance. Zero vectors cannot be normalized
// and keep a similarity of 0 against everything, including themselves.
// The input batch is not mutated.
func ComputeCosine(batch [][]float32) (Matrix, error) {
	if err := validate(batch); err != nil {
		return nil, err
	}
	unit := make([][]float32, len(batch))
	for i, v := range batch {
		unit[i] = normalize(v)
	}
	return gram(unit), nil
}

// validate checks the batch preconditions shared by both matrix operations.
func validate(batch [][]float32) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	dim := len(batch[0])
	for i, v := range batch {
		if len(v) != dim {
			return fmt.Errorf("%w: vector 0 has %d dimensions, vector %d has %d", ErrDimensionMismatch, dim, i, len(v))
		}
	}
	return nil
}

// gram multiplies the batch by its own transpose. Only the upper triangle
// is computed; the lower triangle is mirrored.
func gram(batch [][]float32) Matrix {
	n := len(batch)
	dim := len(batch[0])
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			score := float64(blasEngine.Sdot(dim, batch[i], 1, batch[j], 1))
			m[i][j] = score
			m[j][i] = score
		}
	}
	return m
}

// normalize returns a unit-length copy of v, or an unscaled copy when the
// norm is zero or not finite.
func normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	norm := float64(blasEngine.Snrm2(len(v), v, 1))
	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		copy(out, v)
		return out
	}
	inv := float32(1 / norm)
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
