// Package linalg holds the dense matrix helpers shared by layers and networks.
//
// Weights are stored as *mat.Dense (rows = outputs, columns = inputs) and
// vectors as *mat.VecDense. The helpers below check shapes up front and
// return ErrShape instead of letting gonum panic.
package linalg

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShape reports incompatible matrix or vector dimensions.
var ErrShape = errors.New("dimension mismatch")

// MulVec returns m·v.
func MulVec(m mat.Matrix, v mat.Vector) (*mat.VecDense, error) {
	r, c := m.Dims()
	if c != v.Len() {
		return nil, errors.Wrapf(ErrShape, "multiply %dx%d matrix by vector of length %d", r, c, v.Len())
	}
	out := mat.NewVecDense(r, nil)
	out.MulVec(m, v)
	return out, nil
}

// Transpose returns a freshly allocated copy of mᵗ.
func Transpose(m mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(m.T())
}

// Outer returns the outer product a·bᵗ with shape len(a) x len(b).
func Outer(a, b mat.Vector) *mat.Dense {
	out := mat.NewDense(a.Len(), b.Len(), nil)
	out.Outer(1, a, b)
	return out
}

// Hadamard returns the elementwise product of two equal-length vectors.
func Hadamard(a, b mat.Vector) (*mat.VecDense, error) {
	if a.Len() != b.Len() {
		return nil, errors.Wrapf(ErrShape, "elementwise product of lengths %d and %d", a.Len(), b.Len())
	}
	out := mat.NewVecDense(a.Len(), nil)
	out.MulElemVec(a, b)
	return out, nil
}

// Vector copies s into a new vector. An empty slice is a shape error since
// gonum does not allow zero-length vectors.
func Vector(s []float64) (*mat.VecDense, error) {
	if len(s) == 0 {
		return nil, errors.Wrap(ErrShape, "empty vector")
	}
	data := make([]float64, len(s))
	copy(data, s)
	return mat.NewVecDense(len(data), data), nil
}

// Slice copies v into a plain slice.
func Slice(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
