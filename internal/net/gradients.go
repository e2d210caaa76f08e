package net

import (
	"math"

	"github.com/FlavioCFOliveira/gradnet/internal/linalg"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Gradients holds one weight-shaped and one bias-shaped buffer per layer.
type Gradients struct {
	Weights []*mat.Dense
	Biases  []*mat.VecDense
}

// NewGradients returns zeroed buffers shaped like n's parameters.
func NewGradients(n *Network) *Gradients {
	g := &Gradients{
		Weights: make([]*mat.Dense, len(n.layers)),
		Biases:  make([]*mat.VecDense, len(n.layers)),
	}
	for i, l := range n.layers {
		g.Weights[i] = mat.NewDense(l.OutSize(), l.InSize(), nil)
		g.Biases[i] = mat.NewVecDense(l.OutSize(), nil)
	}
	return g
}

// Flatten returns the gradient in the same order as Network.Params.
func (g *Gradients) Flatten() []float64 {
	var out []float64
	for i := range g.Weights {
		r, _ := g.Weights[i].Dims()
		for row := 0; row < r; row++ {
			out = append(out, g.Weights[i].RawRowView(row)...)
		}
		out = append(out, linalg.Slice(g.Biases[i])...)
	}
	return out
}

// MaxRelativeError compares two gradients componentwise and returns
// max |a-b| / max(1, |a|, |b|). Components smaller than one are therefore
// compared in absolute terms.
func (g *Gradients) MaxRelativeError(other *Gradients) (float64, error) {
	a, b := g.Flatten(), other.Flatten()
	if len(a) != len(b) || len(g.Weights) != len(other.Weights) {
		return 0, errors.Wrapf(linalg.ErrShape, "comparing gradients of %d and %d components", len(a), len(b))
	}
	for i := range g.Weights {
		if !sameShape(g.Weights[i], other.Weights[i]) {
			return 0, errors.Wrapf(linalg.ErrShape, "layer %d weight gradients differ in shape", i)
		}
	}

	var worst float64
	for i := range a {
		scale := math.Max(1, math.Max(math.Abs(a[i]), math.Abs(b[i])))
		if e := math.Abs(a[i]-b[i]) / scale; e > worst || math.IsNaN(e) {
			worst = e
		}
	}
	return worst, nil
}

func sameShape(a, b mat.Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}
