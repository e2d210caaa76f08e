package net

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
)

// FiniteDifference approximates the single-sample cost gradient numerically.
// Every weight and bias is probed on its own with the central difference
//
//	(C(θ+ε) - C(θ-ε)) / 2ε
//
// and restored before the next one, so the network is unchanged on return.
// It costs two forward passes per parameter.
func (n *Network) FiniteDifference(input, target []float64) (*Gradients, error) {
	if err := n.checkSample(input, target); err != nil {
		return nil, err
	}

	var evalErr error
	cost := func() float64 {
		c, err := n.Cost(input, target)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return c
	}
	settings := &fd.Settings{Formula: fd.Central, Step: n.fdStep}

	g := NewGradients(n)
	for l, ly := range n.layers {
		w := ly.Weights()
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				orig := w.At(i, j)
				d := fd.Derivative(func(v float64) float64 {
					w.Set(i, j, v)
					return cost()
				}, orig, settings)
				w.Set(i, j, orig)
				g.Weights[l].Set(i, j, d)
			}
		}

		b := ly.Biases()
		for i := 0; i < b.Len(); i++ {
			orig := b.AtVec(i)
			d := fd.Derivative(func(v float64) float64 {
				b.SetVec(i, v)
				return cost()
			}, orig, settings)
			b.SetVec(i, orig)
			g.Biases[l].SetVec(i, d)
		}
	}
	if evalErr != nil {
		return nil, errors.Wrap(evalErr, "finite difference")
	}
	return g, nil
}
