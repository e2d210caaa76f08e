package net

import (
	"github.com/FlavioCFOliveira/gradnet/internal/linalg"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Backpropagation returns the analytic gradient of the single-sample cost
// with respect to every weight and bias.
//
// With a[0] the input, a[l+1] and z[l] the activation and pre-activation of
// layer l, and L the number of layers:
//
//	delta = C'(a[L], y) ⊙ σ'(z[L-1])
//	delta = (W[l+1]ᵗ · delta) ⊙ σ'(z[l])     for l = L-2 .. 0
//	∂C/∂W[l] = delta · a[l]ᵗ,  ∂C/∂b[l] = delta
func (n *Network) Backpropagation(input, target []float64) (*Gradients, error) {
	if err := n.checkSample(input, target); err != nil {
		return nil, err
	}
	x, err := linalg.Vector(input)
	if err != nil {
		return nil, err
	}

	numLayers := len(n.layers)
	acts := make([]*mat.VecDense, 0, numLayers+1)
	zs := make([]*mat.VecDense, 0, numLayers)
	acts = append(acts, x)
	for i, l := range n.layers {
		a, z, err := l.Forward(acts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		acts = append(acts, a)
		zs = append(zs, z)
	}

	g := &Gradients{
		Weights: make([]*mat.Dense, numLayers),
		Biases:  make([]*mat.VecDense, numLayers),
	}

	last := numLayers - 1
	delta, err := linalg.Vector(n.loss.Backward(linalg.Slice(acts[numLayers]), target))
	if err != nil {
		return nil, err
	}
	if delta, err = linalg.Hadamard(delta, n.layers[last].Derivative(zs[last])); err != nil {
		return nil, err
	}
	g.Weights[last] = linalg.Outer(delta, acts[last])
	g.Biases[last] = delta

	for l := last - 1; l >= 0; l-- {
		delta, err = linalg.MulVec(linalg.Transpose(n.layers[l+1].Weights()), delta)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", l)
		}
		if delta, err = linalg.Hadamard(delta, n.layers[l].Derivative(zs[l])); err != nil {
			return nil, errors.Wrapf(err, "layer %d", l)
		}
		g.Weights[l] = linalg.Outer(delta, acts[l])
		g.Biases[l] = delta
	}
	return g, nil
}
