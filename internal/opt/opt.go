// Package opt provides the parameter update rule used during training.
package opt

import "gonum.org/v1/gonum/mat"

// SGD (Stochastic Gradient Descent) with an L2 term folded into the weight
// gradient:
//
//	w -= lr * (g_w + lambda*w)
//	b -= lr * g_b
//
// Lambda is added to the gradient unscaled; biases are never regularised.
type SGD struct {
	LearningRate float64
	Lambda       float64
}

// StepInPlace updates params in-place: params = params - lr * (gradients + lambda*params)
func (s SGD) StepInPlace(params, gradients []float64) {
	for i := range params {
		params[i] -= s.LearningRate * (gradients[i] + s.Lambda*params[i])
	}
}

// StepWeights applies the regularised update to a weight matrix in place.
// w and g must have the same shape.
func (s SGD) StepWeights(w *mat.Dense, g mat.Matrix) {
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := w.At(i, j)
			w.Set(i, j, v-s.LearningRate*(g.At(i, j)+s.Lambda*v))
		}
	}
}

// StepBiases applies the plain update to a bias vector in place.
func (s SGD) StepBiases(b *mat.VecDense, g mat.Vector) {
	b.AddScaledVec(b, -s.LearningRate, g)
}
