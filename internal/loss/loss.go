// Package loss provides the cost functions a network is trained against.
package loss

import "gonum.org/v1/gonum/floats"

// Loss is a loss function with derivative.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. prediction.
	Backward(yPred, yTrue []float64) []float64
}

// Quadratic is half the sum of squared residuals: ½ Σ (y_pred - y_true)².
// It is not averaged over output dimensions.
type Quadratic struct{}

// Forward computes ½ Σ (y_pred - y_true)²
func (Quadratic) Forward(yPred, yTrue []float64) float64 {
	if len(yPred) != len(yTrue) {
		panic("Quadratic: prediction and target must have same length")
	}
	diff := make([]float64, len(yPred))
	floats.SubTo(diff, yPred, yTrue)
	return 0.5 * floats.Dot(diff, diff)
}

// Backward computes dL/dy_pred = y_pred - y_true
func (Quadratic) Backward(yPred, yTrue []float64) []float64 {
	if len(yPred) != len(yTrue) {
		panic("Quadratic: prediction and target must have same length")
	}
	grad := make([]float64, len(yPred))
	floats.SubTo(grad, yPred, yTrue)
	return grad
}
