// Package activations provides the scalar activation functions used by dense layers.
package activations

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Activation is an activation function with derivative.
// Implementations are stateless and may be shared by any number of layers.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// Identity activation function.
type Identity struct{}

// Activate returns x unchanged.
func (Identity) Activate(x float64) float64 {
	return x
}

// Derivative is 1 everywhere.
func (Identity) Derivative(x float64) float64 {
	return 1
}

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// LeakyReLU lets a small slope through for negative inputs.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) LeakyReLU {
	return LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	tanhX := math.Tanh(x)
	return 1 - tanhX*tanhX
}

// DefaultLeakyAlpha is the slope used when "leaky_relu" is parsed by name.
const DefaultLeakyAlpha = 0.01

// Parse maps a configuration name to an activation.
// Names are case-insensitive; "linear" is an alias for "identity".
func Parse(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "identity", "linear":
		return Identity{}, nil
	case "sigmoid", "logistic":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "relu":
		return ReLU{}, nil
	case "leaky_relu", "leakyrelu":
		return NewLeakyReLU(DefaultLeakyAlpha), nil
	}
	return nil, errors.Errorf("unknown activation %q", name)
}

// Name returns the configuration name of a built-in activation.
func Name(a Activation) string {
	switch a.(type) {
	case Identity:
		return "identity"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case ReLU:
		return "relu"
	case LeakyReLU:
		return "leaky_relu"
	default:
		return "custom"
	}
}
