// Package activations provides benchmarks for activation functions.
package activations

import (
	"math/rand"
	"testing"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()*4 - 2
	}
}

func benchmarkActivate(b *testing.B, a Activation) {
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			a.Activate(x)
		}
	}
}

func benchmarkDerivative(b *testing.B, a Activation) {
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			a.Derivative(x)
		}
	}
}

func BenchmarkTanhActivate(b *testing.B)       { benchmarkActivate(b, Tanh{}) }
func BenchmarkTanhDerivative(b *testing.B)     { benchmarkDerivative(b, Tanh{}) }
func BenchmarkSigmoidActivate(b *testing.B)    { benchmarkActivate(b, Sigmoid{}) }
func BenchmarkSigmoidDerivative(b *testing.B)  { benchmarkDerivative(b, Sigmoid{}) }
func BenchmarkReLUActivate(b *testing.B)       { benchmarkActivate(b, ReLU{}) }
func BenchmarkIdentityDerivative(b *testing.B) { benchmarkDerivative(b, Identity{}) }
