// Package opt provides benchmarks for the update rule.
package opt

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()
	}
}

// BenchmarkSGDStepInPlace benchmarks SGD StepInPlace method.
func BenchmarkSGDStepInPlace(b *testing.B) {
	sgd := SGD{LearningRate: 0.01, Lambda: 1e-4}
	params := make([]float64, 1000)
	gradients := make([]float64, 1000)
	fillRandom(params)
	fillRandom(gradients)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sgd.StepInPlace(params, gradients)
	}
}

// BenchmarkSGDStepWeights benchmarks the matrix update on a 32x32 layer.
func BenchmarkSGDStepWeights(b *testing.B) {
	sgd := SGD{LearningRate: 0.01, Lambda: 1e-4}
	wData := make([]float64, 32*32)
	gData := make([]float64, 32*32)
	fillRandom(wData)
	fillRandom(gData)
	w := mat.NewDense(32, 32, wData)
	g := mat.NewDense(32, 32, gData)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sgd.StepWeights(w, g)
	}
}
