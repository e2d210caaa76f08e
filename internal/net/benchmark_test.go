// Package net provides benchmarks for the two gradient strategies.
package net

import (
	"testing"

	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
)

func benchNetwork(b *testing.B, hidden int) *Network {
	n, err := New(2, specs(activations.Tanh{}, hidden, hidden, 1), WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	n.InitialiseParameters()
	return n
}

// BenchmarkFeedForward benchmarks inference through a 2-16-16-1 network.
func BenchmarkFeedForward(b *testing.B) {
	n := benchNetwork(b, 16)
	input := []float64{0.3, 0.7}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.FeedForward(input)
	}
}

// BenchmarkBackpropagation benchmarks the analytic gradient of one sample.
func BenchmarkBackpropagation(b *testing.B) {
	n := benchNetwork(b, 16)
	input, target := []float64{0.3, 0.7}, []float64{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Backpropagation(input, target)
	}
}

// BenchmarkFiniteDifference benchmarks the numeric gradient of one sample.
func BenchmarkFiniteDifference(b *testing.B) {
	n := benchNetwork(b, 16)
	input, target := []float64{0.3, 0.7}, []float64{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.FiniteDifference(input, target)
	}
}

// BenchmarkTrainXOR benchmarks 100 training sweeps over XOR.
func BenchmarkTrainXOR(b *testing.B) {
	n := benchNetwork(b, 4)
	data := dataset.XOR()
	cfg := TrainConfig{LearningRate: 0.1, TargetCost: -1, MaxIterations: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := n.Train(data, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
