package net

import (
	"math"
	"testing"

	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/linalg"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func randomSlice(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

func TestBackpropagationKnownGradient(t *testing.T) {
	n := mustNew(t, 1, specs(activations.Identity{}, 1))
	require.NoError(t, n.SetParams([]float64{2, 1}))

	// out = 2*3 + 1 = 7, delta = 7 - 4 = 3
	g, err := n.Backpropagation([]float64{3}, []float64{4})
	require.NoError(t, err)

	assert.InDelta(t, 9.0, g.Weights[0].At(0, 0), 1e-12)
	assert.InDelta(t, 3.0, g.Biases[0].AtVec(0), 1e-12)
}

func TestBackpropagationTwoLayerByHand(t *testing.T) {
	n := mustNew(t, 1, []LayerSpec{
		{Size: 1, Activation: activations.Tanh{}},
		{Size: 1, Activation: activations.Identity{}},
	})
	// h = tanh(0.5x), y = 2h
	require.NoError(t, n.SetParams([]float64{0.5, 0, 2, 0}))

	x, target := 1.0, 0.0
	h := math.Tanh(0.5 * x)
	out := 2 * h
	deltaOut := out - target
	deltaHidden := 2 * deltaOut * (1 - h*h)

	g, err := n.Backpropagation([]float64{x}, []float64{target})
	require.NoError(t, err)

	assert.InDelta(t, deltaOut*h, g.Weights[1].At(0, 0), 1e-12)
	assert.InDelta(t, deltaOut, g.Biases[1].AtVec(0), 1e-12)
	assert.InDelta(t, deltaHidden*x, g.Weights[0].At(0, 0), 1e-12)
	assert.InDelta(t, deltaHidden, g.Biases[0].AtVec(0), 1e-12)
}

func TestBackpropagationMatchesFiniteDifference(t *testing.T) {
	tests := []struct {
		name   string
		in     int
		layers []LayerSpec
	}{
		{"single identity unit", 1, specs(activations.Identity{}, 1)},
		{"tanh 2-3-1", 2, specs(activations.Tanh{}, 3, 1)},
		{"tanh 2-4-4-1", 2, specs(activations.Tanh{}, 4, 4, 1)},
		{"sigmoid into identity", 3, []LayerSpec{
			{Size: 4, Activation: activations.Sigmoid{}},
			{Size: 2, Activation: activations.Identity{}},
		}},
		{"deep mixed", 2, []LayerSpec{
			{Size: 5, Activation: activations.Tanh{}},
			{Size: 3, Activation: activations.Sigmoid{}},
			{Size: 3, Activation: activations.Tanh{}},
			{Size: 2, Activation: activations.Identity{}},
		}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustNew(t, tt.in, tt.layers, WithSeed(uint64(100+i)), WithInitStdDev(0.5))
			n.InitialiseParameters()
			rng := rand.New(rand.NewSource(uint64(i)))

			for s := 0; s < 5; s++ {
				input := randomSlice(rng, tt.in)
				target := randomSlice(rng, n.OutputSize())

				bp, err := n.Backpropagation(input, target)
				require.NoError(t, err)
				fdg, err := n.FiniteDifference(input, target)
				require.NoError(t, err)

				relErr, err := bp.MaxRelativeError(fdg)
				require.NoError(t, err)
				assert.Less(t, relErr, 1e-6, "sample %d", s)
			}
		})
	}
}

func TestFiniteDifferenceRestoresParameters(t *testing.T) {
	n := mustNew(t, 2, specs(activations.Tanh{}, 3, 1), WithSeed(5))
	n.InitialiseParameters()
	before := n.Params()

	_, err := n.FiniteDifference([]float64{0.2, 0.9}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, before, n.Params())
}

func TestFiniteDifferenceStep(t *testing.T) {
	// C(b) = ½(b - 1)² at x = 0: the central difference is exact for a quadratic.
	n := mustNew(t, 1, specs(activations.Identity{}, 1), WithStep(0.25))
	require.NoError(t, n.SetParams([]float64{0, 3}))

	g, err := n.FiniteDifference([]float64{0}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, g.Biases[0].AtVec(0), 1e-12)
	assert.InDelta(t, 0.0, g.Weights[0].At(0, 0), 1e-12)
}

func TestGradientShapeErrors(t *testing.T) {
	n := mustNew(t, 2, specs(activations.Tanh{}, 3, 1))

	_, err := n.Backpropagation([]float64{1}, []float64{1})
	assert.True(t, errors.Is(err, linalg.ErrShape))
	_, err = n.Backpropagation([]float64{1, 2}, []float64{1, 2})
	assert.True(t, errors.Is(err, linalg.ErrShape))
	_, err = n.FiniteDifference([]float64{1, 2, 3}, []float64{1})
	assert.True(t, errors.Is(err, linalg.ErrShape))
}

func TestGradientsShapeMatchesParameters(t *testing.T) {
	n := mustNew(t, 3, specs(activations.Tanh{}, 4, 2), WithSeed(2))
	n.InitialiseParameters()

	bp, err := n.Backpropagation([]float64{1, 2, 3}, []float64{0, 1})
	require.NoError(t, err)

	for i, l := range n.Layers() {
		r, c := bp.Weights[i].Dims()
		assert.Equal(t, l.OutSize(), r)
		assert.Equal(t, l.InSize(), c)
		assert.Equal(t, l.OutSize(), bp.Biases[i].Len())
	}
	assert.Len(t, bp.Flatten(), n.ParamCount())

	zero := NewGradients(n)
	for _, v := range zero.Flatten() {
		assert.Zero(t, v)
	}
}

func TestMaxRelativeError(t *testing.T) {
	a := &Gradients{
		Weights: []*mat.Dense{mat.NewDense(1, 2, []float64{100, 0.5})},
		Biases:  []*mat.VecDense{mat.NewVecDense(1, []float64{0})},
	}
	b := &Gradients{
		Weights: []*mat.Dense{mat.NewDense(1, 2, []float64{101, 0.5})},
		Biases:  []*mat.VecDense{mat.NewVecDense(1, []float64{0.002})},
	}

	got, err := a.MaxRelativeError(b)
	require.NoError(t, err)
	// 1/101 from the large component dominates 0.002 from the small one.
	assert.InDelta(t, 1.0/101, got, 1e-12)

	c := &Gradients{
		Weights: []*mat.Dense{mat.NewDense(2, 1, []float64{100, 0.5})},
		Biases:  []*mat.VecDense{mat.NewVecDense(1, []float64{0})},
	}
	_, err = a.MaxRelativeError(c)
	assert.True(t, errors.Is(err, linalg.ErrShape))
}
