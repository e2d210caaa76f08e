// Package net provides the feed-forward network, its two gradient strategies
// (backpropagation and finite differencing) and the training loop.
package net

import (
	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/layer"
	"github.com/FlavioCFOliveira/gradnet/internal/linalg"
	"github.com/FlavioCFOliveira/gradnet/internal/loss"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultSeed seeds the parameter source when no option overrides it.
	DefaultSeed uint64 = 5489
	// DefaultInitStdDev is the standard deviation of the initial weights and biases.
	DefaultInitStdDev = 0.1
	// DefaultStep is the finite-difference step ε.
	DefaultStep = 1e-4
)

// LayerSpec describes one layer: its output size and activation.
type LayerSpec struct {
	Size       int
	Activation activations.Activation
}

// Network is an ordered, non-empty sequence of dense layers trained against
// the quadratic cost. A Network is not safe for concurrent use.
type Network struct {
	layers []*layer.Dense
	loss   loss.Loss

	src     rand.Source
	stdDev  float64
	fdStep  float64
	inSize  int
	outSize int
}

// Option configures a Network at construction.
type Option func(*Network)

// WithSeed seeds the network's own random source.
func WithSeed(seed uint64) Option {
	return func(n *Network) {
		n.src = rand.NewSource(seed)
	}
}

// WithSource makes the network draw its parameters from src.
func WithSource(src rand.Source) Option {
	return func(n *Network) {
		n.src = src
	}
}

// WithInitStdDev sets the standard deviation of the zero-mean Gaussian used
// by InitialiseParameters.
func WithInitStdDev(sd float64) Option {
	return func(n *Network) {
		n.stdDev = sd
	}
}

// WithStep sets the finite-difference step ε.
func WithStep(eps float64) Option {
	return func(n *Network) {
		n.fdStep = eps
	}
}

// New builds a network taking inputSize inputs. Layer i takes the previous
// layer's output (or the network input) and produces specs[i].Size outputs.
// Parameters start at zero; call InitialiseParameters or Train.
func New(inputSize int, specs []LayerSpec, opts ...Option) (*Network, error) {
	if inputSize <= 0 {
		return nil, errors.Errorf("input size must be > 0 (got %d)", inputSize)
	}
	if len(specs) == 0 {
		return nil, errors.New("network needs at least one layer")
	}

	n := &Network{
		loss:   loss.Quadratic{},
		stdDev: DefaultInitStdDev,
		fdStep: DefaultStep,
		inSize: inputSize,
	}
	prev := inputSize
	for i, spec := range specs {
		if spec.Size <= 0 {
			return nil, errors.Errorf("layer %d: size must be > 0 (got %d)", i, spec.Size)
		}
		if spec.Activation == nil {
			return nil, errors.Errorf("layer %d: activation is nil", i)
		}
		n.layers = append(n.layers, layer.NewDense(prev, spec.Size, spec.Activation))
		prev = spec.Size
	}
	n.outSize = prev

	for _, opt := range opts {
		opt(n)
	}
	if n.src == nil {
		n.src = rand.NewSource(DefaultSeed)
	}
	if n.fdStep <= 0 {
		return nil, errors.Errorf("finite-difference step must be > 0 (got %g)", n.fdStep)
	}
	return n, nil
}

// InitialiseParameters draws every weight and bias from N(0, σ²) using the
// network's own source. Weights come before biases, layer by layer.
func (n *Network) InitialiseParameters() {
	dist := distuv.Normal{Mu: 0, Sigma: n.stdDev, Src: n.src}
	for _, l := range n.layers {
		w := l.Weights()
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				w.Set(i, j, dist.Rand())
			}
		}
		b := l.Biases()
		for i := 0; i < b.Len(); i++ {
			b.SetVec(i, dist.Rand())
		}
	}
}

// FeedForward computes the network output for input.
func (n *Network) FeedForward(input []float64) ([]float64, error) {
	if len(input) != n.inSize {
		return nil, errors.Wrapf(linalg.ErrShape, "network expects %d inputs, got %d", n.inSize, len(input))
	}
	x, err := linalg.Vector(input)
	if err != nil {
		return nil, err
	}
	for i, l := range n.layers {
		x, _, err = l.Forward(x)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}
	return linalg.Slice(x), nil
}

// Cost is ½ Σ (output - target)² for a single sample.
func (n *Network) Cost(input, target []float64) (float64, error) {
	if len(target) != n.outSize {
		return 0, errors.Wrapf(linalg.ErrShape, "network produces %d outputs, target has %d", n.outSize, len(target))
	}
	out, err := n.FeedForward(input)
	if err != nil {
		return 0, err
	}
	return n.loss.Forward(out, target), nil
}

// CostForTrainingData is the arithmetic mean of Cost over every sample.
func (n *Network) CostForTrainingData(data *dataset.Dataset) (float64, error) {
	if data.Len() == 0 {
		return 0, dataset.ErrEmpty
	}
	var total float64
	for i, s := range data.Samples {
		c, err := n.Cost(s.Input, s.Target)
		if err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		total += c
	}
	return total / float64(data.Len()), nil
}

// checkSample validates the shape of one training pair.
func (n *Network) checkSample(input, target []float64) error {
	if len(input) != n.inSize {
		return errors.Wrapf(linalg.ErrShape, "network expects %d inputs, got %d", n.inSize, len(input))
	}
	if len(target) != n.outSize {
		return errors.Wrapf(linalg.ErrShape, "network produces %d outputs, target has %d", n.outSize, len(target))
	}
	return nil
}

// Layers returns the network's layers. Mutating them changes the network.
func (n *Network) Layers() []*layer.Dense {
	return n.layers
}

// InputSize returns the number of network inputs.
func (n *Network) InputSize() int {
	return n.inSize
}

// OutputSize returns the number of network outputs.
func (n *Network) OutputSize() int {
	return n.outSize
}

// Step returns the finite-difference step ε.
func (n *Network) Step() float64 {
	return n.fdStep
}

// ParamCount is the total number of scalar parameters.
func (n *Network) ParamCount() int {
	total := 0
	for _, l := range n.layers {
		total += l.ParamCount()
	}
	return total
}

// Params returns all network parameters flattened (copy).
func (n *Network) Params() []float64 {
	params := make([]float64, 0, n.ParamCount())
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// SetParams loads a flattened parameter slice in Params order.
func (n *Network) SetParams(params []float64) error {
	if len(params) != n.ParamCount() {
		return errors.Wrapf(linalg.ErrShape, "network has %d parameters, got %d", n.ParamCount(), len(params))
	}
	offset := 0
	for _, l := range n.layers {
		if err := l.SetParams(params[offset : offset+l.ParamCount()]); err != nil {
			return err
		}
		offset += l.ParamCount()
	}
	return nil
}

// Architecture returns the layer sizes including the input, e.g. [2 4 4 1].
func (n *Network) Architecture() []int {
	sizes := []int{n.inSize}
	for _, l := range n.layers {
		sizes = append(sizes, l.OutSize())
	}
	return sizes
}
