// Package gradnet re-exports the network, training and dataset API.
package gradnet

import (
	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/harness"
	"github.com/FlavioCFOliveira/gradnet/internal/loss"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"golang.org/x/exp/rand"
)

// Re-export common types and functions for easier access
type (
	Network     = net.Network
	LayerSpec   = net.LayerSpec
	Option      = net.Option
	Gradients   = net.Gradients
	TrainConfig = net.TrainConfig
	TrainResult = net.TrainResult
	CostEntry   = net.CostEntry
	Status      = net.Status
	Activation  = activations.Activation
	Loss        = loss.Loss
	Dataset     = dataset.Dataset
	Sample      = dataset.Sample
	Timing      = harness.Timing
)

// Training outcomes
const (
	Exhausted = net.Exhausted
	Converged = net.Converged
	Diverged  = net.Diverged
)

// Network creation
func New(inputSize int, specs []LayerSpec, opts ...Option) (*Network, error) {
	return net.New(inputSize, specs, opts...)
}

// Layer is shorthand for a LayerSpec.
func Layer(size int, act Activation) LayerSpec {
	return LayerSpec{Size: size, Activation: act}
}

func WithSeed(seed uint64) Option {
	return net.WithSeed(seed)
}

func WithSource(src rand.Source) Option {
	return net.WithSource(src)
}

func WithInitStdDev(sd float64) Option {
	return net.WithInitStdDev(sd)
}

func WithStep(eps float64) Option {
	return net.WithStep(eps)
}

// Activations
var (
	Identity = activations.Identity{}
	ReLU     = activations.ReLU{}
	Sigmoid  = activations.Sigmoid{}
	Tanh     = activations.Tanh{}
)

func LeakyReLU(alpha float64) Activation {
	return activations.NewLeakyReLU(alpha)
}

// ParseActivation maps a name such as "tanh" to an activation.
func ParseActivation(name string) (Activation, error) {
	return activations.Parse(name)
}

// Callbacks
type Callback = net.Callback

type BaseCallback = net.BaseCallback

type Logger = net.Logger

// Data
func LoadDataset(path string, inputSize int) (*Dataset, error) {
	return dataset.Load(path, inputSize)
}

func NewDataset(inputs, targets [][]float64) (*Dataset, error) {
	return dataset.New(inputs, targets)
}

func XOR() *Dataset {
	return dataset.XOR()
}

func Spiral(perArm int, turns, noise float64, seed uint64) *Dataset {
	return dataset.Spiral(perArm, turns, noise, seed)
}

// Measure times both gradient strategies on every sample of data.
func Measure(n *Network, data *Dataset) ([]Timing, error) {
	return harness.Measure(n, data)
}
