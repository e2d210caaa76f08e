// Package layer provides the fully connected layer networks are built from.
package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/linalg"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer: a = σ(W·x + b).
//
// W has shape outSize x inSize and b has length outSize. Parameters start at
// zero; the owning network initialises them.
type Dense struct {
	weights *mat.Dense
	biases  *mat.VecDense
	act     activations.Activation
	outSize int
	inSize  int
}

// NewDense creates a zero-initialised dense layer. It panics if either size
// is not positive.
func NewDense(in, out int, act activations.Activation) *Dense {
	if in <= 0 || out <= 0 {
		panic(fmt.Sprintf("layer: invalid dense size %dx%d", out, in))
	}
	return &Dense{
		weights: mat.NewDense(out, in, nil),
		biases:  mat.NewVecDense(out, nil),
		act:     act,
		outSize: out,
		inSize:  in,
	}
}

// Forward computes the pre-activation z = W·x + b and the activation a = σ(z).
// The layer itself is not modified.
func (d *Dense) Forward(x mat.Vector) (a, z *mat.VecDense, err error) {
	if x.Len() != d.inSize {
		return nil, nil, errors.Wrapf(linalg.ErrShape, "dense layer expects %d inputs, got %d", d.inSize, x.Len())
	}
	z, err = linalg.MulVec(d.weights, x)
	if err != nil {
		return nil, nil, err
	}
	z.AddVec(z, d.biases)

	a = mat.NewVecDense(d.outSize, nil)
	for i := 0; i < d.outSize; i++ {
		a.SetVec(i, d.act.Activate(z.AtVec(i)))
	}
	return a, z, nil
}

// Derivative evaluates σ'(z) elementwise.
func (d *Dense) Derivative(z mat.Vector) *mat.VecDense {
	out := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		out.SetVec(i, d.act.Derivative(z.AtVec(i)))
	}
	return out
}

// Params returns all dense layer parameters flattened, weights row-major then biases.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, d.ParamCount())
	for i := 0; i < d.outSize; i++ {
		params = append(params, d.weights.RawRowView(i)...)
	}
	params = append(params, d.biases.RawVector().Data...)
	return params
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) error {
	if len(params) != d.ParamCount() {
		return errors.Wrapf(linalg.ErrShape, "dense layer has %d parameters, got %d", d.ParamCount(), len(params))
	}
	for i := 0; i < d.outSize; i++ {
		d.weights.SetRow(i, params[i*d.inSize:(i+1)*d.inSize])
	}
	for i := 0; i < d.outSize; i++ {
		d.biases.SetVec(i, params[d.outSize*d.inSize+i])
	}
	return nil
}

// ParamCount is the number of scalar parameters in the layer.
func (d *Dense) ParamCount() int {
	return d.outSize*d.inSize + d.outSize
}

// Weights returns the weight matrix. Mutating it changes the layer.
func (d *Dense) Weights() *mat.Dense {
	return d.weights
}

// Biases returns the bias vector. Mutating it changes the layer.
func (d *Dense) Biases() *mat.VecDense {
	return d.biases
}

// SetWeight sets a single weight at (row, col).
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights.Set(row, col, val)
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases.SetVec(idx, val)
}

// Weight gets a single weight at (row, col).
func (d *Dense) Weight(row, col int) float64 {
	return d.weights.At(row, col)
}

// Bias gets a single bias.
func (d *Dense) Bias(idx int) float64 {
	return d.biases.AtVec(idx)
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation {
	return d.act
}
