package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Layer is one fully connected stage of a Network.
//
// Performs the transformation: y = f(x @ W + b)
// where:
//   - x is a row vector with shape [1, inputs]
//   - W is the weight matrix with shape [inputs, outputs]
//   - b is the bias row vector with shape [1, outputs]
//
// The activation f is owned by the Network, not the layer.
type Layer struct {
	Weights *mat.Dense // [inputs, outputs]
	Bias    *mat.Dense // [1, outputs]
}

// NewLayer creates a layer from existing parameters.
//
// Returns ErrDimensionMismatch if the bias is not a single row with one
// entry per weight column.
func NewLayer(weights, bias *mat.Dense) (*Layer, error) {
	if weights == nil || bias == nil {
		return nil, fmt.Errorf("%w: nil weights or bias", ErrDimensionMismatch)
	}
	wr, wc := weights.Dims()
	br, bc := bias.Dims()
	if br != 1 || bc != wc {
		return nil, fmt.Errorf("%w: bias (%d,%d) for weights (%d,%d)", ErrDimensionMismatch, br, bc, wr, wc)
	}
	return &Layer{Weights: weights, Bias: bias}, nil
}

// Inputs returns the width of the vector the layer consumes.
func (l *Layer) Inputs() int {
	r, _ := l.Weights.Dims()
	return r
}

// Outputs returns the width of the vector the layer produces.
func (l *Layer) Outputs() int {
	_, c := l.Weights.Dims()
	return c
}

// Linear computes the pre-activation sum input @ W + b.
func (l *Layer) Linear(input mat.Matrix) (*mat.Dense, error) {
	r, c := input.Dims()
	if r != 1 || c != l.Inputs() {
		return nil, fmt.Errorf("%w: input (%d,%d) for layer expecting (1,%d)", ErrDimensionMismatch, r, c, l.Inputs())
	}
	var out mat.Dense
	out.Mul(input, l.Weights)
	out.Add(&out, l.Bias)
	return &out, nil
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Weights: mat.DenseCopyOf(l.Weights),
		Bias:    mat.DenseCopyOf(l.Bias),
	}
}
