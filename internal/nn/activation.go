package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SigmoidCutoff is the input below which Sigmoid and its derivative are
// clamped to zero instead of evaluating exp(-x).
const SigmoidCutoff = -300.0

// Activation is a differentiable scalar function applied elementwise.
//
// A network uses a single Activation for every layer; backpropagation
// relies on Derivative being the exact derivative of Apply.
type Activation interface {
	// Apply evaluates f(x).
	Apply(x float64) float64

	// Derivative evaluates f'(x).
	Derivative(x float64) float64

	// Name identifies the function in persisted networks.
	Name() string
}

// Sigmoid is the logistic activation.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// with derivative σ'(x) = exp(-x) / (1 + exp(-x))². Both return exactly 0
// for x <= SigmoidCutoff.
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid() Sigmoid {
	return Sigmoid{}
}

// Apply computes σ(x).
func (Sigmoid) Apply(x float64) float64 {
	if x <= SigmoidCutoff {
		return 0
	}
	return 1.0 / (1.0 + math.Exp(-x))
}

// Derivative computes σ'(x).
func (Sigmoid) Derivative(x float64) float64 {
	if x <= SigmoidCutoff {
		return 0
	}
	e := math.Exp(-x)
	d := 1.0 + e
	return e / (d * d)
}

// Name returns "sigmoid".
func (Sigmoid) Name() string {
	return "sigmoid"
}

// activationByName resolves a persisted activation name.
func activationByName(name string) (Activation, bool) {
	switch name {
	case "", "sigmoid":
		return Sigmoid{}, true
	default:
		return nil, false
	}
}

// Map returns a new matrix holding a.Apply applied to every element of m.
func Map(a Activation, m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return a.Apply(v)
	}, m)
	return &out
}

// MapDerivative returns a new matrix holding a.Derivative applied to every element of m.
func MapDerivative(a Activation, m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return a.Derivative(v)
	}, m)
	return &out
}
