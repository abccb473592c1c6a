package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Gradient holds the parameter gradients of one layer.
type Gradient struct {
	Weights *mat.Dense // [inputs, outputs]
	Bias    *mat.Dense // [1, outputs]
}

// Backprop computes the gradients of 0.5*Σ(output - onehot(class))² with
// respect to every layer of net, given the forward state of one example.
//
// Layers are walked last to first. The error signal starts as the output
// error and the upstream transform as the identity; for each layer:
//
//	delta    = (err @ upstream) ⊙ f'(in @ W + b)
//	dW       = inᵀ @ delta
//	dB       = delta
//	upstream = Wᵀ
//	err      = delta
//
// The network is not modified, so every Wᵀ is the pre-update weight.
// grads[i] belongs to net.Layer(i).
func Backprop(net *nn.Network, state *nn.State, class int) ([]Gradient, error) {
	if state.Len() != net.Len()+1 {
		return nil, fmt.Errorf("%w: state has %d activations for %d layers",
			nn.ErrDimensionMismatch, state.Len(), net.Len())
	}
	errs, err := state.Errors(class)
	if err != nil {
		return nil, err
	}

	act := net.Activation()
	grads := make([]Gradient, net.Len())
	var upstream mat.Matrix = nn.Identity(net.OutputSize())

	for i := net.Len() - 1; i >= 0; i-- {
		layer := net.Layer(i)
		input := state.At(i)

		linear, err := layer.Linear(input)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		var delta mat.Dense
		delta.Mul(errs, upstream)
		delta.MulElem(&delta, nn.MapDerivative(act, linear))

		var dW mat.Dense
		dW.Mul(input.T(), &delta)

		grads[i] = Gradient{Weights: &dW, Bias: mat.DenseCopyOf(&delta)}
		upstream = layer.Weights.T()
		errs = &delta
	}
	return grads, nil
}

// Apply performs W -= rate*dW and b -= rate*dB on every layer of net.
func Apply(net *nn.Network, grads []Gradient, rate float64) error {
	if len(grads) != net.Len() {
		return fmt.Errorf("%w: %d gradients for %d layers", nn.ErrDimensionMismatch, len(grads), net.Len())
	}
	for i, g := range grads {
		layer := net.Layer(i)
		if !sameDims(layer.Weights, g.Weights) || !sameDims(layer.Bias, g.Bias) {
			return fmt.Errorf("%w: gradient %d does not match layer shape", nn.ErrDimensionMismatch, i)
		}
		var step mat.Dense
		step.Scale(rate, g.Weights)
		layer.Weights.Sub(layer.Weights, &step)

		step.Reset()
		step.Scale(rate, g.Bias)
		layer.Bias.Sub(layer.Bias, &step)
	}
	return nil
}

func sameDims(a, b *mat.Dense) bool {
	if b == nil {
		return false
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}
