// Package nn implements the multilayer perceptron used by mlp.
//
// This package provides:
//   - Activation: elementwise differentiable function (Sigmoid)
//   - Layer: weight matrix and bias row vector
//   - Network: ordered, dimensionally chained stack of layers
//   - State: every activation produced by one forward pass
//   - Save/Load: persistence through internal/serialization
//
// Vectors are row vectors ([1, n] matrices) so a forward step is a @ W + b.
package nn

import (
	"fmt"
	"io"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is an ordered stack of fully connected layers sharing one activation.
//
// The first layer's input width is the feature vector size and the last
// layer's output width is the number of classes.
//
// Example:
//
//	net, err := nn.NewRandom([]int{784, 15, 10}, 10, rand.New(rand.NewSource(1)))
//	state, err := net.Eval(features)
//	digit := state.Class()
type Network struct {
	layers     []*Layer
	activation Activation
}

// NewRandom creates a network with len(sizes)-1 layers whose weights and
// biases are drawn uniformly from [-scale/2, scale/2).
//
// Returns ErrInvalidSizes if fewer than two sizes are given or any size is
// not positive.
func NewRandom(sizes []int, scale float64, rng *rand.Rand) (*Network, error) {
	if err := validateSizes(sizes); err != nil {
		return nil, err
	}
	layers := make([]*Layer, 0, len(sizes)-1)
	for i := 0; i+1 < len(sizes); i++ {
		layers = append(layers, &Layer{
			Weights: Uniform(sizes[i], sizes[i+1], scale, rng),
			Bias:    Uniform(1, sizes[i+1], scale, rng),
		})
	}
	return &Network{layers: layers, activation: Sigmoid{}}, nil
}

// NewConstant creates a network whose every weight and bias equals value.
func NewConstant(sizes []int, value float64) (*Network, error) {
	if err := validateSizes(sizes); err != nil {
		return nil, err
	}
	layers := make([]*Layer, 0, len(sizes)-1)
	for i := 0; i+1 < len(sizes); i++ {
		layers = append(layers, &Layer{
			Weights: Constant(sizes[i], sizes[i+1], value),
			Bias:    Constant(1, sizes[i+1], value),
		})
	}
	return &Network{layers: layers, activation: Sigmoid{}}, nil
}

// FromLayers builds a network from existing layers.
//
// Layers are used as is, not copied. Adjacent layers must chain:
// layers[i].Outputs() == layers[i+1].Inputs().
func FromLayers(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyNetwork
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("layer %d is nil", i)
		}
		if _, err := NewLayer(l.Weights, l.Bias); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if i > 0 && layers[i-1].Outputs() != l.Inputs() {
			return nil, fmt.Errorf("%w: layer %d outputs %d, layer %d inputs %d",
				ErrDimensionMismatch, i-1, layers[i-1].Outputs(), i, l.Inputs())
		}
	}
	return &Network{layers: layers, activation: Sigmoid{}}, nil
}

func validateSizes(sizes []int) error {
	if len(sizes) < 2 {
		return fmt.Errorf("%w: got %v", ErrInvalidSizes, sizes)
	}
	for _, s := range sizes {
		if s <= 0 {
			return fmt.Errorf("%w: got %v", ErrInvalidSizes, sizes)
		}
	}
	return nil
}

// Activation returns the activation shared by all layers.
func (n *Network) Activation() Activation {
	return n.activation
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at index i.
//
// Panics if index is out of bounds.
func (n *Network) Layer(i int) *Layer {
	if i < 0 || i >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[i]
}

// Layers returns the layer stack. The slice is shared with the network.
func (n *Network) Layers() []*Layer {
	return n.layers
}

// InputSize returns the feature vector width the network accepts.
func (n *Network) InputSize() int {
	return n.layers[0].Inputs()
}

// OutputSize returns the number of classes.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].Outputs()
}

// Sizes returns the layer size sequence the network was built from.
func (n *Network) Sizes() []int {
	sizes := make([]int, 0, len(n.layers)+1)
	sizes = append(sizes, n.InputSize())
	for _, l := range n.layers {
		sizes = append(sizes, l.Outputs())
	}
	return sizes
}

// Eval runs the forward pass on a feature vector.
//
// The returned State holds the input followed by every layer's activation.
// Eval does not modify the network. A feature vector whose length differs
// from InputSize yields ErrDimensionMismatch.
func (n *Network) Eval(input []float64) (*State, error) {
	if len(input) != n.InputSize() {
		return nil, fmt.Errorf("%w: input has %d features, network expects %d",
			ErrDimensionMismatch, len(input), n.InputSize())
	}
	data := make([]float64, len(input))
	copy(data, input)
	current := mat.NewDense(1, len(data), data)

	activations := make([]*mat.Dense, 0, len(n.layers)+1)
	activations = append(activations, current)
	for i, l := range n.layers {
		linear, err := l.Linear(current)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		current = Map(n.activation, linear)
		activations = append(activations, current)
	}
	return &State{Activations: activations}, nil
}

// Classify returns the index of the largest entry of the state's output.
func (n *Network) Classify(state *State) int {
	return state.Class()
}

// Predict evaluates input and returns its class.
func (n *Network) Predict(input []float64) (int, error) {
	state, err := n.Eval(input)
	if err != nil {
		return 0, err
	}
	return state.Class(), nil
}

// Clone returns a deep copy of the network.
func (n *Network) Clone() *Network {
	layers := make([]*Layer, len(n.layers))
	for i, l := range n.layers {
		layers[i] = l.Clone()
	}
	return &Network{layers: layers, activation: n.activation}
}

// Info writes the dimensions of every layer to w.
func (n *Network) Info(w io.Writer) {
	fmt.Fprintln(w, "++++++ Network info ++++++")
	for i, l := range n.layers {
		fmt.Fprintf(w, "layer %2d dim(%d,%d)\n", i, l.Inputs(), l.Outputs())
	}
	fmt.Fprintln(w, "++++++++++++++++++++++++++")
}
