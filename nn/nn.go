// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"math/rand"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/serialization"
	"gonum.org/v1/gonum/mat"
)

// Network is an ordered stack of fully connected layers sharing one activation.
type Network = nn.Network

// Layer is one fully connected stage of a Network.
type Layer = nn.Layer

// State is the record of one forward pass.
type State = nn.State

// Activation is an elementwise differentiable function.
type Activation = nn.Activation

// Sigmoid is the logistic activation 1/(1+e^-x).
type Sigmoid = nn.Sigmoid

// Header is the metadata stored with a saved network.
type Header = serialization.Header

// LoadResult describes where the network returned by LoadOrRandom came from.
type LoadResult = nn.LoadResult

// Common errors.
var (
	ErrInvalidSizes      = nn.ErrInvalidSizes
	ErrEmptyNetwork      = nn.ErrEmptyNetwork
	ErrDimensionMismatch = nn.ErrDimensionMismatch
	ErrClassOutOfRange   = nn.ErrClassOutOfRange
)

// NewRandom creates a network with len(sizes)-1 layers whose parameters
// are drawn uniformly from [-scale/2, scale/2).
//
// Example:
//
//	net, err := nn.NewRandom([]int{784, 15, 10}, 10, rand.New(rand.NewSource(1)))
func NewRandom(sizes []int, scale float64, rng *rand.Rand) (*Network, error) {
	return nn.NewRandom(sizes, scale, rng)
}

// NewConstant creates a network whose every weight and bias equals value.
func NewConstant(sizes []int, value float64) (*Network, error) {
	return nn.NewConstant(sizes, value)
}

// NewLayer creates a layer from existing parameters.
func NewLayer(weights, bias *mat.Dense) (*Layer, error) {
	return nn.NewLayer(weights, bias)
}

// FromLayers builds a network from chained layers.
func FromLayers(layers ...*Layer) (*Network, error) {
	return nn.FromLayers(layers...)
}

// NewSigmoid creates the sigmoid activation.
func NewSigmoid() Sigmoid {
	return nn.NewSigmoid()
}

// Save writes the network to path in .mlp format.
func Save(n *Network, path string, metadata map[string]string) error {
	return nn.Save(n, path, metadata)
}

// Load reads a network saved with Save.
func Load(path string) (*Network, Header, error) {
	return nn.Load(path)
}

// WriteTo writes the network to w in .mlp format.
func WriteTo(n *Network, w io.Writer, metadata map[string]string) error {
	return nn.WriteTo(n, w, metadata)
}

// ReadFrom reads a network from r.
func ReadFrom(r io.Reader) (*Network, Header, error) {
	return nn.ReadFrom(r)
}

// LoadOrRandom loads the network at path, or creates a random one.
func LoadOrRandom(path string, sizes []int, scale float64, rng *rand.Rand) (*Network, LoadResult, error) {
	return nn.LoadOrRandom(path, sizes, scale, rng)
}
