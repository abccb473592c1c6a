// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
)

// SGD trains a network one example at a time.
type SGD = optim.SGD

// SGDConfig holds configuration for the SGD trainer.
type SGDConfig = optim.SGDConfig

// EpochStats summarizes one completed epoch.
type EpochStats = optim.EpochStats

// Gradient holds the parameter gradients of one layer.
type Gradient = optim.Gradient

// Accuracy is the result of classifying a set of examples.
type Accuracy = optim.Accuracy

// Rate schedules.
type (
	RateSchedule = optim.RateSchedule
	RateFunc     = optim.RateFunc
	ConstantRate = optim.ConstantRate
	LinearDecay  = optim.LinearDecay
)

// ErrConsumed is returned by Learn when the trainer was already used.
var ErrConsumed = optim.ErrConsumed

// NewSGD creates a trainer for net.
func NewSGD(net *nn.Network, config SGDConfig) (*SGD, error) {
	return optim.NewSGD(net, config)
}

// Backprop computes the gradients of every layer for one evaluated example.
func Backprop(net *nn.Network, state *nn.State, class int) ([]Gradient, error) {
	return optim.Backprop(net, state, class)
}

// Apply subtracts rate times grads from the network's parameters.
func Apply(net *nn.Network, grads []Gradient, rate float64) error {
	return optim.Apply(net, grads, rate)
}

// Evaluate classifies the first n examples of source (all when n <= 0)
// using every CPU.
func Evaluate(net *nn.Network, source dataset.Source, n int) (Accuracy, error) {
	return optim.Evaluate(net, source, n, parallel.DefaultConfig())
}

// MeanSquaredError returns the mean per-example squared error over the
// first n examples of source.
func MeanSquaredError(net *nn.Network, source dataset.Source, n int) (float64, error) {
	return optim.MeanSquaredError(net, source, n)
}
