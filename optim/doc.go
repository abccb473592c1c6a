// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim trains networks with per-example stochastic gradient
// descent and measures them.
//
// # Overview
//
// This package contains:
//   - SGD: the epoch loop, one update per example
//   - Rate schedules: ConstantRate, LinearDecay, RateFunc
//   - Backprop/Apply: gradients of one example and their update
//   - Evaluate: success rate over a dataset
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/dataset"
//	    "github.com/born-ml/mlp/nn"
//	    "github.com/born-ml/mlp/optim"
//	)
//
//	func main() {
//	    mnist, err := dataset.LoadMNIST("./res", true)
//	    net, err := nn.NewRandom([]int{mnist.InputSize(), 15, 10}, 10, nil)
//
//	    trainer, err := optim.NewSGD(net, optim.SGDConfig{
//	        Schedule: optim.LinearDecay{Initial: 3, Final: 1, Epochs: 30},
//	        Source:   mnist,
//	        Count:    10000,
//	    })
//	    net, err = trainer.Learn(30)
//
//	    acc, err := optim.Evaluate(net, mnist, 1000)
//	    fmt.Println(acc)
//	}
//
// # Training
//
// Examples are visited in index order. For each one the network is
// evaluated, the output error against the one-hot label is propagated
// back through every layer, and all layers are updated before the next
// example is fetched. The learning rate is fixed within an epoch.
//
// A trainer is used once: Learn hands the network back and later calls
// return ErrConsumed.
package optim
