// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the multilayer perceptron: layers, forward
// evaluation and persistence.
//
// # Overview
//
// This package contains:
//   - Network: a stack of fully connected layers sharing one activation
//   - Layer: weight matrix [inputs, outputs] and bias row [1, outputs]
//   - State: every activation of one forward pass
//   - Sigmoid: the activation, clamped to zero below -300
//   - Save/Load: the .mlp binary format
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/mlp/nn"
//	)
//
//	func main() {
//	    net, err := nn.NewRandom([]int{784, 15, 10}, 10, rand.New(rand.NewSource(1)))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    net.Info(os.Stdout)
//
//	    state, err := net.Eval(features)
//	    digit := state.Class()
//	}
//
// # Vectors
//
// Feature vectors are row vectors. A layer computes
//
//	a' = f(a @ W + b)
//
// and Eval records the input followed by each layer's output, so a
// network with N layers yields N+1 activations.
//
// # Persistence
//
//	err := nn.Save(net, "net.mlp", map[string]string{"epochs": "30"})
//	net, header, err := nn.Load("net.mlp")
//
// LoadOrRandom loads a network or falls back to a fresh random one when the
// file is missing, unreadable, or built for different input/output widths.
package nn
