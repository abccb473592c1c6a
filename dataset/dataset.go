// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides labeled examples for training and evaluation:
// MNIST IDX files, a bolt-backed example store and small synthetic sets.
//
// Example:
//
//	mnist, err := dataset.LoadMNIST("./res", true)
//	ex, err := mnist.Example(0)
//	fmt.Println(ex.Class, len(ex.Features))
package dataset

import "github.com/born-ml/mlp/internal/dataset"

// Example is one labeled feature vector.
type Example = dataset.Example

// Source gives indexed access to labeled examples.
type Source = dataset.Source

// Slice is an in-memory Source.
type Slice = dataset.Slice

// MNIST is a Source over parsed IDX labels and images.
type MNIST = dataset.MNIST

// Images is a parsed IDX image file.
type Images = dataset.Images

// Store is a read-only Source backed by a bolt database.
type Store = dataset.Store

// MNISTClasses is the number of digit classes.
const MNISTClasses = dataset.MNISTClasses

// IDX format errors.
var (
	ErrShortHeader  = dataset.ErrShortHeader
	ErrInvalidMagic = dataset.ErrInvalidMagic
	ErrInvalidSizes = dataset.ErrInvalidSizes
)

// LoadMNIST loads the training set or the t10k test set from dir.
func LoadMNIST(dir string, train bool) (*MNIST, error) {
	return dataset.LoadMNIST(dir, train)
}

// ReadFile returns the contents of path, gunzipped if compressed.
func ReadFile(path string) ([]byte, error) {
	return dataset.ReadFile(path)
}

// ParseLabels validates an IDX label file and returns its labels.
func ParseLabels(data []byte) ([]uint8, error) {
	return dataset.ParseLabels(data)
}

// ParseImages validates an IDX image file.
func ParseImages(data []byte) (*Images, error) {
	return dataset.ParseImages(data)
}

// Import writes every example of src into a bolt store at path.
func Import(path string, src Source) (int, error) {
	return dataset.Import(path, src)
}

// OpenStore opens a store written by Import.
func OpenStore(path string) (*Store, error) {
	return dataset.OpenStore(path)
}

// Prefix returns a Source exposing the first n examples of src.
func Prefix(src Source, n int) Source {
	return dataset.Prefix(src, n)
}

// XOR returns the four points of the exclusive-or problem.
func XOR() Slice { return dataset.XOR() }

// Separable returns four linearly separable points.
func Separable() Slice { return dataset.Separable() }

// Embedded returns ten synthetic 28×28 digit-like patterns.
func Embedded() Slice { return dataset.Embedded() }
