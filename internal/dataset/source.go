// Package dataset provides the labeled examples the trainer consumes.
//
// This package provides:
//   - Source: indexed access to (class, feature vector) pairs
//   - IDX parsing for the MNIST label and image files (gzip or raw)
//   - MNIST: a Source over parsed IDX labels and images
//   - Store: a boltdb-backed Source built once with Import
//   - Synthetic sets (XOR, Separable, Embedded) for tests and demos
package dataset

import (
	"fmt"
)

// Example is one labeled feature vector.
type Example struct {
	Class    int
	Features []float64
}

// Source gives indexed access to labeled examples.
//
// Example must be safe for concurrent use; Evaluate reads examples from
// several goroutines.
type Source interface {
	// Len returns the number of examples available.
	Len() int

	// Example returns example i, 0 <= i < Len().
	Example(i int) (Example, error)
}

// Slice is an in-memory Source.
type Slice []Example

// Len returns the number of examples.
func (s Slice) Len() int {
	return len(s)
}

// Example returns example i.
func (s Slice) Example(i int) (Example, error) {
	if i < 0 || i >= len(s) {
		return Example{}, fmt.Errorf("%w: example %d of %d", ErrOutOfRange, i, len(s))
	}
	return s[i], nil
}

type prefix struct {
	src Source
	n   int
}

// Prefix returns a Source exposing the first n examples of src.
//
// n is capped at src.Len(); a negative n yields an empty Source.
func Prefix(src Source, n int) Source {
	return prefix{src: src, n: max(0, min(n, src.Len()))}
}

func (p prefix) Len() int {
	return p.n
}

func (p prefix) Example(i int) (Example, error) {
	if i < 0 || i >= p.n {
		return Example{}, fmt.Errorf("%w: example %d of %d", ErrOutOfRange, i, p.n)
	}
	return p.src.Example(i)
}

// Collect reads every example of src into memory.
func Collect(src Source) (Slice, error) {
	out := make(Slice, 0, src.Len())
	for i := 0; i < src.Len(); i++ {
		ex, err := src.Example(i)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}
