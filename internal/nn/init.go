package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Uniform creates a rows×cols matrix with values drawn from U(0, 1) and
// rescaled to span [-scale/2, scale/2).
//
// A nil rng uses the global math/rand source.
func Uniform(rows, cols int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		var u float64
		if rng != nil {
			u = rng.Float64()
		} else {
			//nolint:gosec // Using math/rand for weight initialization (not security-critical)
			u = rand.Float64()
		}
		data[i] = u*scale - 0.5*scale
	}
	return mat.NewDense(rows, cols, data)
}

// Constant creates a rows×cols matrix filled with value.
func Constant(rows, cols int, value float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = value
	}
	return mat.NewDense(rows, cols, data)
}

// Identity creates an n×n identity matrix.
func Identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}
