package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// TestSigmoidForward tests known sigmoid values.
func TestSigmoidForward(t *testing.T) {
	s := NewSigmoid()

	// σ(0) = 0.5, σ(2) ≈ 0.8808, σ(-2) ≈ 0.1192
	assert.Equal(t, 0.5, s.Apply(0))
	assert.InDelta(t, 0.8808, s.Apply(2), 1e-4)
	assert.InDelta(t, 0.1192, s.Apply(-2), 1e-4)
	assert.InDelta(t, 1.0, s.Apply(50), 1e-12)
}

// TestSigmoidCutoff checks very negative inputs clamp to exactly zero.
func TestSigmoidCutoff(t *testing.T) {
	s := NewSigmoid()

	for _, x := range []float64{-1000, -300, math.Inf(-1), -1e308} {
		assert.Equal(t, 0.0, s.Apply(x), "Apply(%v)", x)
		assert.Equal(t, 0.0, s.Derivative(x), "Derivative(%v)", x)
	}

	// Just above the cutoff the functions are still evaluated.
	assert.False(t, math.IsNaN(s.Apply(-299)))
	assert.False(t, math.IsNaN(s.Derivative(-299)))
	assert.Greater(t, s.Apply(-299), 0.0)
}

// TestSigmoidDerivative compares the analytic derivative with a central difference.
func TestSigmoidDerivative(t *testing.T) {
	s := NewSigmoid()

	assert.Equal(t, 0.25, s.Derivative(0))
	for _, x := range []float64{-5, -1, -0.3, 0.7, 3, 8} {
		numeric := fd.Derivative(s.Apply, x, &fd.Settings{Formula: fd.Central})
		assert.InDelta(t, numeric, s.Derivative(x), 1e-6, "x=%v", x)
	}
}

func TestMapPreservesShape(t *testing.T) {
	s := NewSigmoid()
	m := mat.NewDense(2, 3, []float64{-1, 0, 1, 2, -400, 4})

	out := Map(s, m)
	r, c := out.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 0.5, out.At(0, 1))
	assert.Equal(t, 0.0, out.At(1, 1))

	d := MapDerivative(s, m)
	assert.Equal(t, 0.25, d.At(0, 1))
	assert.Equal(t, 0.0, d.At(1, 1))

	// Input is untouched.
	assert.Equal(t, -400.0, m.At(1, 1))
}

func TestActivationByName(t *testing.T) {
	a, ok := activationByName("sigmoid")
	assert.True(t, ok)
	assert.Equal(t, "sigmoid", a.Name())

	_, ok = activationByName("relu")
	assert.False(t, ok)
}
