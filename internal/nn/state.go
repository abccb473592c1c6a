package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// State is the record of one forward pass.
//
// Activations[0] is the raw input and Activations[i] is the output of
// layer i-1, so a network with N layers produces N+1 activations. A State
// is never modified after Eval returns it.
type State struct {
	Activations []*mat.Dense
}

// Len returns the number of recorded activations.
func (s *State) Len() int {
	return len(s.Activations)
}

// At returns activation i.
func (s *State) At(i int) *mat.Dense {
	return s.Activations[i]
}

// Input returns the raw input row vector.
func (s *State) Input() *mat.Dense {
	return s.Activations[0]
}

// Output returns the final layer's activation.
func (s *State) Output() *mat.Dense {
	return s.Activations[len(s.Activations)-1]
}

// Class returns the index of the largest output entry.
//
// The scan is left to right with a strict comparison, so the lowest index
// wins ties.
func (s *State) Class() int {
	out := s.Output().RawRowView(0)
	best := 0
	for i := 1; i < len(out); i++ {
		if out[i] > out[best] {
			best = i
		}
	}
	return best
}

// Errors returns the output error against a one-hot target for class:
// output[i]-1 at the class index and output[i] elsewhere.
func (s *State) Errors(class int) (*mat.Dense, error) {
	out := s.Output().RawRowView(0)
	if class < 0 || class >= len(out) {
		return nil, fmt.Errorf("%w: class %d, outputs %d", ErrClassOutOfRange, class, len(out))
	}
	data := make([]float64, len(out))
	copy(data, out)
	data[class] -= 1.0
	return mat.NewDense(1, len(data), data), nil
}

// SquaredError returns the sum of squared output errors for class.
func (s *State) SquaredError(class int) (float64, error) {
	errs, err := s.Errors(class)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, e := range errs.RawRowView(0) {
		sum += e * e
	}
	return sum, nil
}
