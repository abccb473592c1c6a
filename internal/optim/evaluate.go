package optim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/parallel"
)

// Accuracy is the result of classifying a set of examples.
type Accuracy struct {
	Successes int
	Total     int
}

// Rate returns Successes/Total, or 0 for an empty set.
func (a Accuracy) Rate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Successes) / float64(a.Total)
}

func (a Accuracy) String() string {
	return fmt.Sprintf("success rate: %g (%d/%d)", a.Rate(), a.Successes, a.Total)
}

// Evaluate classifies the first n examples of source (all of them when
// n <= 0 or n > source.Len()) and counts how many match their label.
//
// net is only read, so examples are classified concurrently according to
// cfg. The first error encountered is returned.
func Evaluate(net *nn.Network, source dataset.Source, n int, cfg parallel.Config) (Accuracy, error) {
	if n <= 0 || n > source.Len() {
		n = source.Len()
	}

	var (
		successes atomic.Int64
		once      sync.Once
		firstErr  error
	)
	parallel.For(n, func(i int) {
		ex, err := source.Example(i)
		if err == nil {
			var class int
			class, err = net.Predict(ex.Features)
			if err == nil && class == ex.Class {
				successes.Add(1)
			}
		}
		if err != nil {
			once.Do(func() { firstErr = fmt.Errorf("example %d: %w", i, err) })
		}
	}, cfg)

	if firstErr != nil {
		return Accuracy{}, firstErr
	}
	return Accuracy{Successes: int(successes.Load()), Total: n}, nil
}

// MeanSquaredError returns the mean per-example squared error of net over
// the first n examples of source, without training.
func MeanSquaredError(net *nn.Network, source dataset.Source, n int) (float64, error) {
	if n <= 0 || n > source.Len() {
		n = source.Len()
	}
	var mse float64
	for i := 0; i < n; i++ {
		ex, err := source.Example(i)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		state, err := net.Eval(ex.Features)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		e, err := state.SquaredError(ex.Class)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		mse = (mse*float64(i) + e) / float64(i+1)
	}
	return mse, nil
}
