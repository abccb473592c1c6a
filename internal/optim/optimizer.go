// Package optim trains nn.Network values with per-example stochastic
// gradient descent.
//
// This package provides:
//   - RateSchedule: learning rate as a function of the epoch
//   - Backprop/Apply: analytic gradients for one example and their update
//   - SGD: the epoch loop over a dataset.Source
//   - Evaluate/MeanSquaredError: accuracy and loss without training
//
// Example usage:
//
//	trainer, err := optim.NewSGD(net, optim.SGDConfig{
//	    Schedule: optim.LinearDecay{Initial: 3, Final: 1, Epochs: 30},
//	    Source:   mnist,
//	    Count:    10000,
//	})
//	if err != nil {
//	    return err
//	}
//	net, err = trainer.Learn(30)
package optim

import "errors"

// RateSchedule yields the learning rate used during an epoch.
//
// Rate must be pure: the same epoch always yields the same rate.
type RateSchedule interface {
	Rate(epoch int) float64
}

// RateFunc adapts a plain function to RateSchedule.
type RateFunc func(epoch int) float64

// Rate returns f(epoch).
func (f RateFunc) Rate(epoch int) float64 {
	return f(epoch)
}

// ConstantRate uses the same rate for every epoch.
type ConstantRate float64

// Rate returns r.
func (r ConstantRate) Rate(int) float64 {
	return float64(r)
}

// LinearDecay lowers the rate linearly from Initial at epoch 0 towards
// Final, reached at epoch Epochs:
//
//	rate(e) = Initial - e*(Initial-Final)/Epochs
//
// With Initial=3, Final=1, Epochs=30 this is the classic 3 - e*(2/30).
// Epochs <= 0 yields Initial for every epoch.
type LinearDecay struct {
	Initial float64
	Final   float64
	Epochs  int
}

// Rate returns the decayed rate for epoch.
func (d LinearDecay) Rate(epoch int) float64 {
	if d.Epochs <= 0 {
		return d.Initial
	}
	return d.Initial - float64(epoch)*((d.Initial-d.Final)/float64(d.Epochs))
}

var (
	// ErrConsumed is returned by Learn when the trainer was already used.
	ErrConsumed = errors.New("trainer already consumed")

	// ErrNoSchedule is returned when SGD is configured without a rate schedule.
	ErrNoSchedule = errors.New("no rate schedule")

	// ErrNoSource is returned when SGD is configured without a data source.
	ErrNoSource = errors.New("no data source")
)
