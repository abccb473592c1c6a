package optim

import (
	"fmt"
	"log"
	"time"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
)

// SGD trains a network one example at a time.
//
// Update rule, applied after every example:
//
//	W = W - rate(epoch) * dW
//	b = b - rate(epoch) * dB
//
// An SGD owns its network exclusively until Learn returns it; Learn can be
// called once.
//
// Example:
//
//	trainer, err := optim.NewSGD(net, optim.SGDConfig{
//	    Schedule: optim.ConstantRate(1),
//	    Source:   dataset.Separable(),
//	})
//	net, err = trainer.Learn(200)
type SGD struct {
	net      *nn.Network
	schedule RateSchedule
	source   dataset.Source
	count    int
	logger   *log.Logger
	onEpoch  func(EpochStats)
}

// SGDConfig holds configuration for the SGD trainer.
type SGDConfig struct {
	Schedule RateSchedule   // Learning rate per epoch (required)
	Source   dataset.Source // Training examples (required)
	Count    int            // Examples per epoch; <= 0 or > Source.Len() means all
	Logger   *log.Logger    // Epoch log (default: log.Default())
	OnEpoch  func(EpochStats)
}

// EpochStats summarizes one completed epoch.
type EpochStats struct {
	Epoch    int
	Rate     float64
	Error    float64 // Mean squared error over the epoch's examples, before each update
	Examples int
	Duration time.Duration
}

// NewSGD creates a trainer for net.
func NewSGD(net *nn.Network, config SGDConfig) (*SGD, error) {
	if net == nil {
		return nil, nn.ErrEmptyNetwork
	}
	if config.Schedule == nil {
		return nil, ErrNoSchedule
	}
	if config.Source == nil {
		return nil, ErrNoSource
	}
	count := config.Count
	if count <= 0 || count > config.Source.Len() {
		count = config.Source.Len()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &SGD{
		net:      net,
		schedule: config.Schedule,
		source:   config.Source,
		count:    count,
		logger:   logger,
		onEpoch:  config.OnEpoch,
	}, nil
}

// Count returns the number of examples visited per epoch.
func (s *SGD) Count() int {
	return s.count
}

// Learn runs epochs passes over the first Count examples, in index order,
// and returns the trained network.
//
// Within an epoch each example is evaluated, backpropagated and applied
// before the next one is fetched. The epoch error is the running mean of
// the per-example squared error:
//
//	error = (error*i + e) / (i+1)
//
// Any failure (an example that cannot be fetched, a feature vector of the
// wrong width, a class outside the output range) stops training at once.
// Learn consumes the trainer; later calls return ErrConsumed.
func (s *SGD) Learn(epochs int) (*nn.Network, error) {
	if s.net == nil {
		return nil, ErrConsumed
	}
	net := s.net
	s.net = nil

	for epoch := 0; epoch < epochs; epoch++ {
		stats, err := s.epoch(net, epoch)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		s.logger.Printf("epoch=%d rate=%.4f error=%.6f examples=%d elapsed=%s",
			stats.Epoch, stats.Rate, stats.Error, stats.Examples, stats.Duration.Round(time.Millisecond))
		if s.onEpoch != nil {
			s.onEpoch(stats)
		}
	}
	return net, nil
}

func (s *SGD) epoch(net *nn.Network, epoch int) (EpochStats, error) {
	start := time.Now()
	rate := s.schedule.Rate(epoch)

	var mse float64
	for i := 0; i < s.count; i++ {
		ex, err := s.source.Example(i)
		if err != nil {
			return EpochStats{}, fmt.Errorf("example %d: %w", i, err)
		}
		state, err := net.Eval(ex.Features)
		if err != nil {
			return EpochStats{}, fmt.Errorf("example %d: %w", i, err)
		}
		e, err := state.SquaredError(ex.Class)
		if err != nil {
			return EpochStats{}, fmt.Errorf("example %d: %w", i, err)
		}
		mse = (mse*float64(i) + e) / float64(i+1)

		grads, err := Backprop(net, state, ex.Class)
		if err != nil {
			return EpochStats{}, fmt.Errorf("example %d: %w", i, err)
		}
		if err := Apply(net, grads, rate); err != nil {
			return EpochStats{}, err
		}
	}

	return EpochStats{
		Epoch:    epoch,
		Rate:     rate,
		Error:    mse,
		Examples: s.count,
		Duration: time.Since(start),
	}, nil
}
