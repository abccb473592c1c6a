package optim

import (
	"bytes"
	"io"
	"log"
	"math/rand"
	"testing"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func randomNet(t *testing.T, sizes []int, scale float64, seed int64) *nn.Network {
	t.Helper()
	net, err := nn.NewRandom(sizes, scale, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return net
}

func halfSquaredError(t *testing.T, net *nn.Network, ex dataset.Example) float64 {
	t.Helper()
	state, err := net.Eval(ex.Features)
	require.NoError(t, err)
	e, err := state.SquaredError(ex.Class)
	require.NoError(t, err)
	return 0.5 * e
}

// TestBackpropMatchesFiniteDifferences checks every weight and bias
// gradient against a central difference of 0.5*Σ(errors²).
func TestBackpropMatchesFiniteDifferences(t *testing.T) {
	net := randomNet(t, []int{3, 4, 2}, 2, 42)
	ex := dataset.Example{Class: 1, Features: []float64{0.4, -0.9, 0.25}}

	state, err := net.Eval(ex.Features)
	require.NoError(t, err)
	grads, err := Backprop(net, state, ex.Class)
	require.NoError(t, err)
	require.Len(t, grads, net.Len())

	settings := &fd.Settings{Formula: fd.Central}
	check := func(name string, m *mat.Dense, analytic *mat.Dense) {
		rows, cols := m.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				orig := m.At(r, c)
				numeric := fd.Derivative(func(x float64) float64 {
					m.Set(r, c, x)
					defer m.Set(r, c, orig)
					return halfSquaredError(t, net, ex)
				}, orig, settings)
				assert.InDelta(t, numeric, analytic.At(r, c), 1e-4, "%s[%d,%d]", name, r, c)
			}
		}
	}

	for i, l := range net.Layers() {
		check("weights", l.Weights, grads[i].Weights)
		check("bias", l.Bias, grads[i].Bias)
	}
}

func TestBackpropShapes(t *testing.T) {
	net := randomNet(t, []int{5, 7, 3, 2}, 1, 1)
	state, err := net.Eval(make([]float64, 5))
	require.NoError(t, err)

	grads, err := Backprop(net, state, 0)
	require.NoError(t, err)
	for i, g := range grads {
		wr, wc := g.Weights.Dims()
		assert.Equal(t, net.Layer(i).Inputs(), wr)
		assert.Equal(t, net.Layer(i).Outputs(), wc)
		br, bc := g.Bias.Dims()
		assert.Equal(t, 1, br)
		assert.Equal(t, net.Layer(i).Outputs(), bc)
	}

	_, err = Backprop(net, state, 2)
	assert.ErrorIs(t, err, nn.ErrClassOutOfRange)
}

func TestApply(t *testing.T) {
	net, err := nn.NewConstant([]int{2, 1}, 1)
	require.NoError(t, err)

	grads := []Gradient{{
		Weights: mat.NewDense(2, 1, []float64{0.5, -1}),
		Bias:    mat.NewDense(1, 1, []float64{2}),
	}}
	require.NoError(t, Apply(net, grads, 0.5))

	assert.Equal(t, []float64{0.75, 1.5}, net.Layer(0).Weights.RawMatrix().Data)
	assert.Equal(t, 0.0, net.Layer(0).Bias.At(0, 0))

	assert.ErrorIs(t, Apply(net, nil, 1), nn.ErrDimensionMismatch)
}

// TestLearnSingleStep checks one epoch over one example equals Backprop
// followed by Apply on the initial network.
func TestLearnSingleStep(t *testing.T) {
	net := randomNet(t, []int{2, 3, 2}, 1, 9)
	want := net.Clone()
	ex := dataset.Example{Class: 0, Features: []float64{0.3, 0.8}}

	state, err := want.Eval(ex.Features)
	require.NoError(t, err)
	grads, err := Backprop(want, state, ex.Class)
	require.NoError(t, err)
	require.NoError(t, Apply(want, grads, 0.7))

	trainer, err := NewSGD(net, SGDConfig{
		Schedule: ConstantRate(0.7),
		Source:   dataset.Slice{ex},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	got, err := trainer.Learn(1)
	require.NoError(t, err)

	assert.True(t, nn.Equal(want, got, 1e-12))
}

func TestLearnReducesError(t *testing.T) {
	net := randomNet(t, []int{2, 3, 2}, 1, 3)
	src := dataset.Separable()

	before, err := MeanSquaredError(net, src, 0)
	require.NoError(t, err)

	trainer, err := NewSGD(net, SGDConfig{Schedule: ConstantRate(0.1), Source: src, Logger: quietLogger()})
	require.NoError(t, err)
	net, err = trainer.Learn(1)
	require.NoError(t, err)

	after, err := MeanSquaredError(net, src, 0)
	require.NoError(t, err)
	assert.Less(t, after, before)
}

func TestLearnSeparableConverges(t *testing.T) {
	net := randomNet(t, []int{2, 3, 2}, 1, 1)
	src := dataset.Separable()

	var first, last EpochStats
	trainer, err := NewSGD(net, SGDConfig{
		Schedule: ConstantRate(1),
		Source:   src,
		Logger:   quietLogger(),
		OnEpoch: func(s EpochStats) {
			if s.Epoch == 0 {
				first = s
			}
			last = s
		},
	})
	require.NoError(t, err)
	net, err = trainer.Learn(200)
	require.NoError(t, err)

	assert.Equal(t, 199, last.Epoch)
	assert.Equal(t, 4, last.Examples)
	assert.Less(t, last.Error, first.Error)

	acc, err := Evaluate(net, src, 0, parallel.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Successes: 4, Total: 4}, acc)
	assert.Equal(t, 1.0, acc.Rate())
}

func TestLearnConsumesTrainer(t *testing.T) {
	net := randomNet(t, []int{2, 2}, 1, 1)
	trainer, err := NewSGD(net, SGDConfig{Schedule: ConstantRate(1), Source: dataset.XOR(), Logger: quietLogger()})
	require.NoError(t, err)

	got, err := trainer.Learn(0)
	require.NoError(t, err)
	assert.Same(t, net, got)

	_, err = trainer.Learn(1)
	assert.ErrorIs(t, err, ErrConsumed)
}

func TestLearnFailsFast(t *testing.T) {
	tests := []struct {
		name string
		src  dataset.Slice
		want error
	}{
		{
			name: "wrong width",
			src: dataset.Slice{
				{Class: 0, Features: []float64{0, 1}},
				{Class: 0, Features: []float64{0, 1, 2}},
			},
			want: nn.ErrDimensionMismatch,
		},
		{
			name: "class out of range",
			src:  dataset.Slice{{Class: 5, Features: []float64{0, 1}}},
			want: nn.ErrClassOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := randomNet(t, []int{2, 3, 2}, 1, 1)
			var epochs int
			trainer, err := NewSGD(net, SGDConfig{
				Schedule: ConstantRate(1),
				Source:   tt.src,
				Logger:   quietLogger(),
				OnEpoch:  func(EpochStats) { epochs++ },
			})
			require.NoError(t, err)

			_, err = trainer.Learn(3)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, epochs)
		})
	}
}

func TestNewSGD(t *testing.T) {
	net := randomNet(t, []int{2, 2}, 1, 1)

	_, err := NewSGD(net, SGDConfig{Source: dataset.XOR()})
	assert.ErrorIs(t, err, ErrNoSchedule)
	_, err = NewSGD(net, SGDConfig{Schedule: ConstantRate(1)})
	assert.ErrorIs(t, err, ErrNoSource)
	_, err = NewSGD(nil, SGDConfig{Schedule: ConstantRate(1), Source: dataset.XOR()})
	assert.ErrorIs(t, err, nn.ErrEmptyNetwork)

	for _, tt := range []struct{ count, want int }{{0, 4}, {-1, 4}, {2, 2}, {100, 4}} {
		trainer, err := NewSGD(net, SGDConfig{Schedule: ConstantRate(1), Source: dataset.XOR(), Count: tt.count})
		require.NoError(t, err)
		assert.Equal(t, tt.want, trainer.Count(), "count %d", tt.count)
	}
}

func TestLearnLogs(t *testing.T) {
	var buf bytes.Buffer
	net := randomNet(t, []int{2, 2}, 1, 1)
	trainer, err := NewSGD(net, SGDConfig{
		Schedule: LinearDecay{Initial: 3, Final: 1, Epochs: 2},
		Source:   dataset.XOR(),
		Logger:   log.New(&buf, "", 0),
	})
	require.NoError(t, err)
	_, err = trainer.Learn(2)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "epoch=0 rate=3.0000")
	assert.Contains(t, buf.String(), "epoch=1 rate=2.0000")
}

func TestSchedules(t *testing.T) {
	decay := LinearDecay{Initial: 3, Final: 1, Epochs: 30}
	assert.Equal(t, 3.0, decay.Rate(0))
	assert.InDelta(t, 2.0, decay.Rate(15), 1e-12)
	assert.InDelta(t, 3-29*(2.0/30), decay.Rate(29), 1e-12)
	assert.Equal(t, 3.0, LinearDecay{Initial: 3, Final: 1}.Rate(10))

	assert.Equal(t, 0.5, ConstantRate(0.5).Rate(7))
	assert.Equal(t, 14.0, RateFunc(func(e int) float64 { return float64(2 * e) }).Rate(7))
}

func TestEvaluateMatchesSequential(t *testing.T) {
	net := randomNet(t, []int{4, 6, 3}, 4, 17)
	rng := rand.New(rand.NewSource(2))
	src := make(dataset.Slice, 300)
	for i := range src {
		features := make([]float64, 4)
		for j := range features {
			features[j] = rng.Float64()*2 - 1
		}
		src[i] = dataset.Example{Class: rng.Intn(3), Features: features}
	}

	var want int
	for _, ex := range src[:250] {
		class, err := net.Predict(ex.Features)
		require.NoError(t, err)
		if class == ex.Class {
			want++
		}
	}

	cfg := parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}
	acc, err := Evaluate(net, src, 250, cfg)
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Successes: want, Total: 250}, acc)

	seq, err := Evaluate(net, src, 250, parallel.Config{})
	require.NoError(t, err)
	assert.Equal(t, acc, seq)
}

func TestEvaluateErrors(t *testing.T) {
	net := randomNet(t, []int{2, 2}, 1, 1)
	src := dataset.Slice{{Class: 0, Features: []float64{1}}}

	_, err := Evaluate(net, src, 0, parallel.DefaultConfig())
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	acc, err := Evaluate(net, dataset.Slice{}, 10, parallel.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc.Rate())
}
