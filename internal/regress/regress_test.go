package regress_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/born-ml/regress/internal/autodiff"
	"github.com/born-ml/regress/internal/backend/cpu"
	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/optim"
	"github.com/born-ml/regress/internal/regress"
	"github.com/born-ml/regress/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func randn(rng *rand.Rand, backend *cpu.CPUBackend, shape ...int) *tensor.Tensor[float32, *cpu.CPUBackend] {
	return tensor.Randn[float32](tensor.Shape(shape), rng, backend)
}

func TestFeedForwardRegressor_OutputShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))

	for _, tc := range []struct{ input, hidden, batch int }{
		{1, 1, 1},
		{4, 8, 1},
		{4, 8, 16},
		{7, 3, 5},
		{32, 64, 9},
	} {
		t.Run(fmt.Sprintf("in%d_h%d_b%d", tc.input, tc.hidden, tc.batch), func(t *testing.T) {
			model, err := regress.NewFeedForwardRegressor(tc.input, tc.hidden, backend)
			require.NoError(t, err)

			out := model.Forward(randn(rng, backend, tc.batch, tc.input))
			assert.Equal(t, tensor.Shape{tc.batch, 1}, out.Shape())
		})
	}
}

func TestSequenceRegressor_OutputShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(2))

	for _, tc := range []struct{ input, hidden, layers, batch, seq int }{
		{1, 1, 1, 1, 1},
		{4, 8, 1, 2, 5},
		{3, 5, 2, 4, 1},
		{2, 4, 3, 1, 7},
		{6, 2, 1, 8, 3},
	} {
		name := fmt.Sprintf("in%d_h%d_l%d_b%d_t%d", tc.input, tc.hidden, tc.layers, tc.batch, tc.seq)
		t.Run(name, func(t *testing.T) {
			model, err := regress.NewSequenceRegressor(tc.input, tc.hidden, tc.layers, backend)
			require.NoError(t, err)

			out := model.Forward(randn(rng, backend, tc.batch, tc.seq, tc.input))
			assert.Equal(t, tensor.Shape{tc.batch, 1}, out.Shape())
		})
	}
}

func TestFeedForwardRegressor_Deterministic(t *testing.T) {
	backend := cpu.New()
	model, err := regress.NewFeedForwardRegressor(5, 7, backend)
	require.NoError(t, err)

	x := randn(rand.New(rand.NewSource(3)), backend, 4, 5)
	first := model.Forward(x).Data()
	second := model.Forward(x).Data()
	assert.Equal(t, first, second)
}

func TestSequenceRegressor_Stateless(t *testing.T) {
	backend := cpu.New()
	model, err := regress.NewSequenceRegressor(3, 4, 2, backend)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(4))
	a := randn(rng, backend, 2, 5, 3)
	b := randn(rng, backend, 2, 5, 3)

	aFirst := model.Forward(a).Data()
	bSecond := model.Forward(b).Data()
	bFirst := model.Forward(b).Data()
	aSecond := model.Forward(a).Data()

	assert.Equal(t, aFirst, aSecond)
	assert.Equal(t, bFirst, bSecond)
	assert.NotEqual(t, aFirst, bFirst)
}

func TestSequenceRegressor_BatchRowsIndependent(t *testing.T) {
	backend := cpu.New()
	model, err := regress.NewSequenceRegressor(2, 3, 1, backend)
	require.NoError(t, err)

	batch := randn(rand.New(rand.NewSource(5)), backend, 3, 4, 2)
	all := model.Forward(batch)

	for i := range 3 {
		row := model.Forward(batch.Narrow(0, i, 1))
		assert.InDelta(t, all.At(i, 0), row.Item(), 1e-6)
	}
}

func TestSequenceRegressor_InitStates(t *testing.T) {
	backend := cpu.New()
	model, err := regress.NewSequenceRegressor(3, 4, 2, backend)
	require.NoError(t, err)

	state := model.InitStates(5)
	assert.Equal(t, tensor.Shape{2, 5, 4}, state.Hidden.Shape())
	assert.Equal(t, tensor.Shape{2, 5, 4}, state.Cell.Shape())
	assert.Equal(t, make([]float32, 40), state.Hidden.Data())
	assert.Equal(t, make([]float32, 40), state.Cell.Data())
	assert.NotSame(t, state.Hidden.Raw(), state.Cell.Raw())
}

func TestConstruction_RejectsInvalidSizes(t *testing.T) {
	backend := cpu.New()

	for _, tc := range []struct{ input, hidden int }{{0, 8}, {4, 0}, {-1, 8}, {4, -3}} {
		_, err := regress.NewFeedForwardRegressor(tc.input, tc.hidden, backend)
		assert.ErrorIs(t, err, regress.ErrInvalidSize, "feedforward %v", tc)
	}

	for _, tc := range []struct{ input, hidden, layers int }{{0, 8, 1}, {4, 0, 1}, {4, 8, 0}, {4, 8, -2}} {
		_, err := regress.NewSequenceRegressor(tc.input, tc.hidden, tc.layers, backend)
		assert.ErrorIs(t, err, regress.ErrInvalidSize, "lstm %v", tc)
	}
}

func TestFeedForwardRegressor_SingleSample(t *testing.T) {
	backend := cpu.New()
	model, err := regress.NewFeedForwardRegressor(4, 8, backend)
	require.NoError(t, err)

	x, err := tensor.FromSlice([]float32{1, 0, 0, 0}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	out := model.Forward(x)
	assert.Equal(t, tensor.Shape{1, 1}, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
	assert.IsType(t, float32(0), out.Item())
}

func TestForward_ShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	ffn, err := regress.NewFeedForwardRegressor(4, 8, backend)
	require.NoError(t, err)
	lstm, err := regress.NewSequenceRegressor(4, 8, 1, backend)
	require.NoError(t, err)

	assert.Panics(t, func() { ffn.Forward(tensor.Zeros[float32](tensor.Shape{2, 3}, backend)) })
	assert.Panics(t, func() { lstm.Forward(tensor.Zeros[float32](tensor.Shape{2, 4}, backend)) })
	assert.Panics(t, func() { lstm.Forward(tensor.Zeros[float32](tensor.Shape{2, 3, 5}, backend)) })
}

func TestStateDict(t *testing.T) {
	backend := cpu.New()
	x := randn(rand.New(rand.NewSource(6)), backend, 2, 3, 4)

	ffn, err := regress.NewFeedForwardRegressor(4, 8, backend)
	require.NoError(t, err)
	assert.Len(t, ffn.StateDict(), 4)
	assert.Contains(t, ffn.StateDict(), "i2h.weight")
	assert.Contains(t, ffn.StateDict(), "h2o.bias")
	assert.Equal(t, 4*8+8+8+1, regress.NumParameters[*cpu.CPUBackend](ffn))

	src, err := regress.NewSequenceRegressor(4, 5, 2, backend)
	require.NoError(t, err)
	dst, err := regress.NewSequenceRegressor(4, 5, 2, backend)
	require.NoError(t, err)

	stateDict := src.StateDict()
	assert.Len(t, stateDict, 10)
	assert.Contains(t, stateDict, "lstm.weight_ih_l1")
	assert.Contains(t, stateDict, "lstm2o.weight")

	require.NoError(t, dst.LoadStateDict(stateDict))
	assert.Equal(t, src.Forward(x).Data(), dst.Forward(x).Data())

	shallow, err := regress.NewSequenceRegressor(4, 5, 1, backend)
	require.NoError(t, err)
	assert.NoError(t, shallow.LoadStateDict(stateDict), "extra layers are ignored")

	deep, err := regress.NewSequenceRegressor(4, 5, 3, backend)
	require.NoError(t, err)
	assert.ErrorContains(t, deep.LoadStateDict(stateDict), "weight_ih_l2")
}

func TestLoadStateDict_FailedLoadLeavesModelUnchanged(t *testing.T) {
	backend := cpu.New()

	badWeight := func(shape ...int) *tensor.RawTensor {
		raw, err := tensor.NewRaw(tensor.Shape(shape), tensor.Float32, tensor.CPU)
		require.NoError(t, err)
		raw.Fill(7)
		return raw
	}
	snapshot := func(m regress.Regressor[*cpu.CPUBackend]) map[string][]float32 {
		out := make(map[string][]float32)
		for name, raw := range m.StateDict() {
			out[name] = append([]float32(nil), raw.AsFloat32()...)
		}
		return out
	}

	tests := []struct {
		name    string
		build   func() (regress.Regressor[*cpu.CPUBackend], regress.Regressor[*cpu.CPUBackend])
		corrupt string
		shape   []int
	}{
		{
			name: "feedforward",
			build: func() (regress.Regressor[*cpu.CPUBackend], regress.Regressor[*cpu.CPUBackend]) {
				src, err := regress.NewFeedForwardRegressor(2, 3, backend)
				require.NoError(t, err)
				dst, err := regress.NewFeedForwardRegressor(2, 3, backend)
				require.NoError(t, err)
				return src, dst
			},
			corrupt: "h2o.weight",
			shape:   []int{1, 4},
		},
		{
			name: "lstm",
			build: func() (regress.Regressor[*cpu.CPUBackend], regress.Regressor[*cpu.CPUBackend]) {
				src, err := regress.NewSequenceRegressor(2, 3, 2, backend)
				require.NoError(t, err)
				dst, err := regress.NewSequenceRegressor(2, 3, 2, backend)
				require.NoError(t, err)
				return src, dst
			},
			corrupt: "lstm2o.weight",
			shape:   []int{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst := tt.build()
			before := snapshot(dst)

			stateDict := src.StateDict()
			stateDict[tt.corrupt] = badWeight(tt.shape...)

			err := dst.LoadStateDict(stateDict)
			require.ErrorContains(t, err, "shape mismatch")
			assert.Equal(t, before, snapshot(dst), "no parameter may change when the load fails")
		})
	}
}

// trainStep runs one forward/backward pass under MSE and applies opt.
func trainStep(
	t *testing.T,
	backend adBackend,
	model regress.Regressor[adBackend],
	opt optim.Optimizer,
	x, y *tensor.Tensor[float32, adBackend],
) float32 {
	t.Helper()
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	loss := nn.NewMSELoss[adBackend]().Forward(model.Forward(x), y)
	grads := autodiff.Backward(loss, backend)
	tape.StopRecording()

	params := model.Parameters()
	require.Equal(t, len(params), nn.CaptureGrads(params, grads), "every parameter receives a gradient")
	for _, p := range params {
		require.Equal(t, p.Tensor().Shape(), p.Grad().Shape(), p.Name())
	}

	opt.Step(grads)
	return loss.Item()
}

func TestTraining_GradientsReachEveryParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())
	nn.Seed(11)

	ffn, err := regress.NewFeedForwardRegressor(3, 6, backend)
	require.NoError(t, err)
	lstm, err := regress.NewSequenceRegressor(3, 4, 2, backend)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(12))
	tests := []struct {
		name  string
		model regress.Regressor[adBackend]
		x     *tensor.Tensor[float32, adBackend]
	}{
		{"feedforward", ffn, tensor.Randn[float32](tensor.Shape{8, 3}, rng, backend)},
		{"lstm", lstm, tensor.Randn[float32](tensor.Shape{8, 5, 3}, rng, backend)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := tensor.Randn[float32](tensor.Shape{8, 1}, rng, backend)
			opt := optim.NewAdam(tt.model.Parameters(), optim.AdamConfig{LR: 0.01})

			first := trainStep(t, backend, tt.model, opt, tt.x, y)
			var last float32
			for range 50 {
				last = trainStep(t, backend, tt.model, opt, tt.x, y)
			}
			assert.Less(t, last, first, "loss decreases as the optimizer updates parameters in place")
		})
	}
}

func TestOptimizerUpdateVisibleToForward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, err := regress.NewFeedForwardRegressor(2, 3, backend)
	require.NoError(t, err)

	x := tensor.Ones[float32](tensor.Shape{1, 2}, backend)
	before := model.Forward(x).Item()

	// A unit gradient on the output bias moves the prediction by exactly -lr.
	bias := model.Parameters()[3]
	grad, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	grad.Fill(1)

	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{bias.Tensor().Raw(): grad})

	assert.InDelta(t, before-0.5, model.Forward(x).Item(), 1e-6)
}
