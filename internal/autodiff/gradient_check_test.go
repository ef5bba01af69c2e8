package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/regress/internal/autodiff"
	"github.com/born-ml/regress/internal/backend/cpu"
	"github.com/born-ml/regress/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ad64 = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// numericalGradient estimates d f / d x[i] for every element of x with
// central differences, mutating x in place and restoring it afterwards.
func numericalGradient(x *tensor.Tensor[float64, ad64], f func() float64, epsilon float64) []float64 {
	data := x.Data()
	grad := make([]float64, len(data))
	for i := range data {
		orig := data[i]
		data[i] = orig + epsilon
		plus := f()
		data[i] = orig - epsilon
		minus := f()
		data[i] = orig
		grad[i] = (plus - minus) / (2 * epsilon)
	}
	return grad
}

// TestNumericalGradient_LSTMStyleCell checks a gated recurrence built from
// every op the sequence regressor uses against finite differences.
func TestNumericalGradient_LSTMStyleCell(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	rng := rand.New(rand.NewSource(7))

	const batch, in, hidden = 2, 3, 2
	x := tensor.Randn[float64](tensor.Shape{batch, in}, rng, backend)
	h := tensor.Randn[float64](tensor.Shape{batch, hidden}, rng, backend)
	c := tensor.Randn[float64](tensor.Shape{batch, hidden}, rng, backend)
	wih := tensor.Randn[float64](tensor.Shape{4 * hidden, in}, rng, backend)
	whh := tensor.Randn[float64](tensor.Shape{4 * hidden, hidden}, rng, backend)
	bias := tensor.Randn[float64](tensor.Shape{4 * hidden}, rng, backend)

	forward := func() *tensor.Tensor[float64, ad64] {
		gates := x.MatMul(wih.T()).Add(h.MatMul(whh.T())).Add(bias.Reshape(1, 4*hidden))
		parts := gates.Chunk(4, 1)
		i, f, g, o := parts[0].Sigmoid(), parts[1].Sigmoid(), parts[2].Tanh(), parts[3].Sigmoid()
		cNext := f.Mul(c).Add(i.Mul(g))
		hNext := o.Mul(cNext.Tanh())
		out := tensor.Cat([]*tensor.Tensor[float64, ad64]{hNext, cNext.ReLU()}, 1)
		return out.Mul(out).SumDim(1, false).MulScalar(0.5).AddScalar(1).Sum()
	}
	value := func() float64 {
		tape.StopRecording()
		defer tape.StartRecording()
		return forward().Item()
	}

	tape.StartRecording()
	loss := forward()
	grads := autodiff.Backward(loss, backend)

	for name, param := range map[string]*tensor.Tensor[float64, ad64]{
		"x": x, "h": h, "c": c, "weight_ih": wih, "weight_hh": whh, "bias": bias,
	} {
		got, ok := grads[param.Raw()]
		require.True(t, ok, "missing gradient for %s", name)
		require.Equal(t, param.Shape(), got.Shape(), name)

		want := numericalGradient(param, value, 1e-6)
		assert.InDeltaSlice(t, want, got.AsFloat64(), 1e-5, name)
	}
}

// TestNumericalGradient_Subtract checks a squared-error style expression.
func TestNumericalGradient_Subtract(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	rng := rand.New(rand.NewSource(3))

	pred := tensor.Randn[float64](tensor.Shape{4, 1}, rng, backend)
	target := tensor.Randn[float64](tensor.Shape{4, 1}, rng, backend)

	forward := func() *tensor.Tensor[float64, ad64] {
		diff := pred.Sub(target)
		return diff.Mul(diff).Sum().MulScalar(0.25)
	}

	tape.StartRecording()
	grads := autodiff.Backward(forward(), backend)
	tape.StopRecording()

	want := numericalGradient(pred, func() float64 { return forward().Item() }, 1e-6)
	assert.InDeltaSlice(t, want, grads[pred.Raw()].AsFloat64(), 1e-6)
}
