package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/regress/internal/parallel"
	"github.com/born-ml/regress/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw32(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(tensor.Shape(shape), tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func TestCPUBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
	assert.NotEmpty(t, backend.Features())
}

func TestCPUBackend_AddSameShape(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw32(t, []float32{10, 20, 30, 40}, 2, 2)

	result := backend.Add(a, b)

	assert.Equal(t, []float32{11, 22, 33, 44}, result.AsFloat32())
	assert.Equal(t, []float32{1, 2, 3, 4}, a.AsFloat32(), "inputs must not be modified")
}

func TestCPUBackend_Broadcast(t *testing.T) {
	backend := New()

	tests := []struct {
		name     string
		a, b     *tensor.RawTensor
		op       func(a, b *tensor.RawTensor) *tensor.RawTensor
		shape    tensor.Shape
		expected []float32
	}{
		{
			name:     "row bias",
			a:        raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3),
			b:        raw32(t, []float32{10, 20, 30}, 1, 3),
			op:       backend.Add,
			shape:    tensor.Shape{2, 3},
			expected: []float32{11, 22, 33, 14, 25, 36},
		},
		{
			name:     "column",
			a:        raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3),
			b:        raw32(t, []float32{2, 3}, 2, 1),
			op:       backend.Mul,
			shape:    tensor.Shape{2, 3},
			expected: []float32{2, 4, 6, 12, 15, 18},
		},
		{
			name:     "lower rank",
			a:        raw32(t, []float32{5, 5, 5, 5}, 2, 2),
			b:        raw32(t, []float32{1, 2}, 2),
			op:       backend.Sub,
			shape:    tensor.Shape{2, 2},
			expected: []float32{4, 3, 4, 3},
		},
		{
			name:     "scalar",
			a:        raw32(t, []float32{1, 2, 3}, 3),
			b:        raw32(t, []float32{2}),
			op:       backend.Mul,
			shape:    tensor.Shape{3},
			expected: []float32{2, 4, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op(tt.a, tt.b)
			assert.True(t, result.Shape().Equal(tt.shape), "shape %v", result.Shape())
			assert.Equal(t, tt.expected, result.AsFloat32())
		})
	}
}

func TestCPUBackend_BroadcastIncompatible(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3}, 3)
	b := raw32(t, []float32{1, 2}, 2)

	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := raw32(t, []float32{7, 8, 9, 10, 11, 12}, 3, 2)

	result := backend.MatMul(a, b)

	require.True(t, result.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{58, 64, 139, 154}, result.AsFloat32())
}

func TestCPUBackend_MatMulParallelMatchesSequential(t *testing.T) {
	seq := NewWithConfig(parallel.Config{Enabled: false})
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2})

	m, k, n := 37, 11, 5
	aData := make([]float64, m*k)
	bData := make([]float64, k*n)
	for i := range aData {
		aData[i] = math.Sin(float64(i))
	}
	for i := range bData {
		bData[i] = math.Cos(float64(i))
	}

	a, err := tensor.NewRaw(tensor.Shape{m, k}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(a.AsFloat64(), aData)
	b, err := tensor.NewRaw(tensor.Shape{k, n}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(b.AsFloat64(), bData)

	assert.Equal(t, seq.MatMul(a, b).AsFloat64(), par.MatMul(a, b).AsFloat64())
}

func TestCPUBackend_MatMulShapeMismatch(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw32(t, []float32{1, 2, 3}, 3, 1)

	assert.PanicsWithValue(t, "matmul: shape mismatch [2,2] @ [3,1]", func() { backend.MatMul(a, b) })
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()

	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	result := backend.Transpose(x)
	require.True(t, result.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, result.AsFloat32())

	// [2, 2, 2] with axes (2, 0, 1)
	y := raw32(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, 2, 2, 2)
	permuted := backend.Transpose(y, 2, 0, 1)
	require.True(t, permuted.Shape().Equal(tensor.Shape{2, 2, 2}))
	assert.Equal(t, []float32{0, 2, 4, 6, 1, 3, 5, 7}, permuted.AsFloat32())

	assert.Panics(t, func() { backend.Transpose(y, 0, 0, 1) })
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)

	result := backend.Reshape(x, tensor.Shape{3, 2})
	assert.True(t, result.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, x.AsFloat32(), result.AsFloat32())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4, 2}) })
}

func TestCPUBackend_Activations(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{-2, -0.5, 0, 0.5, 2}, 5)

	relu := backend.ReLU(x).AsFloat32()
	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, relu)

	sig := backend.Sigmoid(x).AsFloat32()
	tanh := backend.Tanh(x).AsFloat32()
	for i, v := range x.AsFloat32() {
		assert.InDelta(t, 1/(1+math.Exp(-float64(v))), float64(sig[i]), 1e-6)
		assert.InDelta(t, math.Tanh(float64(v)), float64(tanh[i]), 1e-6)
	}

	big := raw32(t, []float32{-1000, 1000}, 2)
	assert.Equal(t, []float32{0, 1}, backend.Sigmoid(big).AsFloat32())
}

func TestCPUBackend_Scalar(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3}, 3)

	assert.Equal(t, []float32{2, 4, 6}, backend.MulScalar(x, 2).AsFloat32())
	assert.Equal(t, []float32{1.5, 2.5, 3.5}, backend.AddScalar(x, 0.5).AsFloat32())
}

func TestCPUBackend_Sum(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)

	total := backend.Sum(x)
	assert.Empty(t, total.Shape())
	assert.Equal(t, float32(21), total.AsFloat32()[0])

	rows := backend.SumDim(x, 1, false)
	assert.True(t, rows.Shape().Equal(tensor.Shape{2}))
	assert.Equal(t, []float32{6, 15}, rows.AsFloat32())

	cols := backend.SumDim(x, 0, true)
	assert.True(t, cols.Shape().Equal(tensor.Shape{1, 3}))
	assert.Equal(t, []float32{5, 7, 9}, cols.AsFloat32())

	last := backend.SumDim(x, -1, true)
	assert.True(t, last.Shape().Equal(tensor.Shape{2, 1}))
}

func TestCPUBackend_NarrowCatChunk(t *testing.T) {
	backend := New()
	// [2, 3, 2]
	x := raw32(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 2, 3, 2)

	last := backend.Narrow(x, 1, 2, 1)
	require.True(t, last.Shape().Equal(tensor.Shape{2, 1, 2}))
	assert.Equal(t, []float32{4, 5, 10, 11}, last.AsFloat32())

	first := backend.Narrow(x, 1, 0, 2)
	joined := backend.Cat([]*tensor.RawTensor{first, last}, 1)
	require.True(t, joined.Shape().Equal(x.Shape()))
	assert.Equal(t, x.AsFloat32(), joined.AsFloat32())

	parts := backend.Chunk(x, 2, -1)
	require.Len(t, parts, 2)
	assert.Equal(t, []float32{0, 2, 4, 6, 8, 10}, parts[0].AsFloat32())
	assert.Equal(t, []float32{1, 3, 5, 7, 9, 11}, parts[1].AsFloat32())

	assert.Panics(t, func() { backend.Narrow(x, 1, 2, 2) })
	assert.Panics(t, func() { backend.Chunk(x, 2, 1) })
	assert.Panics(t, func() { backend.Cat([]*tensor.RawTensor{x, parts[0]}, 0) })
}
