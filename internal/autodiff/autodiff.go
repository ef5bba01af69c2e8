// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op implements its backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x²
//
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()].AsFloat32()) // dy/dx = 2x = [4]
//
// An AutodiffBackend is not safe for concurrent use: all operations share one tape.
package autodiff

import (
	"github.com/born-ml/regress/internal/autodiff/ops"
	"github.com/born-ml/regress/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// record adds op to the tape when recording; building the op is deferred so
// inference pays nothing for it.
func (b *AutodiffBackend[B]) record(build func() ops.Operation) {
	if b.tape.IsRecording() {
		b.tape.Record(build())
	}
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.record(func() ops.Operation { return ops.NewAddOp(a, c, result) })
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.record(func() ops.Operation { return ops.NewSubOp(a, c, result) })
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.record(func() ops.Operation { return ops.NewMulOp(a, c, result) })
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(a, c)
	b.record(func() ops.Operation { return ops.NewMatMulOp(a, c, result) })
	return result
}

// Reshape reshapes a tensor and records the operation.
//
// Reshape must be on the tape: a Linear bias of shape [out] is reshaped to
// [1, out] for broadcasting, and without ReshapeOp its gradient would stop at
// the reshaped view instead of reaching the parameter.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.record(func() ops.Operation { return ops.NewReshapeOp(t, result) })
	return result
}

// Transpose transposes a tensor and records the operation.
//
// Linear computes input @ W.T; the transposed weight is a new tensor, so
// TransposeOp is what routes its gradient back to W.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)
	b.record(func() ops.Operation { return ops.NewTransposeOp(t, result, axes) })
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.record(func() ops.Operation { return ops.NewMulScalarOp(x, result, scalar) })
	return result
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.record(func() ops.Operation { return ops.NewAddScalarOp(x, result) })
	return result
}

// ReLU applies ReLU activation and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.record(func() ops.Operation { return ops.NewReLUOp(x, result) })
	return result
}

// Sigmoid applies sigmoid activation and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sigmoid(x)
	b.record(func() ops.Operation { return ops.NewSigmoidOp(x, result) })
	return result
}

// Tanh applies hyperbolic tangent activation and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Tanh(x)
	b.record(func() ops.Operation { return ops.NewTanhOp(x, result) })
	return result
}

// Sum reduces to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.record(func() ops.Operation { return ops.NewSumOp(x, result) })
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	dim = tensor.NormalizeDim(dim, len(x.Shape()))
	result := b.inner.SumDim(x, dim, keepDim)
	b.record(func() ops.Operation { return ops.NewSumDimOp(x, result, dim) })
	return result
}

// Narrow slices along a dimension and records the operation.
func (b *AutodiffBackend[B]) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	dim = tensor.NormalizeDim(dim, len(x.Shape()))
	result := b.inner.Narrow(x, dim, start, length)
	b.record(func() ops.Operation { return ops.NewNarrowOp(x, result, dim, start) })
	return result
}

// Cat concatenates tensors and records the operation.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	dim = tensor.NormalizeDim(dim, len(tensors[0].Shape()))
	result := b.inner.Cat(tensors, dim)
	inputs := append([]*tensor.RawTensor(nil), tensors...)
	b.record(func() ops.Operation { return ops.NewCatOp(inputs, result, dim) })
	return result
}

// Chunk splits a tensor and records a single multi-output operation.
func (b *AutodiffBackend[B]) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	dim = tensor.NormalizeDim(dim, len(x.Shape()))
	results := b.inner.Chunk(x, n, dim)
	b.record(func() ops.Operation { return ops.NewChunkOp(x, results, dim) })
	return results
}
