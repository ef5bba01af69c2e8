package ops

import (
	"fmt"

	"github.com/born-ml/regress/internal/tensor"
)

// ReLUOp represents a ReLU activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
type ReLUOp struct {
	input  *tensor.RawTensor // x
	output *tensor.RawTensor // max(0, x)
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward computes input gradient for ReLU: outputGrad * (x > 0).
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := newLike(op.input, backend)

	switch op.input.DType() {
	case tensor.Float32:
		fillMask(mask.AsFloat32(), op.input.AsFloat32())
	case tensor.Float64:
		fillMask(mask.AsFloat64(), op.input.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s (only float32/float64 supported)", op.input.DType()))
	}

	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

func fillMask[T float32 | float64](mask, input []T) {
	for i, v := range input {
		if v > 0 {
			mask[i] = 1
		}
	}
}

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
//
// Backward pass uses the stored output:
//
//	grad_input = outputGrad * σ(x) * (1 - σ(x))
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new sigmoid operation.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes the gradient for sigmoid.
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	// 1 - σ(x)
	oneMinus := backend.AddScalar(backend.MulScalar(op.output, -1), 1)
	derivative := backend.Mul(op.output, oneMinus)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// Inputs returns the input tensors.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }

// TanhOp represents the hyperbolic tangent activation.
//
// Backward pass uses the stored output:
//
//	grad_input = outputGrad * (1 - tanh(x)²)
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new tanh operation.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes the gradient for tanh.
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	squared := backend.Mul(op.output, op.output)
	derivative := backend.AddScalar(backend.MulScalar(squared, -1), 1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// Inputs returns the input tensors.
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }
