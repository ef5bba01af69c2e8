package ops

import "github.com/born-ml/regress/internal/tensor"

// SumOp represents output = sum(x) (scalar).
//
// Backward: every element of x receives the scalar output gradient.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := newLike(op.input, backend)
	ones.Fill(1)
	return []*tensor.RawTensor{backend.Mul(ones, outputGrad)}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the scalar output.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// SumDimOp represents output = sum(x, dim).
//
// Backward: the output gradient is reshaped to keep dim with size 1 and
// broadcast back across it.
type SumDimOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewSumDimOp creates a new SumDimOp. dim must already be normalized.
func NewSumDimOp(input, output *tensor.RawTensor, dim int) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim}
}

// Backward broadcasts the output gradient along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	keptShape := op.input.Shape().Clone()
	keptShape[op.dim] = 1
	grad := backend.Reshape(outputGrad, keptShape)

	ones := newLike(op.input, backend)
	ones.Fill(1)
	return []*tensor.RawTensor{backend.Mul(ones, grad)}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the reduced output.
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }
