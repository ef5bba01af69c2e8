package ops

import "github.com/born-ml/regress/internal/tensor"

// ReshapeOp records a reshape operation for autodiff.
//
// Backward: reshape the output gradient back to the input shape.
type ReshapeOp struct {
	input     *tensor.RawTensor
	output    *tensor.RawTensor
	origShape tensor.Shape
}

// NewReshapeOp creates a new Reshape operation.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{input: input, output: output, origShape: input.Shape().Clone()}
}

// Backward computes gradients for Reshape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.origShape)}
}

// Inputs returns the input tensors.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor { return op.output }

// TransposeOp represents a transpose operation.
//
// Backward: transpose the output gradient with the inverse permutation.
type TransposeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	axes   []int // Axes used for forward transpose
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{input: input, output: output, axes: axes}
}

// Backward computes input gradient for transpose.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverseAxes := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverseAxes[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverseAxes...)}
}

// Inputs returns the input tensors.
func (op *TransposeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *TransposeOp) Output() *tensor.RawTensor { return op.output }

// NarrowOp represents output = x[..., start:start+length, ...] along dim.
//
// Backward: the output gradient is written into a zero tensor shaped like x
// at the narrowed range.
type NarrowOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
	start  int
}

// NewNarrowOp creates a new NarrowOp. dim must already be normalized.
func NewNarrowOp(input, output *tensor.RawTensor, dim, start int) *NarrowOp {
	return &NarrowOp{input: input, output: output, dim: dim, start: start}
}

// Backward computes the input gradient for Narrow.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := newLike(op.input, backend)
	scatterAlongDim(grad, outputGrad, op.dim, op.start)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *NarrowOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *NarrowOp) Output() *tensor.RawTensor { return op.output }

// CatOp represents a concatenation along a dimension.
//
// Backward: the output gradient is split along dim at the input boundaries;
// each input receives the slice it contributed.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewCatOp creates a new CatOp. dim must already be normalized.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{inputs: inputs, output: output, dim: dim}
}

// Backward computes gradients for the input tensors.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, input := range op.inputs {
		size := input.Shape()[op.dim]
		grads[i] = backend.Narrow(outputGrad, op.dim, offset, size)
		offset += size
	}
	return grads
}

// Inputs returns the input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor.
func (op *CatOp) Output() *tensor.RawTensor { return op.output }

// ChunkOp represents splitting x into equal parts along dim.
//
// Backward: the output gradients are concatenated back along dim.
type ChunkOp struct {
	input   *tensor.RawTensor
	outputs []*tensor.RawTensor
	dim     int
}

// NewChunkOp creates a new ChunkOp. dim must already be normalized.
func NewChunkOp(input *tensor.RawTensor, outputs []*tensor.RawTensor, dim int) *ChunkOp {
	return &ChunkOp{input: input, outputs: outputs, dim: dim}
}

// BackwardMulti concatenates the gradients of every chunk.
func (op *ChunkOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}

// Backward is only meaningful for the first chunk; the tape uses BackwardMulti.
func (op *ChunkOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.outputs))
	grads[0] = outputGrad
	for i := 1; i < len(grads); i++ {
		grads[i] = newLike(op.outputs[i], backend)
	}
	return op.BackwardMulti(grads, backend)
}

// Inputs returns the input tensor.
func (op *ChunkOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the first chunk.
func (op *ChunkOp) Output() *tensor.RawTensor { return op.outputs[0] }

// Outputs returns every chunk.
func (op *ChunkOp) Outputs() []*tensor.RawTensor { return op.outputs }
