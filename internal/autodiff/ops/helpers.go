package ops

import (
	"fmt"

	"github.com/born-ml/regress/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad
	}

	// Broadcasting aligns shapes from the right: leading dims are summed away.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	for i, dim := range targetShape {
		if dim == 1 && result.Shape()[i] != 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// newLike allocates a zero tensor with the shape and dtype of t.
func newLike(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("autodiff: failed to allocate gradient: %v", err))
	}
	return result
}

// scatterAlongDim copies src into dst starting at index start along dim.
// dst and src must agree on every other dimension. Works on raw bytes.
func scatterAlongDim(dst, src *tensor.RawTensor, dim, start int) {
	dstShape := dst.Shape()
	outer, size, inner := dstShape.Split(dim)
	length := src.Shape()[dim]
	elem := dst.DType().Size()

	block := length * inner * elem
	srcData := src.Data()
	dstData := dst.Data()
	for o := 0; o < outer; o++ {
		to := (o*size + start) * inner * elem
		copy(dstData[to:to+block], srcData[o*block:(o+1)*block])
	}
}
