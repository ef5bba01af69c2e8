package cpu

import (
	"fmt"

	"github.com/born-ml/regress/internal/tensor"
)

// Sum reduces all elements to a scalar tensor (shape []).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("sum", tensor.Shape{}, x.DType())

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumAll(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumAll(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// SumDim sums along dim. With keepDim the reduced dimension stays with size 1,
// otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, len(shape)-1)
		outShape = append(outShape, shape[:dim]...)
		outShape = append(outShape, shape[dim+1:]...)
	}

	result := cpu.newResult("sumdim", outShape, x.DType())
	outer, size, inner := shape.Split(dim)

	switch x.DType() {
	case tensor.Float32:
		sumAlong(result.AsFloat32(), x.AsFloat32(), outer, size, inner)
	case tensor.Float64:
		sumAlong(result.AsFloat64(), x.AsFloat64(), outer, size, inner)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumAll[T float](data []T) T {
	var sum T
	for _, v := range data {
		sum += v
	}
	return sum
}

func sumAlong[T float](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		out := dst[o*inner : (o+1)*inner]
		for k := 0; k < size; k++ {
			base := (o*size + k) * inner
			for i := range out {
				out[i] += src[base+i]
			}
		}
	}
}
