package cpu

import (
	"fmt"

	"github.com/born-ml/regress/internal/tensor"
)

// Narrow returns the slice [start, start+length) of x along dim.
// Works on raw bytes, so it is dtype-agnostic.
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d of size %d",
			start, start+length, dim, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result := cpu.newResult("narrow", outShape, x.DType())

	outer, size, inner := shape.Split(dim)
	elem := x.DType().Size()
	src := x.Data()
	dst := result.Data()

	block := length * inner * elem
	for o := 0; o < outer; o++ {
		from := (o*size + start) * inner * elem
		copy(dst[o*block:(o+1)*block], src[from:from+block])
	}

	return result
}

// Cat concatenates tensors along dim. All tensors must share dtype, rank and
// every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	first := tensors[0].Shape()
	dim = tensor.NormalizeDim(dim, len(first))

	outShape := first.Clone()
	outShape[dim] = 0
	for i, t := range tensors {
		shape := t.Shape()
		if t.DType() != tensors[0].DType() {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), tensors[0].DType()))
		}
		if len(shape) != len(first) {
			panic(fmt.Sprintf("cat: tensor %d has rank %d, expected %d", i, len(shape), len(first)))
		}
		for d := range shape {
			if d != dim && shape[d] != first[d] {
				panic(fmt.Sprintf("cat: tensor %d has shape %v, incompatible with %v along dimension %d",
					i, shape, first, d))
			}
		}
		outShape[dim] += shape[dim]
	}

	result := cpu.newResult("cat", outShape, tensors[0].DType())

	outer, _, inner := outShape.Split(dim)
	elem := tensors[0].DType().Size()
	dst := result.Data()

	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner * elem
			copy(dst[pos:pos+block], t.Data()[o*block:(o+1)*block])
			pos += block
		}
	}

	return result
}

// Chunk splits x into n equal parts along dim.
// The dimension size must be divisible by n.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d of size %d is not divisible into %d parts", dim, shape[dim], n))
	}

	size := shape[dim] / n
	parts := make([]*tensor.RawTensor, n)
	for i := range parts {
		parts[i] = cpu.Narrow(x, dim, i*size, size)
	}
	return parts
}
