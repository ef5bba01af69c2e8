package cpu

import (
	"fmt"

	"github.com/born-ml/regress/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.newResult(op, outShape, a.DType())

	switch a.DType() {
	case tensor.Float32:
		if needsBroadcast {
			binaryBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), f32)
		} else {
			binarySameShape(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
		}
	case tensor.Float64:
		if needsBroadcast {
			binaryBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), f64)
		} else {
			binarySameShape(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

func binarySameShape[T float](dst, a, b []T, f func(x, y T) T) {
	for i := range dst {
		dst[i] = f(a[i], b[i])
	}
}

// binaryBroadcast walks the output in row-major order, advancing each input
// by its broadcast stride (0 along broadcast dimensions).
func binaryBroadcast[T float](dst, a, b []T, out, aShape, bShape tensor.Shape, f func(x, y T) T) {
	aStrides := broadcastStrides(aShape, out)
	bStrides := broadcastStrides(bShape, out)
	coords := make([]int, len(out))

	ai, bi := 0, 0
	for i := range dst {
		dst[i] = f(a[ai], b[bi])

		for d := len(out) - 1; d >= 0; d-- {
			coords[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if coords[d] < out[d] {
				break
			}
			ai -= aStrides[d] * out[d]
			bi -= bStrides[d] * out[d]
			coords[d] = 0
		}
	}
}

// broadcastStrides returns the strides of in aligned to out, with 0 for
// dimensions that are broadcast (missing or of size 1).
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i, dim := range in {
		if dim != 1 {
			strides[i+offset] = inStrides[i]
		}
	}
	return strides
}
