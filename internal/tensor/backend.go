package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations must not modify their inputs: results are always freshly
// allocated tensors or read-only views (Reshape).
//
// Implementations:
//   - CPU: Pure Go, row-parallel matrix multiplication (internal/backend/cpu)
//   - Autodiff: decorator recording operations on a gradient tape (internal/autodiff)
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	AddScalar(x *RawTensor, scalar float64) *RawTensor

	// Activation functions
	ReLU(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                           // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension

	// Manipulation operations
	Narrow(x *RawTensor, dim, start, length int) *RawTensor // slice [start, start+length) along dim
	Cat(tensors []*RawTensor, dim int) *RawTensor           // concatenate along dimension
	Chunk(x *RawTensor, n, dim int) []*RawTensor            // split into n equal parts

	// Metadata
	Name() string
	Device() Device
}
