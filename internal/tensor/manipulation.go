package tensor

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// A single tensor is still routed through the backend so that the result is
// connected to its input on an autodiff tape.
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{2, 3}, backend)
//	b := tensor.Zeros[float32](Shape{2, 5}, backend)
//	c := tensor.Cat([]*Tensor[float32, B]{a, b}, 1) // Shape: [2, 8]
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	rawTensors := make([]*RawTensor, len(tensors))
	backend := tensors[0].backend
	for i, t := range tensors {
		rawTensors[i] = t.raw
	}

	return New[T, B](backend.Cat(rawTensors, dim), backend)
}

// Chunk splits the tensor into n equal parts along the specified dimension.
//
// The dimension size must be divisible by n.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	gates := tensor.Zeros[float32](Shape{2, 16}, backend)
//	parts := gates.Chunk(4, 1) // 4 tensors of shape [2, 4]
func (t *Tensor[T, B]) Chunk(n, dim int) []*Tensor[T, B] {
	rawParts := t.backend.Chunk(t.raw, n, dim)
	parts := make([]*Tensor[T, B], len(rawParts))
	for i, raw := range rawParts {
		parts[i] = New[T, B](raw, t.backend)
	}
	return parts
}

// Narrow returns the slice [start, start+length) along dim.
// The result keeps the same rank as t.
//
// Example:
//
//	seq := tensor.Zeros[float32](Shape{2, 5, 3}, backend)
//	last := seq.Narrow(1, 4, 1) // Shape: [2, 1, 3]
func (t *Tensor[T, B]) Narrow(dim, start, length int) *Tensor[T, B] {
	return New[T, B](t.backend.Narrow(t.raw, dim, start, length), t.backend)
}

// Select returns index along dim with that dimension removed.
//
// Example:
//
//	seq := tensor.Zeros[float32](Shape{2, 5, 3}, backend)
//	step := seq.Select(1, 4) // Shape: [2, 3]
func (t *Tensor[T, B]) Select(dim, index int) *Tensor[T, B] {
	shape := t.Shape()
	dim = NormalizeDim(dim, len(shape))

	newShape := make([]int, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	return t.Narrow(dim, index, 1).Reshape(newShape...)
}
