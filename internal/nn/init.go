package nn

import (
	"math"
	"math/rand"
	"sync"

	"github.com/born-ml/regress/internal/tensor"
)

var (
	rngMu sync.Mutex
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng = rand.New(rand.NewSource(rand.Int63()))
)

// Seed reseeds the source used by every initializer in this package.
// Two models built after the same Seed call have identical parameters.
func Seed(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed)) //nolint:gosec // see above
}

// Uniform creates a float32 tensor with values drawn from U(-bound, bound).
func Uniform[B tensor.Backend](bound float64, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()

	rngMu.Lock()
	defer rngMu.Unlock()
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return Uniform(math.Sqrt(6.0/float64(fanIn+fanOut)), shape, backend)
}

// Zeros creates a float32 tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
