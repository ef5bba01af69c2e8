// Package nn implements neural network modules for the regressors.
//
// This package provides building blocks for constructing neural networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - LSTM: Stacked batch-first long short-term memory
//   - Loss functions: MSE
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/regress/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//   - StateDict/LoadStateDict: In-memory parameter transfer
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(4, 8, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(8, 1, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter[B]

	// StateDict returns the module's parameters keyed by name.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies matching entries into the module's parameters.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// CollectParameters concatenates the parameters of several modules in order.
func CollectParameters[B tensor.Backend](modules ...Module[B]) []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range modules {
		params = append(params, m.Parameters()...)
	}
	return params
}
