// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks: Linear and LSTM layers,
// activations, the MSE loss and parameter containers.
//
//	backend := cpu.New()
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewLinear(4, 8, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	    nn.NewLinear(8, 1, backend),
//	)
//	out := model.Forward(x) // [batch, 1]
package nn

import (
	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// CaptureGrads attaches gradients from autodiff.Backward to params.
func CaptureGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) int {
	return nn.CaptureGrads(params, grads)
}

// CollectParameters concatenates the parameters of several modules in order.
func CollectParameters[B tensor.Backend](modules ...Module[B]) []*Parameter[B] {
	return nn.CollectParameters(modules...)
}

// ValidateStateDict checks stateDict against params without copying anything.
func ValidateStateDict[B tensor.Backend](params []*Parameter[B], stateDict map[string]*tensor.RawTensor) error {
	return nn.ValidateStateDict(params, stateDict)
}

// Seed reseeds the parameter initializers.
func Seed(seed int64) {
	nn.Seed(seed)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// LSTM represents a stacked, batch-first LSTM.
type LSTM[B tensor.Backend] = nn.LSTM[B]

// LSTMState holds hidden and cell state, each [num_layers, batch, hidden].
type LSTMState[B tensor.Backend] = nn.LSTMState[B]

// NewLSTM creates a stacked LSTM.
//
// Example:
//
//	lstm := nn.NewLSTM(4, 16, 2, backend)
//	out, state := lstm.ForwardWithState(x, lstm.ZeroState(batch))
func NewLSTM[B tensor.Backend](inputSize, hiddenSize, numLayers int, backend B) *LSTM[B] {
	return nn.NewLSTM(inputSize, hiddenSize, numLayers, backend)
}

// Sequential chains modules together.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU is the rectified linear activation module.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid is the logistic activation module.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a Sigmoid module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh is the hyperbolic tangent activation module.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a Tanh module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Loss functions

// MSELoss computes the mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}
