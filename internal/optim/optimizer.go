// Package optim implements optimization algorithms that update model
// parameters in place.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Updates write straight into the parameter buffers, so a model that holds
// the parameters sees new values on its next Forward and nothing is recorded
// on an autodiff tape.
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	backend.Tape().StartRecording()
//	loss := mse.Forward(model.Forward(input), targets)
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
package optim

import (
	"fmt"

	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Takes a gradient map from autodiff.Backward and updates parameters
	// in place. Parameters missing from grads are left unchanged.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// getGradient returns the float32 gradient of param, or nil when param was
// not part of the computation.
//
// Panics if the gradient shape differs from the parameter shape.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	grad, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	if !grad.Shape().Equal(param.Tensor().Shape()) {
		panic(fmt.Sprintf("optim: gradient shape %v does not match parameter %s shape %v",
			grad.Shape(), param.Name(), param.Tensor().Shape()))
	}
	return grad.AsFloat32()
}
