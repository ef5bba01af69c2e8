// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms that update parameters in
// place from an autodiff gradient map.
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
package optim

import (
	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/optim"
	"github.com/born-ml/regress/internal/tensor"
)

// Optimizer is the interface for all optimizers.
type Optimizer = optim.Optimizer

// Config is the base configuration for all optimizers.
type Config = optim.Config

// SGD represents Stochastic Gradient Descent optimizer with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}

// Adam represents the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	return optim.NewAdam(params, config)
}
