// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package regress_test

import (
	"testing"

	"github.com/born-ml/regress/autodiff"
	"github.com/born-ml/regress/backend/cpu"
	"github.com/born-ml/regress/nn"
	"github.com/born-ml/regress/optim"
	"github.com/born-ml/regress/regress"
	"github.com/born-ml/regress/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicAPI walks the path an external caller takes: build, predict,
// take one optimizer step, predict again.
func TestPublicAPI(t *testing.T) {
	backend := autodiff.New(cpu.New())
	type B = *autodiff.Backend[*cpu.Backend]

	model, err := regress.NewSequenceRegressor(2, 4, regress.DefaultNumLayers, backend)
	require.NoError(t, err)

	x, err := tensor.FromSlice([]float32{1, 0, 0, 1, 1, 1}, tensor.Shape{1, 3, 2}, backend)
	require.NoError(t, err)
	y := tensor.Full[float32](tensor.Shape{1, 1}, 3, backend)

	before := model.Forward(x)
	require.Equal(t, tensor.Shape{1, 1}, before.Shape())

	backend.Tape().StartRecording()
	loss := nn.NewMSELoss[B]().Forward(model.Forward(x), y)
	grads := autodiff.Backward(loss, backend)
	backend.Tape().StopRecording()

	optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}).Step(grads)

	after := model.Forward(x)
	assert.Greater(t, after.Item(), before.Item(), "one step toward the target moves the prediction up")
}

func TestPublicAPI_Errors(t *testing.T) {
	_, err := regress.NewFeedForwardRegressor(0, 8, cpu.New())
	assert.ErrorIs(t, err, regress.ErrInvalidSize)

	_, err = regress.Build(&regress.Config{Model: "transformer", InputSize: 1, HiddenSize: 1}, cpu.New())
	assert.ErrorIs(t, err, regress.ErrUnknownModel)
}
