// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/regress/backend/cpu"
	"github.com/born-ml/regress/regress"
	"github.com/born-ml/regress/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	rows, err := parseRows(" 1,0,0,0 ; 0, 1.5,0,-2")
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0, 0, 0}, {0, 1.5, 0, -2}}, rows)

	_, err = parseRows("")
	assert.Error(t, err)

	_, err = parseRows("1,2;3")
	assert.ErrorContains(t, err, "row 1 has 1 values, want 2")

	_, err = parseRows("1,x")
	assert.ErrorContains(t, err, "row 0 column 1")
}

func TestInputTensor(t *testing.T) {
	backend := cpu.New()
	rows := [][]float32{{1, 2}, {3, 4}, {5, 6}}

	x, err := inputTensor(regress.ModelFeedForward, rows, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, x.Shape())

	x, err = inputTensor(regress.ModelLSTM, rows, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 2}, x.Shape())
	assert.Equal(t, float32(4), x.At(0, 1, 1))
}

func TestBuildModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: feedforward\ninput_size: 4\nhidden_size: 8\n"), 0o600))

	model, err := buildModel(path, regress.Overrides{Model: regress.ModelLSTM, NumLayers: 2})
	require.NoError(t, err)
	assert.Equal(t, regress.ModelLSTM, model.Kind())

	x, err := inputTensor(model.Kind(), [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}}, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1}, model.Forward(x).Shape())

	_, err = buildModel("", regress.Overrides{})
	assert.ErrorIs(t, err, regress.ErrUnknownModel)
}

func TestRunPredict_RejectsWrongRowWidth(t *testing.T) {
	tests := []struct {
		name  string
		model string
		input string
	}{
		{"feedforward narrow", regress.ModelFeedForward, "1,2,3"},
		{"feedforward wide", regress.ModelFeedForward, "1,2,3,4,5"},
		{"lstm narrow", regress.ModelLSTM, "1,2,3;4,5,6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"-model", tt.model, "-input-size", "4", "-hidden-size", "8", "-input", tt.input}
			var err error
			require.NotPanics(t, func() { err = runPredict(args) })
			assert.ErrorContains(t, err, "model expects 4")
		})
	}
}

func TestRunPredict(t *testing.T) {
	args := []string{"-model", regress.ModelFeedForward, "-input-size", "4", "-hidden-size", "8", "-input", "1,0,0,0;0,1,0,0"}
	assert.NoError(t, runPredict(args))
}
