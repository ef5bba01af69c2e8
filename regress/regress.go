// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package regress provides a feed-forward regressor and an LSTM sequence
// regressor, each producing one prediction per sample.
//
//	backend := cpu.New()
//	model, err := regress.NewSequenceRegressor(4, 16, regress.DefaultNumLayers, backend)
//	if err != nil {
//	    return err
//	}
//	y := model.Forward(x) // x: [batch, seq, 4], y: [batch, 1]
package regress

import (
	"io"

	"github.com/born-ml/regress/internal/regress"
	"github.com/born-ml/regress/internal/tensor"
)

// Errors returned by constructors and config validation.
var (
	ErrInvalidSize  = regress.ErrInvalidSize
	ErrUnknownModel = regress.ErrUnknownModel
)

// DefaultNumLayers is the LSTM depth used when a config omits num_layers.
const DefaultNumLayers = regress.DefaultNumLayers

// Model names accepted by Config.Model.
const (
	ModelFeedForward = regress.ModelFeedForward
	ModelLSTM        = regress.ModelLSTM
)

// Regressor is implemented by both models.
type Regressor[B tensor.Backend] = regress.Regressor[B]

// FeedForwardRegressor is Linear -> ReLU -> Linear(hidden, 1).
type FeedForwardRegressor[B tensor.Backend] = regress.FeedForwardRegressor[B]

// NewFeedForwardRegressor creates a feed-forward regressor.
func NewFeedForwardRegressor[B tensor.Backend](inputSize, hiddenSize int, backend B) (*FeedForwardRegressor[B], error) {
	return regress.NewFeedForwardRegressor(inputSize, hiddenSize, backend)
}

// SequenceRegressor is a stacked LSTM followed by Linear(hidden, 1) on the
// last time step.
type SequenceRegressor[B tensor.Backend] = regress.SequenceRegressor[B]

// NewSequenceRegressor creates an LSTM regressor.
func NewSequenceRegressor[B tensor.Backend](inputSize, hiddenSize, numLayers int, backend B) (*SequenceRegressor[B], error) {
	return regress.NewSequenceRegressor(inputSize, hiddenSize, numLayers, backend)
}

// Config describes a model to build.
type Config = regress.Config

// Overrides captures CLI supplied values for Config.ApplyOverrides.
type Overrides = regress.Overrides

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	return regress.LoadConfig(path)
}

// ParseConfig decodes a YAML config without validating it.
func ParseConfig(r io.Reader) (*Config, error) {
	return regress.ParseConfig(r)
}

// Build constructs the regressor described by cfg.
func Build[B tensor.Backend](cfg *Config, backend B) (Regressor[B], error) {
	return regress.Build(cfg, backend)
}

// NumParameters returns the total number of scalar parameters of r.
func NumParameters[B tensor.Backend](r Regressor[B]) int {
	return regress.NumParameters(r)
}
