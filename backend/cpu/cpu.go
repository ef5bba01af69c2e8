// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// The backend supports float32 and float64 tensors with NumPy-compatible
// broadcasting. Matrix multiplication is split across worker goroutines
// sized from the detected CPU topology.
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package cpu

import (
	internalcpu "github.com/born-ml/regress/internal/backend/cpu"
	"github.com/born-ml/regress/internal/parallel"
	"github.com/born-ml/regress/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how the backend splits work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using DefaultParallelConfig.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.ParallelConfig{Enabled: false})
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns one worker per logical core.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}
