// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"github.com/born-ml/regress/internal/parallel"
	"github.com/born-ml/regress/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// A CPUBackend holds no mutable state after construction and is safe for
// concurrent use.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with worker settings sized for the host.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Features describes the host CPU the backend runs on.
func (cpu *CPUBackend) Features() string {
	return parallel.Features()
}

// float is the set of element types the CPU kernels are instantiated for.
type float interface {
	~float32 | ~float64
}

// newResult allocates a zeroed result tensor or panics with an op-prefixed message.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(op + ": failed to create result tensor: " + err.Error())
	}
	return result
}
