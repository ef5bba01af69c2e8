// Package parallel provides parallel execution utilities for the CPU backend.
package parallel

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults sized from the detected logical core count.
func DefaultConfig() Config {
	n := cpuid.CPU.LogicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForRange splits [0, n) into contiguous chunks and runs f(start, end) on
// each chunk, one goroutine per chunk.
//
// A panic in any chunk is re-raised on the calling goroutine once every
// chunk has finished, so callers can recover it as with sequential code.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("parallel: chunk [%d, %d): %v", start, end, r)
				}
			}()
			f(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// Features describes the host CPU: brand name, core count and the SIMD
// extensions relevant to dense float kernels.
func Features() string {
	var simd []string
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{
		{cpuid.SSE4, "SSE4.1"},
		{cpuid.AVX, "AVX"},
		{cpuid.AVX2, "AVX2"},
		{cpuid.FMA3, "FMA3"},
		{cpuid.AVX512F, "AVX512F"},
		{cpuid.ASIMD, "ASIMD"},
	} {
		if cpuid.CPU.Supports(f.id) {
			simd = append(simd, f.name)
		}
	}

	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	if len(simd) == 0 {
		return brand
	}
	return brand + " [" + strings.Join(simd, " ") + "]"
}
