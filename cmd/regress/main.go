// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Command regress builds a regressor from a YAML config and either prints
// its parameters or runs one forward pass.
//
// Usage:
//
//	regress version
//	regress summary -config model.yaml
//	regress predict -config model.yaml -input "1,0,0,0;0,1,0,0"
package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/born-ml/regress/backend/cpu"
	"github.com/born-ml/regress/regress"
	"github.com/born-ml/regress/tensor"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("regress %s\n", version)
		return
	case "summary":
		err = runSummary(os.Args[2:])
	case "predict":
		err = runPredict(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: regress <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version    Show version")
	fmt.Fprintln(os.Stderr, "  summary    Print parameter names and shapes")
	fmt.Fprintln(os.Stderr, "  predict    Run one forward pass on inline input")
}

// modelFlags registers the flags shared by summary and predict.
func modelFlags(fs *flag.FlagSet) (*string, *regress.Overrides) {
	var o regress.Overrides
	path := fs.String("config", "", "Path to model YAML config")
	fs.StringVar(&o.Model, "model", "", "Override model (feedforward|lstm)")
	fs.IntVar(&o.InputSize, "input-size", 0, "Override input_size")
	fs.IntVar(&o.HiddenSize, "hidden-size", 0, "Override hidden_size")
	fs.IntVar(&o.NumLayers, "num-layers", 0, "Override num_layers")
	fs.Int64Var(&o.Seed, "seed", 0, "Override seed")
	return path, &o
}

func buildModel(path string, o regress.Overrides) (regress.Regressor[*cpu.Backend], error) {
	cfg := &regress.Config{}
	if path != "" {
		loaded, err := regress.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(o)
	return regress.Build(cfg, cpu.New())
}

func runSummary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	path, o := modelFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, err := buildModel(*path, *o)
	if err != nil {
		return err
	}

	fmt.Printf("model: %s\n", model.Kind())
	state := model.StateDict()
	for _, name := range slices.Sorted(maps.Keys(state)) {
		fmt.Printf("  %-20s %v\n", name, state[name].Shape())
	}
	fmt.Printf("parameters: %d\n", regress.NumParameters(model))
	return nil
}

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	path, o := modelFlags(fs)
	input := fs.String("input", "", `Rows separated by ";", values by "," (LSTM: one row per time step)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, err := buildModel(*path, *o)
	if err != nil {
		return err
	}

	rows, err := parseRows(*input)
	if err != nil {
		return err
	}

	if width := len(rows[0]); width != model.InputSize() {
		return fmt.Errorf("row width %d, model expects %d", width, model.InputSize())
	}

	x, err := inputTensor(model.Kind(), rows, cpu.New())
	if err != nil {
		return err
	}

	out := model.Forward(x)
	for i, v := range out.Data() {
		fmt.Printf("%d\t%g\n", i, v)
	}
	return nil
}

// inputTensor lays rows out as [rows, cols] for the feed-forward model and
// as a single sequence [1, rows, cols] for the LSTM.
func inputTensor(kind string, rows [][]float32, backend *cpu.Backend) (*tensor.Tensor[float32, *cpu.Backend], error) {
	n, cols := len(rows), len(rows[0])
	flat := make([]float32, 0, n*cols)
	for _, r := range rows {
		flat = append(flat, r...)
	}

	shape := tensor.Shape{n, cols}
	if kind == regress.ModelLSTM {
		shape = tensor.Shape{1, n, cols}
	}
	return tensor.FromSlice(flat, shape, backend)
}
