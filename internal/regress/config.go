package regress

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// Config describes which regressor to build and its sizes.
//
//	model: lstm
//	input_size: 4
//	hidden_size: 16
//	num_layers: 2
//	seed: 42
type Config struct {
	Model      string `yaml:"model"`       // ModelFeedForward or ModelLSTM
	InputSize  int    `yaml:"input_size"`  // > 0
	HiddenSize int    `yaml:"hidden_size"` // > 0
	NumLayers  int    `yaml:"num_layers"`  // LSTM only; 0 means DefaultNumLayers
	Seed       int64  `yaml:"seed"`        // 0 leaves the initializer unseeded
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Model      string
	InputSize  int
	HiddenSize int
	NumLayers  int
	Seed       int64
}

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // Loading config from user-specified path is intentional.
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes YAML from r. Unknown keys are rejected. The result is
// not validated.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.InputSize > 0 {
		c.InputSize = o.InputSize
	}
	if o.HiddenSize > 0 {
		c.HiddenSize = o.HiddenSize
	}
	if o.NumLayers > 0 {
		c.NumLayers = o.NumLayers
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
}

// Validate verifies the config describes a buildable model and fills in
// NumLayers for an LSTM that omits it.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Model {
	case ModelFeedForward, ModelLSTM:
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownModel, c.Model, ModelFeedForward, ModelLSTM)
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("%w: input_size must be > 0 (got %d)", ErrInvalidSize, c.InputSize)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("%w: hidden_size must be > 0 (got %d)", ErrInvalidSize, c.HiddenSize)
	}
	if c.Model == ModelLSTM {
		if c.NumLayers == 0 {
			c.NumLayers = DefaultNumLayers
		}
		if c.NumLayers < 1 {
			return fmt.Errorf("%w: num_layers must be >= 1 (got %d)", ErrInvalidSize, c.NumLayers)
		}
	}
	return nil
}

// Build validates cfg and constructs the configured regressor on backend.
// A non-zero Seed reseeds nn's initializer first, so equal configs build
// equal parameters.
func Build[B tensor.Backend](cfg *Config, backend B) (Regressor[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		nn.Seed(cfg.Seed)
	}

	// Typed nil pointers must not escape as non-nil interfaces.
	if cfg.Model == ModelLSTM {
		r, err := NewSequenceRegressor(cfg.InputSize, cfg.HiddenSize, cfg.NumLayers, backend)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	r, err := NewFeedForwardRegressor(cfg.InputSize, cfg.HiddenSize, backend)
	if err != nil {
		return nil, err
	}
	return r, nil
}
