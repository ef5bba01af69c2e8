// Package regress implements two small regression models on the nn package:
// a feed-forward network and an LSTM sequence regressor. Both map a batch of
// inputs to one scalar prediction per sample, shape [batch, 1].
//
// Models own their parameters; recurrent state is allocated per Forward call
// and never retained, so every call is independent of the previous ones.
package regress

import (
	"errors"

	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// Sentinel errors returned by constructors and Config validation.
var (
	// ErrInvalidSize is returned when a size or layer count is out of range.
	ErrInvalidSize = errors.New("regress: invalid size")

	// ErrUnknownModel is returned for an unrecognised Config.Model.
	ErrUnknownModel = errors.New("regress: unknown model")
)

// DefaultNumLayers is the LSTM depth used when a Config omits num_layers.
const DefaultNumLayers = 1

// Model names accepted by Config.Model.
const (
	ModelFeedForward = "feedforward"
	ModelLSTM        = "lstm"
)

// Regressor is implemented by both models. Forward returns [batch, 1].
type Regressor[B tensor.Backend] interface {
	nn.Module[B]

	// Kind returns the model name as used in Config.Model.
	Kind() string

	// InputSize returns the number of features per sample or time step.
	InputSize() int
}

// NumParameters returns the total number of scalar parameters of r.
func NumParameters[B tensor.Backend](r Regressor[B]) int {
	n := 0
	for _, p := range r.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}
