package regress

import (
	"fmt"

	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// FeedForwardRegressor is Linear(input, hidden) -> ReLU -> Linear(hidden, 1).
type FeedForwardRegressor[B tensor.Backend] struct {
	inputSize  int
	hiddenSize int
	i2h        *nn.Linear[B]
	h2o        *nn.Linear[B]
	net        *nn.Sequential[B]
}

// NewFeedForwardRegressor creates a feed-forward regressor with freshly
// initialized parameters.
//
// Returns an error wrapping ErrInvalidSize if either size is not positive.
func NewFeedForwardRegressor[B tensor.Backend](inputSize, hiddenSize int, backend B) (*FeedForwardRegressor[B], error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("%w: input_size must be positive, got %d", ErrInvalidSize, inputSize)
	}
	if hiddenSize <= 0 {
		return nil, fmt.Errorf("%w: hidden_size must be positive, got %d", ErrInvalidSize, hiddenSize)
	}

	i2h := nn.NewLinear(inputSize, hiddenSize, backend)
	h2o := nn.NewLinear(hiddenSize, 1, backend)

	return &FeedForwardRegressor[B]{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		i2h:        i2h,
		h2o:        h2o,
		net:        nn.NewSequential[B](i2h, nn.NewReLU[B](), h2o),
	}, nil
}

// Forward maps x [batch, input_size] to predictions [batch, 1].
//
// Shape mismatches panic inside the layers.
func (r *FeedForwardRegressor[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return r.net.Forward(x)
}

// Kind returns ModelFeedForward.
func (r *FeedForwardRegressor[B]) Kind() string {
	return ModelFeedForward
}

// InputSize returns the number of input features.
func (r *FeedForwardRegressor[B]) InputSize() int {
	return r.inputSize
}

// HiddenSize returns the hidden layer width.
func (r *FeedForwardRegressor[B]) HiddenSize() int {
	return r.hiddenSize
}

// Parameters returns i2h weight and bias followed by h2o weight and bias.
func (r *FeedForwardRegressor[B]) Parameters() []*nn.Parameter[B] {
	return r.net.Parameters()
}

// StateDict returns parameters keyed "i2h.weight", "i2h.bias", "h2o.weight"
// and "h2o.bias".
func (r *FeedForwardRegressor[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	nn.PrefixStateDict(stateDict, "i2h", r.i2h.StateDict())
	nn.PrefixStateDict(stateDict, "h2o", r.h2o.StateDict())
	return stateDict
}

// LoadStateDict copies parameters from a state dict keyed like StateDict.
// Both sub-modules are validated before either is written, so a failed load
// leaves the model unchanged.
func (r *FeedForwardRegressor[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	i2hDict := nn.SubStateDict(stateDict, "i2h")
	h2oDict := nn.SubStateDict(stateDict, "h2o")
	if err := nn.ValidateStateDict(r.i2h.Parameters(), i2hDict); err != nil {
		return fmt.Errorf("i2h: %w", err)
	}
	if err := nn.ValidateStateDict(r.h2o.Parameters(), h2oDict); err != nil {
		return fmt.Errorf("h2o: %w", err)
	}

	if err := r.i2h.LoadStateDict(i2hDict); err != nil {
		return fmt.Errorf("i2h: %w", err)
	}
	if err := r.h2o.LoadStateDict(h2oDict); err != nil {
		return fmt.Errorf("h2o: %w", err)
	}
	return nil
}
