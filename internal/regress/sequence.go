package regress

import (
	"fmt"

	"github.com/born-ml/regress/internal/nn"
	"github.com/born-ml/regress/internal/tensor"
)

// SequenceRegressor runs a stacked LSTM over a batch-first sequence and
// projects the last time step's hidden state to one output.
type SequenceRegressor[B tensor.Backend] struct {
	inputSize  int
	hiddenSize int
	numLayers  int
	lstm       *nn.LSTM[B]
	lstm2o     *nn.Linear[B]
}

// NewSequenceRegressor creates an LSTM regressor with freshly initialized
// parameters. Use DefaultNumLayers for a single-layer network.
//
// Returns an error wrapping ErrInvalidSize if a size is not positive or
// numLayers < 1.
func NewSequenceRegressor[B tensor.Backend](inputSize, hiddenSize, numLayers int, backend B) (*SequenceRegressor[B], error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("%w: input_size must be positive, got %d", ErrInvalidSize, inputSize)
	}
	if hiddenSize <= 0 {
		return nil, fmt.Errorf("%w: hidden_size must be positive, got %d", ErrInvalidSize, hiddenSize)
	}
	if numLayers < 1 {
		return nil, fmt.Errorf("%w: num_layers must be at least 1, got %d", ErrInvalidSize, numLayers)
	}

	return &SequenceRegressor[B]{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		numLayers:  numLayers,
		lstm:       nn.NewLSTM(inputSize, hiddenSize, numLayers, backend),
		lstm2o:     nn.NewLinear(hiddenSize, 1, backend),
	}, nil
}

// InitStates returns zero hidden and cell state, each [num_layers, batch, hidden_size].
func (r *SequenceRegressor[B]) InitStates(batch int) nn.LSTMState[B] {
	return r.lstm.ZeroState(batch)
}

// Forward maps x [batch, seq_len, input_size] to predictions [batch, 1].
//
// The recurrent state starts at zero on every call and is discarded
// afterwards. Shape mismatches panic inside the LSTM.
func (r *SequenceRegressor[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("SequenceRegressor.Forward: expected 3D input [batch, seq, features], got shape %v", shape))
	}

	output, _ := r.lstm.ForwardWithState(x, r.InitStates(shape[0]))
	last := output.Select(1, shape[1]-1) // [batch, hidden]
	return r.lstm2o.Forward(last)
}

// Kind returns ModelLSTM.
func (r *SequenceRegressor[B]) Kind() string {
	return ModelLSTM
}

// InputSize returns the number of input features per time step.
func (r *SequenceRegressor[B]) InputSize() int {
	return r.inputSize
}

// HiddenSize returns the LSTM hidden width.
func (r *SequenceRegressor[B]) HiddenSize() int {
	return r.hiddenSize
}

// NumLayers returns the number of stacked LSTM layers.
func (r *SequenceRegressor[B]) NumLayers() int {
	return r.numLayers
}

// Parameters returns the LSTM parameters followed by lstm2o weight and bias.
func (r *SequenceRegressor[B]) Parameters() []*nn.Parameter[B] {
	return nn.CollectParameters[B](r.lstm, r.lstm2o)
}

// StateDict returns parameters keyed "lstm.weight_ih_l0", ..., "lstm2o.weight"
// and "lstm2o.bias".
func (r *SequenceRegressor[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	nn.PrefixStateDict(stateDict, "lstm", r.lstm.StateDict())
	nn.PrefixStateDict(stateDict, "lstm2o", r.lstm2o.StateDict())
	return stateDict
}

// LoadStateDict copies parameters from a state dict keyed like StateDict.
// Both sub-modules are validated before either is written, so a failed load
// leaves the model unchanged.
func (r *SequenceRegressor[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	lstmDict := nn.SubStateDict(stateDict, "lstm")
	lstm2oDict := nn.SubStateDict(stateDict, "lstm2o")
	if err := nn.ValidateStateDict(r.lstm.Parameters(), lstmDict); err != nil {
		return fmt.Errorf("lstm: %w", err)
	}
	if err := nn.ValidateStateDict(r.lstm2o.Parameters(), lstm2oDict); err != nil {
		return fmt.Errorf("lstm2o: %w", err)
	}

	if err := r.lstm.LoadStateDict(lstmDict); err != nil {
		return fmt.Errorf("lstm: %w", err)
	}
	if err := r.lstm2o.LoadStateDict(lstm2oDict); err != nil {
		return fmt.Errorf("lstm2o: %w", err)
	}
	return nil
}
