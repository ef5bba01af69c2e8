package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/regress/internal/tensor"
)

// LSTMState is the recurrent state of a stacked LSTM.
// Both tensors have shape [num_layers, batch, hidden_size].
type LSTMState[B tensor.Backend] struct {
	Hidden *tensor.Tensor[float32, B]
	Cell   *tensor.Tensor[float32, B]
}

// lstmLayer holds the parameters of one layer. Gate rows are ordered
// input, forget, cell, output.
type lstmLayer[B tensor.Backend] struct {
	weightIH *Parameter[B] // [4*hidden, in]
	weightHH *Parameter[B] // [4*hidden, hidden]
	biasIH   *Parameter[B] // [4*hidden]
	biasHH   *Parameter[B] // [4*hidden]
}

// LSTM is a stacked, batch-first long short-term memory network.
//
// For each layer and time step t:
//
//	gates = x_t @ W_ih.T + h_{t-1} @ W_hh.T + b_ih + b_hh
//	i, f, g, o = σ(gates_i), σ(gates_f), tanh(gates_g), σ(gates_o)
//	c_t = f * c_{t-1} + i * g
//	h_t = o * tanh(c_t)
//
// Layer k > 0 consumes the hidden sequence of layer k-1.
// All weights and biases are initialized from U(-1/sqrt(hidden), 1/sqrt(hidden)).
//
// Example:
//
//	lstm := nn.NewLSTM(4, 16, 2, backend)
//	out := lstm.Forward(x) // x: [batch, seq, 4], out: [batch, seq, 16]
type LSTM[B tensor.Backend] struct {
	inputSize  int
	hiddenSize int
	numLayers  int
	layers     []*lstmLayer[B]
	backend    B
}

// NewLSTM creates a stacked LSTM.
//
// Panics if any size is not positive.
func NewLSTM[B tensor.Backend](inputSize, hiddenSize, numLayers int, backend B) *LSTM[B] {
	if inputSize <= 0 || hiddenSize <= 0 || numLayers <= 0 {
		panic(fmt.Sprintf("NewLSTM: sizes must be positive, got input=%d hidden=%d layers=%d",
			inputSize, hiddenSize, numLayers))
	}

	bound := 1 / math.Sqrt(float64(hiddenSize))
	gateRows := 4 * hiddenSize

	layers := make([]*lstmLayer[B], numLayers)
	for k := range layers {
		in := hiddenSize
		if k == 0 {
			in = inputSize
		}
		layers[k] = &lstmLayer[B]{
			weightIH: NewParameter(fmt.Sprintf("weight_ih_l%d", k), Uniform(bound, tensor.Shape{gateRows, in}, backend)),
			weightHH: NewParameter(fmt.Sprintf("weight_hh_l%d", k), Uniform(bound, tensor.Shape{gateRows, hiddenSize}, backend)),
			biasIH:   NewParameter(fmt.Sprintf("bias_ih_l%d", k), Uniform(bound, tensor.Shape{gateRows}, backend)),
			biasHH:   NewParameter(fmt.Sprintf("bias_hh_l%d", k), Uniform(bound, tensor.Shape{gateRows}, backend)),
		}
	}

	return &LSTM[B]{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		numLayers:  numLayers,
		layers:     layers,
		backend:    backend,
	}
}

// InputSize returns the number of input features per time step.
func (l *LSTM[B]) InputSize() int {
	return l.inputSize
}

// HiddenSize returns the hidden state width.
func (l *LSTM[B]) HiddenSize() int {
	return l.hiddenSize
}

// NumLayers returns the number of stacked layers.
func (l *LSTM[B]) NumLayers() int {
	return l.numLayers
}

// ZeroState allocates a zero hidden and cell state for batch sequences.
func (l *LSTM[B]) ZeroState(batch int) LSTMState[B] {
	shape := tensor.Shape{l.numLayers, batch, l.hiddenSize}
	return LSTMState[B]{
		Hidden: tensor.Zeros[float32](shape, l.backend),
		Cell:   tensor.Zeros[float32](shape, l.backend),
	}
}

// Forward runs the LSTM from a zero state and returns the hidden sequence of
// the last layer, shape [batch, seq, hidden].
func (l *LSTM[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 3 {
		panic(fmt.Sprintf("LSTM.Forward: expected 3D input [batch, seq, features], got shape %v", input.Shape()))
	}
	output, _ := l.ForwardWithState(input, l.ZeroState(input.Shape()[0]))
	return output
}

// ForwardWithState runs the LSTM over input [batch, seq, input_size] starting
// from state and returns the last layer's hidden sequence [batch, seq, hidden]
// together with the final state of every layer.
func (l *LSTM[B]) ForwardWithState(
	input *tensor.Tensor[float32, B],
	state LSTMState[B],
) (*tensor.Tensor[float32, B], LSTMState[B]) {
	l.validate(input, state)
	batch, seqLen := input.Shape()[0], input.Shape()[1]

	steps := make([]*tensor.Tensor[float32, B], seqLen)
	for t := range seqLen {
		steps[t] = input.Select(1, t)
	}

	finalH := make([]*tensor.Tensor[float32, B], l.numLayers)
	finalC := make([]*tensor.Tensor[float32, B], l.numLayers)
	for k, layer := range l.layers {
		h := state.Hidden.Select(0, k)
		c := state.Cell.Select(0, k)
		steps, h, c = l.runLayer(layer, steps, h, c)
		finalH[k] = h.Reshape(1, batch, l.hiddenSize)
		finalC[k] = c.Reshape(1, batch, l.hiddenSize)
	}

	for t, h := range steps {
		steps[t] = h.Reshape(batch, 1, l.hiddenSize)
	}
	output := tensor.Cat(steps, 1)

	return output, LSTMState[B]{
		Hidden: tensor.Cat(finalH, 0),
		Cell:   tensor.Cat(finalC, 0),
	}
}

// runLayer applies one layer to every time step and returns the hidden
// sequence with the final hidden and cell state.
func (l *LSTM[B]) runLayer(
	layer *lstmLayer[B],
	steps []*tensor.Tensor[float32, B],
	h, c *tensor.Tensor[float32, B],
) (outputs []*tensor.Tensor[float32, B], hidden, cell *tensor.Tensor[float32, B]) {
	wihT := layer.weightIH.Tensor().T()
	whhT := layer.weightHH.Tensor().T()
	bias := layer.biasIH.Tensor().Add(layer.biasHH.Tensor()).Reshape(1, 4*l.hiddenSize)

	outputs = make([]*tensor.Tensor[float32, B], len(steps))
	for t, x := range steps {
		gates := x.MatMul(wihT).Add(h.MatMul(whhT)).Add(bias)
		parts := gates.Chunk(4, 1)
		i := parts[0].Sigmoid()
		f := parts[1].Sigmoid()
		g := parts[2].Tanh()
		o := parts[3].Sigmoid()

		c = f.Mul(c).Add(i.Mul(g))
		h = o.Mul(c.Tanh())
		outputs[t] = h
	}
	return outputs, h, c
}

func (l *LSTM[B]) validate(input *tensor.Tensor[float32, B], state LSTMState[B]) {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("LSTM.Forward: expected 3D input [batch, seq, features], got shape %v", shape))
	}
	if shape[2] != l.inputSize {
		panic(fmt.Sprintf("LSTM.Forward: expected input with %d features, got %d", l.inputSize, shape[2]))
	}

	want := tensor.Shape{l.numLayers, shape[0], l.hiddenSize}
	if state.Hidden == nil || state.Cell == nil {
		panic("LSTM.Forward: hidden and cell state are required")
	}
	if !state.Hidden.Shape().Equal(want) || !state.Cell.Shape().Equal(want) {
		panic(fmt.Sprintf("LSTM.Forward: expected state shape %v, got hidden %v cell %v",
			want, state.Hidden.Shape(), state.Cell.Shape()))
	}
}

// Parameters returns every layer's weight_ih, weight_hh, bias_ih and bias_hh,
// layer by layer.
func (l *LSTM[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 4*len(l.layers))
	for _, layer := range l.layers {
		params = append(params, layer.weightIH, layer.weightHH, layer.biasIH, layer.biasHH)
	}
	return params
}

// StateDict returns the parameters keyed as "weight_ih_l0", "bias_hh_l1", ...
func (l *LSTM[B]) StateDict() map[string]*tensor.RawTensor {
	return StateDict(l.Parameters())
}

// LoadStateDict loads parameters from a state dictionary.
func (l *LSTM[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return LoadStateDict(l.Parameters(), stateDict)
}
