package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/regress/internal/tensor"
)

// StateDict returns params keyed by their names. The raw tensors are shared,
// not copied.
func StateDict[B tensor.Backend](params []*Parameter[B]) map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor, len(params))
	for _, p := range params {
		stateDict[p.Name()] = p.Tensor().Raw()
	}
	return stateDict
}

// ValidateStateDict checks that stateDict holds every parameter with a
// matching shape and float32 dtype, without copying anything.
func ValidateStateDict[B tensor.Backend](params []*Parameter[B], stateDict map[string]*tensor.RawTensor) error {
	for _, p := range params {
		raw, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if !raw.Shape().Equal(p.Tensor().Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", p.Name(), p.Tensor().Shape(), raw.Shape())
		}
		if raw.DType() != tensor.Float32 {
			return fmt.Errorf("%s dtype mismatch: expected float32, got %v", p.Name(), raw.DType())
		}
	}
	return nil
}

// LoadStateDict copies every entry of stateDict into the parameter with the
// same name. Nothing is copied unless ValidateStateDict succeeds.
func LoadStateDict[B tensor.Backend](params []*Parameter[B], stateDict map[string]*tensor.RawTensor) error {
	if err := ValidateStateDict(params, stateDict); err != nil {
		return err
	}
	for _, p := range params {
		copy(p.Tensor().Data(), stateDict[p.Name()].AsFloat32())
	}
	return nil
}

// PrefixStateDict copies src into dst with every key prefixed by prefix + ".".
func PrefixStateDict(dst map[string]*tensor.RawTensor, prefix string, src map[string]*tensor.RawTensor) {
	for name, raw := range src {
		dst[prefix+"."+name] = raw
	}
}

// SubStateDict returns the entries of stateDict under prefix + ".", with the
// prefix removed.
func SubStateDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if name, ok := strings.CutPrefix(key, prefix+"."); ok {
			sub[name] = raw
		}
	}
	return sub
}
