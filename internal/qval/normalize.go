package qval

import (
	"fmt"
)

// Option configures the normalizer.
type Option func(*normalizer)

// WithComplexPairs makes Normalize encode a Complex as a two-element
// [real, imag] array instead of projecting to the real part.
func WithComplexPairs() Option {
	return func(n *normalizer) { n.complexPairs = true }
}

type normalizer struct {
	complexPairs bool
}

// Normalize converts a Value tree into its JSON-safe form:
//
//   - Tensor unrolls into nested Arrays, row-major.
//   - Flag unwraps to Bool.
//   - Complex projects to Float(real part). The imaginary part is
//     dropped; callers that care opt into WithComplexPairs.
//   - Primitives and already-safe aggregates pass through.
//
// Normalize is pure and total over the kinds defined in this package;
// anything else fails with UnsupportedKindError naming the type.
// Normalized values are fix points: Normalize(Normalize(v)) == Normalize(v).
func Normalize(v Value, opts ...Option) (Value, error) {
	n := &normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n.normalize(v, "")
}

func (n *normalizer) normalize(v Value, path string) (Value, error) {
	switch val := v.(type) {
	case Null:
		return val, nil
	case Int:
		return val, nil
	case Float:
		return val, nil
	case Str:
		return val, nil
	case Bool:
		return val, nil
	case Flag:
		return Bool(val), nil
	case Complex:
		z := complex128(val)
		if n.complexPairs {
			return Array{Float(real(z)), Float(imag(z))}, nil
		}
		return Float(real(z)), nil
	case Tensor:
		if !val.wellFormed() {
			return nil, &UnsupportedKindError{Kind: "malformed qval.Tensor", Path: path}
		}
		return unroll(val.Shape, val.Data), nil
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			norm, err := n.normalize(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			p := k
			if path != "" {
				p = path + "." + k
			}
			norm, err := n.normalize(elem, p)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	default:
		return nil, &UnsupportedKindError{Kind: fmt.Sprintf("%T", v), Path: path}
	}
}

// unroll converts row-major tensor data into nested Arrays per shape.
// The caller has already checked shape/data consistency; an empty shape
// yields the bare scalar.
func unroll(shape []int, data []float64) Value {
	if len(shape) == 0 {
		return Float(data[0])
	}

	dim := shape[0]
	out := make(Array, dim)
	if dim == 0 {
		return out
	}
	stride := len(data) / dim
	for i := 0; i < dim; i++ {
		out[i] = unroll(shape[1:], data[i*stride:(i+1)*stride])
	}
	return out
}

// IsNormalized reports whether v is already in the JSON-safe subset,
// i.e. a fix point of Normalize.
func IsNormalized(v Value) bool {
	switch val := v.(type) {
	case Null, Int, Float, Str, Bool:
		return true
	case Array:
		for _, elem := range val {
			if !IsNormalized(elem) {
				return false
			}
		}
		return true
	case Object:
		for _, elem := range val {
			if !IsNormalized(elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
