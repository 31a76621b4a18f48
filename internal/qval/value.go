package qval

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a sealed interface over the result-value kinds a backend can
// hand back. Only Null, Int, Float, Str, Bool, Flag, Complex, Tensor,
// Array, and Object implement it. Values form acyclic trees; cycles are
// the caller's bug and will not terminate.
type Value interface {
	qvalue() // Sealed - only these types implement it
}

// Null represents a JSON null value.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) qvalue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Int represents an integer value. Always int64.
type Int int64

func (Int) qvalue() {}

// Float represents a floating-point value.
type Float float64

func (Float) qvalue() {}

// Str represents a string value.
type Str string

func (Str) qvalue() {}

// Bool represents a plain boolean value.
type Bool bool

func (Bool) qvalue() {}

// Flag is a backend readout flag: a boolean wrapped in a backend-specific
// type. Not JSON-safe on its own; Normalize unwraps it to Bool.
type Flag bool

func (Flag) qvalue() {}

// Complex represents a complex amplitude. Not JSON-safe; Normalize
// projects it to its real part (see Normalize for the caveat).
type Complex complex128

func (Complex) qvalue() {}

// Tensor is a fixed-shape numeric array with row-major data, the shape
// a simulator's statevector or unitary comes back as. Not JSON-safe;
// Normalize unrolls it into nested Arrays per Shape. Build tensors with
// NewTensor; a literal whose Shape does not match Data is rejected by
// Normalize.
type Tensor struct {
	Shape []int
	Data  []float64
}

func (Tensor) qvalue() {}

// wellFormed reports whether Shape has no negative dimension and its
// product matches len(Data). NewTensor guarantees this; a Tensor built
// from literal fields may not.
func (t Tensor) wellFormed() bool {
	n := 1
	for _, d := range t.Shape {
		if d < 0 {
			return false
		}
		n *= d
	}
	return n == len(t.Data)
}

// Array represents an ordered sequence of Values.
type Array []Value

func (Array) qvalue() {}

// Object represents a map of string keys to Values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) qvalue() {}

// NewTensor builds a Tensor after checking that the shape matches the
// data length. A nil or empty shape means a scalar-like 1-element tensor.
func NewTensor(shape []int, data []float64) (Tensor, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return Tensor{}, fmt.Errorf("tensor shape has negative dimension %d", d)
		}
		n *= d
	}
	if n != len(data) {
		return Tensor{}, fmt.Errorf("tensor shape %v implies %d elements, got %d", shape, n, len(data))
	}
	return Tensor{Shape: shape, Data: data}, nil
}

// FromGo converts a decoded JSON tree (the shapes encoding/json produces
// with UseNumber) into a Value. Unknown dynamic types are rejected with
// UnsupportedKindError rather than silently stringified.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case complex128:
		return Complex(val), nil
	case json.Number:
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			n, err := val.Int64()
			if err == nil {
				return Int(n), nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number out of range: %s", val)
		}
		return Float(f), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			qElem, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = qElem
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			qElem, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = qElem
		}
		return obj, nil
	default:
		return nil, &UnsupportedKindError{Kind: fmt.Sprintf("%T", v)}
	}
}
