package qval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Indent is the indentation unit for EncodeIndent output.
const Indent = "    "

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order
// for strings outside the BMP. For ASCII keys the two orders agree.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// EncodeIndent serializes a normalized Value with sorted keys and
// four-space indentation. The output carries no trailing newline, so
// repeated encodes of equal values are byte-identical. Values outside
// the JSON-safe subset (Flag, Complex, Tensor) are rejected with
// UnsupportedKindError; run Normalize first.
func EncodeIndent(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeIndent(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeIndent(buf *bytes.Buffer, v Value, depth int) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
		return nil
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Float:
		return encodeFloat(buf, float64(val))
	case Str:
		s, err := encodeString(string(val))
		if err != nil {
			return err
		}
		buf.Write(s)
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Array:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, elem := range val {
			if i > 0 {
				buf.WriteString(",\n")
			}
			writeIndent(buf, depth+1)
			if err := encodeIndent(buf, elem, depth+1); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte(']')
		return nil
	case Object:
		if len(val) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteString(",\n")
			}
			writeIndent(buf, depth+1)
			key, err := encodeString(k)
			if err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			if err := encodeIndent(buf, val[k], depth+1); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte('}')
		return nil
	default:
		return &UnsupportedKindError{Kind: fmt.Sprintf("%T", v)}
	}
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(Indent)
	}
}

// encodeFloat formats a float the way encoding/json does (shortest
// round-trippable representation). NaN and infinities have no JSON
// form and are rejected.
func encodeFloat(buf *bytes.Buffer, f float64) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("non-finite float %v has no JSON representation", f)
	}
	buf.Write(b)
	return nil
}

// encodeString produces a JSON string without HTML escaping
// (<, > and & are emitted literally, matching RFC 8785).
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}
