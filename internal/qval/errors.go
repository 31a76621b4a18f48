package qval

import (
	"errors"
	"fmt"
)

// UnsupportedKindError reports a value the normalizer has no conversion
// rule for. Never retried; the caller either extends the rule set or
// rejects the input upstream.
type UnsupportedKindError struct {
	// Kind names the encountered type (Go type name).
	Kind string

	// Path locates the value inside the tree, e.g. "result.counts[3]".
	// Empty for the root.
	Path string
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported value kind %s at %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("unsupported value kind %s", e.Kind)
}

// IsUnsupportedKind returns true if the error is an UnsupportedKindError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedKind(err error) bool {
	var ue *UnsupportedKindError
	return errors.As(err, &ue)
}
