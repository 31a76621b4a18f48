// Package schema validates serialized output records against the
// embedded CUE schema before they reach the sink. This is a last-line
// structural check: the normalizer should make violations impossible,
// so a failure here points at a bug, not at user input.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

var pathRecord = cue.ParsePath("#Record")

//go:embed record.cue
var recordSchema string

// ValidationError represents one schema violation.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidateRecord checks serialized record JSON against the embedded
// schema. Returns all violations found (does not fail-fast); an empty
// slice means the record is valid.
func ValidateRecord(data []byte) ([]ValidationError, error) {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(recordSchema)
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	recordDef := schemaVal.LookupPath(pathRecord)
	if err := recordDef.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Record: %w", err)
	}

	expr, err := cuejson.Extract("record.json", data)
	if err != nil {
		return []ValidationError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}, nil
	}
	dataVal := ctx.BuildExpr(expr)
	if err := dataVal.Err(); err != nil {
		return nil, fmt.Errorf("build record value: %w", err)
	}

	unified := recordDef.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var violations []ValidationError
		for _, e := range cueerrors.Errors(err) {
			violations = append(violations, ValidationError{
				Path:    strings.Join(e.Path(), "."),
				Message: e.Error(),
			})
		}
		return violations, nil
	}

	return nil, nil
}
