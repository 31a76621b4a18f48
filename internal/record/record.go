// Package record builds and persists the per-run output record: the
// list of available backends, the user identifier, and the normalized
// execution result. The serialized form is deterministic so repeated
// runs on identical input produce byte-identical files.
package record

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/openqx/qflip/internal/qval"
)

// Record is the summary written once per run. Immutable after
// construction; written exactly once to the output sink.
type Record struct {
	// Backends lists the backend identifiers available at run time.
	Backends []string

	// Email is the user identifier, "N/A" when unset.
	Email string

	// Result is the raw result tree from the backend. Encode runs it
	// through qval.Normalize; it need not be JSON-safe yet.
	Result qval.Value
}

// SinkError reports that the output sink rejected the write. Never
// retried; surfaced to the caller for logging and exit-code decisions.
// Depending on where the failure hit, the sink file may be absent or
// truncated - single-write, single-attempt, no atomicity guarantee.
type SinkError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink write failed for %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsSinkError returns true if the error is a SinkError.
// Uses errors.As to handle wrapped errors.
func IsSinkError(err error) bool {
	var se *SinkError
	return errors.As(err, &se)
}

// Encode serializes the record: normalize the result, then emit the
// three-key object with keys in lexicographic order and four-space
// indentation. Fails with qval.UnsupportedKindError if the result
// holds a kind the normalizer does not know; nothing is written in
// that case.
func (r *Record) Encode(opts ...qval.Option) ([]byte, error) {
	result, err := qval.Normalize(r.Result, opts...)
	if err != nil {
		return nil, fmt.Errorf("normalize result: %w", err)
	}

	backends := make(qval.Array, len(r.Backends))
	for i, b := range r.Backends {
		backends[i] = qval.Str(b)
	}

	return qval.EncodeIndent(qval.Object{
		"backends": backends,
		"email":    qval.Str(r.Email),
		"result":   result,
	})
}

// Write encodes the record and writes the full serialized text to w in
// a single write.
func (r *Record) Write(w io.Writer, opts ...qval.Option) error {
	data, err := r.Encode(opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &SinkError{Path: "<writer>", Err: err}
	}
	return nil
}

// WriteFile encodes the record and writes it to path. Encoding happens
// before the file is touched, so an unsupported result kind produces
// no output file at all. The file handle is released on every exit
// path; I/O failures surface as SinkError.
func (r *Record) WriteFile(path string, opts ...qval.Option) error {
	data, err := r.Encode(opts...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &SinkError{Path: path, Err: err}
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		return &SinkError{Path: path, Err: writeErr}
	}
	if closeErr != nil {
		return &SinkError{Path: path, Err: closeErr}
	}
	return nil
}

// Hash computes the content-addressed identity of the record, used as
// the primary key in the run history store.
func (r *Record) Hash(opts ...qval.Option) (string, error) {
	result, err := qval.Normalize(r.Result, opts...)
	if err != nil {
		return "", fmt.Errorf("normalize result: %w", err)
	}

	backends := make(qval.Array, len(r.Backends))
	for i, b := range r.Backends {
		backends[i] = qval.Str(b)
	}

	return qval.Hash(qval.Object{
		"backends": backends,
		"email":    qval.Str(r.Email),
		"result":   result,
	})
}
