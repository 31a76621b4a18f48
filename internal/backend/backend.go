// Package backend abstracts the execution providers a circuit can be
// submitted to. The core of the program treats a backend as a black
// box that returns a raw result tree; the only provider that actually
// executes anything here is the local statevector simulator. Remote
// providers appear in listings when a credentials file registers them,
// but their wire protocol is out of scope.
package backend

import (
	"context"

	"github.com/openqx/qflip/internal/circuit"
	"github.com/openqx/qflip/internal/qval"
)

// DefaultName is the backend used when none is configured.
const DefaultName = "local_qasm_simulator"

// RunOptions configures one execution.
type RunOptions struct {
	// Shots is the number of repetitions. Must be positive.
	Shots int

	// Seed fixes the measurement sampling source.
	Seed int64

	// IncludeState adds the final statevector to the raw result tree.
	// The amplitudes are complex; the normalizer projects them to
	// their real parts unless the caller opts into pairs.
	IncludeState bool
}

// Result is what a backend hands back after executing a circuit.
type Result struct {
	// JobID identifies the execution, UUIDv7 so IDs sort by time.
	JobID string

	// Status is the terminal job state, "COMPLETED" on success.
	Status string

	// Time is the backend-reported execution time in seconds, zero
	// when the backend does not report one.
	Time float64

	// Counts maps classical readout bitstrings to occurrences.
	Counts map[string]int

	// Raw is the backend's result tree as handed to the normalizer.
	// May contain kinds that are not JSON-safe (Complex amplitudes).
	Raw qval.Value
}

// Backend executes circuits. Implementations must be safe for
// sequential reuse; the program runs one job at a time.
type Backend interface {
	// Name returns the backend identifier, e.g. "local_qasm_simulator".
	Name() string

	// Simulator reports whether this backend is a simulator.
	Simulator() bool

	// Run executes the circuit and blocks until the result is
	// available or ctx is done.
	Run(ctx context.Context, c *circuit.Circuit, opts RunOptions) (*Result, error)
}
