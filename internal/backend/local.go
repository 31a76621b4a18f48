package backend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openqx/qflip/internal/circuit"
	"github.com/openqx/qflip/internal/qval"
	"github.com/openqx/qflip/internal/sim"
)

// LocalSimulator executes circuits on the in-process statevector
// engine. Deterministic for a fixed seed.
type LocalSimulator struct{}

// NewLocalSimulator creates the local simulator backend.
func NewLocalSimulator() *LocalSimulator {
	return &LocalSimulator{}
}

// Name returns the backend identifier.
func (s *LocalSimulator) Name() string { return DefaultName }

// Simulator reports true.
func (s *LocalSimulator) Simulator() bool { return true }

// Run executes the circuit on the statevector engine and samples the
// configured number of shots.
func (s *LocalSimulator) Run(ctx context.Context, c *circuit.Circuit, opts RunOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", s.Name(), err)
	}

	start := time.Now()
	exec, err := sim.Run(c, opts.Shots, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", s.Name(), err)
	}
	elapsed := time.Since(start).Seconds()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", s.Name(), err)
	}

	return &Result{
		JobID:  uuid.Must(uuid.NewV7()).String(),
		Status: "COMPLETED",
		Time:   elapsed,
		Counts: exec.Counts,
		Raw:    rawTree(exec, opts),
	}, nil
}

// rawTree builds the backend's result tree. Counts go in directly,
// keyed by bitstring; with IncludeState the final amplitudes ride
// along as Complex values and face the normalizer's real-part
// projection downstream.
func rawTree(exec *sim.Execution, opts RunOptions) qval.Value {
	tree := make(qval.Object, len(exec.Counts)+1)
	for outcome, n := range exec.Counts {
		tree[outcome] = qval.Int(int64(n))
	}

	if opts.IncludeState {
		state := make(qval.Array, len(exec.State.Amplitudes))
		for i, a := range exec.State.Amplitudes {
			state[i] = qval.Complex(a)
		}
		tree["statevector"] = state
	}

	return tree
}

// SortedCounts returns the result's outcomes in bitstring order, for
// stable printing.
func (r *Result) SortedCounts() []string {
	outcomes := make([]string, 0, len(r.Counts))
	for outcome := range r.Counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	return outcomes
}
