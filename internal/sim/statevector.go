// Package sim is a small complex128 statevector engine for the gate
// set internal/circuit describes. It exists so the local backend can
// execute the demo circuit without any external service.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/openqx/qflip/internal/circuit"
)

// StateVector holds 2^n complex amplitudes for n qubits, initialized
// to |0...0>.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector creates the |0...0> state for numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]complex128, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// ApplyH applies a Hadamard gate to qubit q.
func (s *StateVector) ApplyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]complex128, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

// ApplyX applies a Pauli-X gate to qubit q.
func (s *StateVector) ApplyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// ApplyCX applies a controlled-X gate.
func (s *StateVector) ApplyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Probabilities returns |amp|^2 per basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Execution is the outcome of running a circuit: final amplitudes and
// measurement counts keyed by classical bitstring (clbit 0 rightmost).
type Execution struct {
	State  *StateVector
	Counts map[string]int
}

// Run applies every unitary gate of c in order, then samples shots
// measurement outcomes from the final state with the given source.
// Measure gates record which qubit lands in which classical bit;
// they are all taken to happen at the end of the circuit, which holds
// for the circuits this engine accepts. Results are deterministic for
// a fixed seed source.
func Run(c *circuit.Circuit, shots int, rng *rand.Rand) (*Execution, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	state := NewStateVector(c.Qubits)
	clbitOf := make(map[int]int) // qubit -> classical bit

	for _, g := range c.Gates {
		switch g.Kind {
		case circuit.GateH:
			state.ApplyH(g.Target)
		case circuit.GateX:
			state.ApplyX(g.Target)
		case circuit.GateCX:
			state.ApplyCX(g.Control, g.Target)
		case circuit.GateMeasure:
			clbitOf[g.Target] = g.Clbit
		default:
			return nil, fmt.Errorf("circuit %q: no rule for gate %q", c.Name, g.Kind)
		}
	}

	probs := state.Probabilities()
	counts := make(map[string]int)
	for shot := 0; shot < shots; shot++ {
		outcome := sample(probs, rng)
		counts[bitstring(outcome, c, clbitOf)]++
	}

	return &Execution{State: state, Counts: counts}, nil
}

// sample draws one basis-state index from the probability vector.
func sample(probs []float64, rng *rand.Rand) int {
	r := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	// Float round-off can leave acc marginally below 1.
	return len(probs) - 1
}

// bitstring renders a measured basis state as the classical register
// readout, clbit 0 rightmost. Unmeasured classical bits stay 0.
func bitstring(outcome int, c *circuit.Circuit, clbitOf map[int]int) string {
	bits := make([]byte, c.Clbits)
	for i := range bits {
		bits[i] = '0'
	}
	for q, cb := range clbitOf {
		if outcome&(1<<q) != 0 {
			bits[c.Clbits-1-cb] = '1'
		}
	}
	return string(bits)
}
