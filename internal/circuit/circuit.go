// Package circuit models small gate circuits: quantum and classical
// registers, a builder for the gates a backend understands, and
// OpenQASM 2.0 text export. Gate semantics live in internal/sim; this
// package only describes circuits.
package circuit

import (
	"fmt"
	"strings"
)

// GateKind identifies a gate operation.
type GateKind string

const (
	GateH       GateKind = "h"
	GateX       GateKind = "x"
	GateCX      GateKind = "cx"
	GateMeasure GateKind = "measure"
)

// Gate is one operation in a circuit. Control is -1 for single-qubit
// gates; Clbit is -1 for non-measure gates.
type Gate struct {
	Kind    GateKind
	Target  int
	Control int
	Clbit   int
}

// Circuit describes a named gate circuit over one quantum and one
// classical register.
type Circuit struct {
	Name   string
	Qubits int
	Clbits int
	Gates  []Gate
}

// New creates an empty circuit with the given register sizes.
func New(name string, qubits, clbits int) (*Circuit, error) {
	if qubits <= 0 {
		return nil, fmt.Errorf("circuit %q: need at least one qubit, got %d", name, qubits)
	}
	if clbits < 0 {
		return nil, fmt.Errorf("circuit %q: negative classical register size %d", name, clbits)
	}
	return &Circuit{Name: name, Qubits: qubits, Clbits: clbits}, nil
}

// H appends a Hadamard gate on qubit q.
func (c *Circuit) H(q int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	c.Gates = append(c.Gates, Gate{Kind: GateH, Target: q, Control: -1, Clbit: -1})
	return nil
}

// X appends a Pauli-X gate on qubit q.
func (c *Circuit) X(q int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	c.Gates = append(c.Gates, Gate{Kind: GateX, Target: q, Control: -1, Clbit: -1})
	return nil
}

// CX appends a controlled-X gate with the given control and target.
func (c *Circuit) CX(control, target int) error {
	if err := c.checkQubit(control); err != nil {
		return err
	}
	if err := c.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("circuit %q: cx control and target are both qubit %d", c.Name, control)
	}
	c.Gates = append(c.Gates, Gate{Kind: GateCX, Target: target, Control: control, Clbit: -1})
	return nil
}

// Measure appends a measurement of qubit q into classical bit cb.
func (c *Circuit) Measure(q, cb int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	if cb < 0 || cb >= c.Clbits {
		return fmt.Errorf("circuit %q: classical bit %d out of range [0,%d)", c.Name, cb, c.Clbits)
	}
	c.Gates = append(c.Gates, Gate{Kind: GateMeasure, Target: q, Control: -1, Clbit: cb})
	return nil
}

// MeasureAll measures every qubit into the classical bit of the same
// index. Requires Clbits >= Qubits.
func (c *Circuit) MeasureAll() error {
	if c.Clbits < c.Qubits {
		return fmt.Errorf("circuit %q: classical register too small to measure all qubits (%d < %d)", c.Name, c.Clbits, c.Qubits)
	}
	for q := 0; q < c.Qubits; q++ {
		if err := c.Measure(q, q); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.Qubits {
		return fmt.Errorf("circuit %q: qubit %d out of range [0,%d)", c.Name, q, c.Qubits)
	}
	return nil
}

// QASM renders the circuit as OpenQASM 2.0 text.
func (c *Circuit) QASM() string {
	var b strings.Builder

	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", c.Qubits)
	if c.Clbits > 0 {
		fmt.Fprintf(&b, "creg c[%d];\n", c.Clbits)
	}
	b.WriteByte('\n')

	for _, g := range c.Gates {
		switch g.Kind {
		case GateH, GateX:
			fmt.Fprintf(&b, "%s q[%d];\n", g.Kind, g.Target)
		case GateCX:
			fmt.Fprintf(&b, "cx q[%d],q[%d];\n", g.Control, g.Target)
		case GateMeasure:
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", g.Target, g.Clbit)
		}
	}

	return b.String()
}

// Bell builds the two-qubit Bell-state circuit the demo runs: H on
// qubit 0, CX from 0 to 1, measure both qubits.
func Bell() *Circuit {
	c, err := New("bell", 2, 2)
	if err != nil {
		panic(err) // static construction cannot fail
	}
	if err := c.H(0); err != nil {
		panic(err)
	}
	if err := c.CX(0, 1); err != nil {
		panic(err)
	}
	if err := c.MeasureAll(); err != nil {
		panic(err)
	}
	return c
}
