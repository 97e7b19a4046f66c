// Package circuit is the quantum circuit object model used by the benchmark
// generators, the feature calculator and the QASM serializer.
package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ------------------------------------------------------------------
// Registers
// ------------------------------------------------------------------

// QuantumRegister is a named, sized group of qubits. Membership of a qubit is
// decided by register identity, so two registers with the same name are
// still distinct.
type QuantumRegister struct {
	Name string
	Size int
}

// Qubit returns the i-th qubit of the register.
func (r *QuantumRegister) Qubit(i int) Qubit {
	return Qubit{Register: r, Index: i}
}

// Qubits returns all qubits of the register in order.
func (r *QuantumRegister) Qubits() []Qubit {
	qs := make([]Qubit, r.Size)
	for i := range qs {
		qs[i] = r.Qubit(i)
	}
	return qs
}

// Contains reports whether q belongs to this register.
func (r *QuantumRegister) Contains(q Qubit) bool {
	return q.Register == r && q.Index >= 0 && q.Index < r.Size
}

// IndexOf returns the local position of q inside the register.
func (r *QuantumRegister) IndexOf(q Qubit) (int, bool) {
	if !r.Contains(q) {
		return 0, false
	}
	return q.Index, true
}

// ClassicalRegister is a named, sized group of classical bits.
type ClassicalRegister struct {
	Name string
	Size int
}

// Clbit returns the i-th bit of the register.
func (r *ClassicalRegister) Clbit(i int) Clbit {
	return Clbit{Register: r, Index: i}
}

type Qubit struct {
	Register *QuantumRegister
	Index    int
}

func (q Qubit) String() string {
	if q.Register == nil {
		return fmt.Sprintf("?[%d]", q.Index)
	}
	return fmt.Sprintf("%s[%d]", q.Register.Name, q.Index)
}

type Clbit struct {
	Register *ClassicalRegister
	Index    int
}

func (c Clbit) String() string {
	if c.Register == nil {
		return fmt.Sprintf("?[%d]", c.Index)
	}
	return fmt.Sprintf("%s[%d]", c.Register.Name, c.Index)
}

// ------------------------------------------------------------------
// Instructions
// ------------------------------------------------------------------

const (
	OpBarrier = "barrier"
	OpMeasure = "measure"
)

// Instruction is a single operation applied to qubit and classical operands.
type Instruction struct {
	Name   string
	Params []float64
	Qubits []Qubit
	Clbits []Clbit
}

// IsDirective reports whether the instruction is a barrier or a measurement,
// the two kinds every metric skips.
func (in Instruction) IsDirective() bool {
	return in.Name == OpBarrier || in.Name == OpMeasure
}

// ------------------------------------------------------------------
// Circuit
// ------------------------------------------------------------------

var (
	ErrUnknownQubit = errors.New("qubit does not belong to circuit")
	ErrUnknownClbit = errors.New("clbit does not belong to circuit")
	ErrDuplicateReg = errors.New("register name already in use")
)

// Circuit is an ordered program of instructions over its registers.
type Circuit struct {
	Name  string
	QRegs []*QuantumRegister
	CRegs []*ClassicalRegister
	Data  []Instruction
}

// New returns a circuit with a single quantum register "q" of n qubits.
func New(name string, n int) *Circuit {
	c := &Circuit{Name: name}
	if n > 0 {
		c.QRegs = append(c.QRegs, &QuantumRegister{Name: "q", Size: n})
	}
	return c
}

// AddQuantumRegister appends a new quantum register and returns it.
func (c *Circuit) AddQuantumRegister(name string, size int) (*QuantumRegister, error) {
	if c.hasRegister(name) {
		return nil, errors.Wrapf(ErrDuplicateReg, "qreg %s", name)
	}
	r := &QuantumRegister{Name: name, Size: size}
	c.QRegs = append(c.QRegs, r)
	return r, nil
}

// AddClassicalRegister appends a new classical register and returns it.
func (c *Circuit) AddClassicalRegister(name string, size int) (*ClassicalRegister, error) {
	if c.hasRegister(name) {
		return nil, errors.Wrapf(ErrDuplicateReg, "creg %s", name)
	}
	r := &ClassicalRegister{Name: name, Size: size}
	c.CRegs = append(c.CRegs, r)
	return r, nil
}

func (c *Circuit) hasRegister(name string) bool {
	for _, r := range c.QRegs {
		if r.Name == name {
			return true
		}
	}
	for _, r := range c.CRegs {
		if r.Name == name {
			return true
		}
	}
	return false
}

// NumQubits is the total size of all quantum registers.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.QRegs {
		n += r.Size
	}
	return n
}

// NumClbits is the total size of all classical registers.
func (c *Circuit) NumClbits() int {
	n := 0
	for _, r := range c.CRegs {
		n += r.Size
	}
	return n
}

// Qubit returns the qubit with global index i.
func (c *Circuit) Qubit(i int) Qubit {
	off := 0
	for _, r := range c.QRegs {
		if i < off+r.Size {
			return r.Qubit(i - off)
		}
		off += r.Size
	}
	panic(fmt.Sprintf("circuit %s: qubit %d out of range", c.Name, i))
}

// Qubits returns every qubit of the circuit in global index order.
func (c *Circuit) Qubits() []Qubit {
	qs := make([]Qubit, 0, c.NumQubits())
	for _, r := range c.QRegs {
		qs = append(qs, r.Qubits()...)
	}
	return qs
}

// QubitIndex returns the global index of q.
func (c *Circuit) QubitIndex(q Qubit) (int, error) {
	off := 0
	for _, r := range c.QRegs {
		if idx, ok := r.IndexOf(q); ok {
			return off + idx, nil
		}
		off += r.Size
	}
	return 0, errors.Wrapf(ErrUnknownQubit, "%s", q)
}

// ClbitIndex returns the global index of b.
func (c *Circuit) ClbitIndex(b Clbit) (int, error) {
	off := 0
	for _, r := range c.CRegs {
		if b.Register == r && b.Index >= 0 && b.Index < r.Size {
			return off + b.Index, nil
		}
		off += r.Size
	}
	return 0, errors.Wrapf(ErrUnknownClbit, "%s", b)
}

// Append adds an instruction after checking that its operands belong to the
// circuit.
func (c *Circuit) Append(in Instruction) error {
	for _, q := range in.Qubits {
		if _, err := c.QubitIndex(q); err != nil {
			return errors.Wrapf(err, "append %s", in.Name)
		}
	}
	for _, b := range in.Clbits {
		if _, err := c.ClbitIndex(b); err != nil {
			return errors.Wrapf(err, "append %s", in.Name)
		}
	}
	c.Data = append(c.Data, in)
	return nil
}

// apply is used by the gate helpers; operands produced by the helpers always
// belong to the circuit, so a failure is a programming error.
func (c *Circuit) apply(name string, params []float64, qubits ...Qubit) {
	if err := c.Append(Instruction{Name: name, Params: params, Qubits: qubits}); err != nil {
		panic(err)
	}
}

// Compose appends every instruction of other, mapping its i-th qubit to
// qubits[i].
func (c *Circuit) Compose(other *Circuit, qubits []Qubit) error {
	if len(qubits) != other.NumQubits() {
		return errors.Errorf("compose %s: expected %d qubits, got %d", other.Name, other.NumQubits(), len(qubits))
	}
	for _, in := range other.Data {
		if len(in.Clbits) > 0 {
			return errors.Errorf("compose %s: classical operands are not supported", other.Name)
		}
		mapped := make([]Qubit, len(in.Qubits))
		for i, q := range in.Qubits {
			idx, err := other.QubitIndex(q)
			if err != nil {
				return err
			}
			mapped[i] = qubits[idx]
		}
		if err := c.Append(Instruction{Name: in.Name, Params: in.Params, Qubits: mapped}); err != nil {
			return err
		}
	}
	return nil
}

// ------------------------------------------------------------------
// Aggregates
// ------------------------------------------------------------------

// CountOps returns the number of instructions per name.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, in := range c.Data {
		counts[in.Name]++
	}
	return counts
}

// Size is the number of instructions excluding barriers.
func (c *Circuit) Size() int {
	n := 0
	for _, in := range c.Data {
		if in.Name != OpBarrier {
			n++
		}
	}
	return n
}

// NumNonlocalGates counts instructions acting on two or more qubits,
// barriers excluded.
func (c *Circuit) NumNonlocalGates() int {
	n := 0
	for _, in := range c.Data {
		if len(in.Qubits) > 1 && in.Name != OpBarrier {
			n++
		}
	}
	return n
}
