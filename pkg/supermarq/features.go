// Package supermarq computes the SupermarqFeatures of a circuit: five
// dimensionless metrics describing how a program communicates, how much of
// it lies on the critical path, how entangling and parallel it is and how
// long its qubits stay live.
package supermarq

import (
	"fmt"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

var (
	ErrQubitNotFound     = errors.New("qubit not found in any register")
	ErrTooFewQubits      = errors.New("features need at least two qubits")
	ErrEmptyCircuit      = errors.New("features need at least one gate")
	ErrFeatureOutOfRange = errors.New("feature outside [0,1]")
)

// Features holds the five benchmark metrics, each in [0,1].
type Features struct {
	ProgramCommunication float64 `json:"program_communication"`
	CriticalDepth        float64 `json:"critical_depth"`
	EntanglementRatio    float64 `json:"entanglement_ratio"`
	Parallelism          float64 `json:"parallelism"`
	Liveness             float64 `json:"liveness"`
}

// Named returns the features as ordered name/value pairs.
func (f Features) Named() []NamedValue {
	return []NamedValue{
		{"program_communication", f.ProgramCommunication},
		{"critical_depth", f.CriticalDepth},
		{"entanglement_ratio", f.EntanglementRatio},
		{"parallelism", f.Parallelism},
		{"liveness", f.Liveness},
	}
}

type NamedValue struct {
	Name  string
	Value float64
}

func (f Features) String() string {
	return fmt.Sprintf("pc=%.4f cd=%.4f er=%.4f par=%.4f live=%.4f",
		f.ProgramCommunication, f.CriticalDepth, f.EntanglementRatio, f.Parallelism, f.Liveness)
}

// QubitIndex resolves operand index of qargs to its global qubit index by
// walking qregs in declaration order and accumulating register sizes until
// the owning register is found.
func QubitIndex(qargs []circuit.Qubit, qregs []*circuit.QuantumRegister, index int) (int, error) {
	if index < 0 || index >= len(qargs) {
		return 0, errors.Wrapf(ErrQubitNotFound, "operand %d of %d", index, len(qargs))
	}
	offset := 0
	for _, reg := range qregs {
		local, ok := reg.IndexOf(qargs[index])
		if !ok {
			offset += reg.Size
			continue
		}
		return offset + local, nil
	}
	return 0, errors.Wrapf(ErrQubitNotFound, "global qubit index for local qubit %d not found", index)
}

func skipped(in circuit.Instruction) bool { return in.IsDirective() }

// Calculate computes the features of c. It never mutates c.
func Calculate(c *circuit.Circuit) (Features, error) {
	n := c.NumQubits()
	if n < 2 {
		return Features{}, errors.Wrapf(ErrTooFewQubits, "circuit %s has %d", c.Name, n)
	}

	interactions := make([][]int, n)
	liveness := 0
	for _, in := range c.Data {
		if skipped(in) {
			continue
		}
		liveness += len(in.Qubits)

		first, err := QubitIndex(in.Qubits, c.QRegs, 0)
		if err != nil {
			return Features{}, errors.Wrapf(err, "circuit %s: %s", c.Name, in.Name)
		}
		indices := []int{first}
		if len(in.Qubits) == 2 {
			second, err := QubitIndex(in.Qubits, c.QRegs, 1)
			if err != nil {
				return Features{}, errors.Wrapf(err, "circuit %s: %s", c.Name, in.Name)
			}
			indices = append(indices, second)
		}
		for i, q := range indices {
			for j, other := range indices {
				if i != j {
					interactions[q] = append(interactions[q], other)
				}
			}
		}
	}

	connectivity := 0
	for _, peers := range interactions {
		distinct := make(map[int]struct{}, len(peers))
		for _, p := range peers {
			distinct[p] = struct{}{}
		}
		connectivity += len(distinct)
	}

	ops := c.CountOps()
	numGates := len(c.Data) - ops[circuit.OpMeasure] - ops[circuit.OpBarrier]
	multi := c.NumNonlocalGates()
	depth := c.Depth(func(in circuit.Instruction) bool { return !skipped(in) })
	if numGates == 0 || depth == 0 {
		return Features{}, errors.Wrapf(ErrEmptyCircuit, "circuit %s", c.Name)
	}
	if multi > numGates {
		return Features{}, errors.Errorf("circuit %s: %d multi-qubit gates exceed %d gates", c.Name, multi, numGates)
	}

	var f Features
	f.ProgramCommunication = float64(connectivity) / float64(n*(n-1))
	if multi > 0 {
		critical := c.Depth(func(in circuit.Instruction) bool {
			return len(in.Qubits) > 1 && in.Name != circuit.OpBarrier
		})
		f.CriticalDepth = float64(critical) / float64(multi)
	}
	f.EntanglementRatio = float64(multi) / float64(numGates)
	f.Parallelism = (float64(numGates)/float64(depth) - 1) / float64(n-1)
	f.Liveness = float64(liveness) / float64(depth*n)

	for _, nv := range f.Named() {
		if nv.Value < 0 || nv.Value > 1 {
			return Features{}, errors.Wrapf(ErrFeatureOutOfRange, "circuit %s: %s=%v", c.Name, nv.Name, nv.Value)
		}
	}
	return f, nil
}
