package circuit

import (
	"encoding/json"
	"strings"

	"fortio.org/safecast"
	"github.com/pkg/errors"
)

// CircuitFile is the JSON circuit description accepted by qctl next to
// OpenQASM. All qubits live in one register "q"; classical bits, when used,
// live in one register "c".
type CircuitFile struct {
	Name   string `json:"name"`
	Qubits int32  `json:"qubits"`
	Clbits int32  `json:"clbits,omitempty"`
	Ops    []struct {
		Gate   string    `json:"gate"`
		Qubits []uint32  `json:"qubits"`
		Clbits []uint32  `json:"clbits,omitempty"`
		Params []float64 `json:"params,omitempty"`
	} `json:"ops"`
}

// ParseJSON decodes a CircuitFile and builds the circuit it describes.
func ParseJSON(data []byte) (*Circuit, error) {
	var file CircuitFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "invalid circuit JSON")
	}
	return file.Build()
}

// Build converts the file into a circuit, validating every operand.
func (f *CircuitFile) Build() (*Circuit, error) {
	nq, err := safecast.Conv[int](f.Qubits)
	if err != nil || nq <= 0 {
		return nil, errors.Errorf("circuit %q: invalid qubit count %d", f.Name, f.Qubits)
	}
	nc, err := safecast.Conv[int](f.Clbits)
	if err != nil {
		return nil, errors.Errorf("circuit %q: invalid clbit count %d", f.Name, f.Clbits)
	}
	c := New(f.Name, nq)
	var creg *ClassicalRegister
	if nc > 0 {
		if creg, err = c.AddClassicalRegister("c", nc); err != nil {
			return nil, err
		}
	}

	for i, op := range f.Ops {
		in := Instruction{Name: strings.ToLower(op.Gate), Params: op.Params}
		for _, q := range op.Qubits {
			idx, err := safecast.Conv[int](q)
			if err != nil || idx >= nq {
				return nil, errors.Errorf("op %d (%s): qubit %d out of range", i, op.Gate, q)
			}
			in.Qubits = append(in.Qubits, c.Qubit(idx))
		}
		for _, b := range op.Clbits {
			idx, err := safecast.Conv[int](b)
			if err != nil || creg == nil || idx >= creg.Size {
				return nil, errors.Errorf("op %d (%s): clbit %d out of range", i, op.Gate, b)
			}
			in.Clbits = append(in.Clbits, creg.Clbit(idx))
		}
		if err := c.Append(in); err != nil {
			return nil, errors.Wrapf(err, "op %d", i)
		}
	}
	return c, nil
}
