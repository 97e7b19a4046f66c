package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	QASMVersion    = "OPENQASM 2.0;"
	QELibInclude   = `include "qelib1.inc";`
	maxPiNumerator = 64
	maxPiDenom     = 16
)

var ErrUnsupportedGate = errors.New("gate not expressible in OpenQASM 2.0")

// GateSpec is the signature of a gate known to the emitter and parser.
type GateSpec struct {
	Qubits int
	Params int
}

// qelib1 lists the gates of the OpenQASM 2.0 standard header.
var qelib1 = map[string]GateSpec{
	"u3": {1, 3}, "u2": {1, 2}, "u1": {1, 1}, "cx": {2, 0}, "id": {1, 0},
	"u0": {1, 1}, "u": {1, 3}, "p": {1, 1}, "x": {1, 0}, "y": {1, 0},
	"z": {1, 0}, "h": {1, 0}, "s": {1, 0}, "sdg": {1, 0}, "t": {1, 0},
	"tdg": {1, 0}, "rx": {1, 1}, "ry": {1, 1}, "rz": {1, 1}, "sx": {1, 0},
	"sxdg": {1, 0}, "cz": {2, 0}, "cy": {2, 0}, "swap": {2, 0}, "ch": {2, 0},
	"ccx": {3, 0}, "cswap": {3, 0}, "crx": {2, 1}, "cry": {2, 1}, "crz": {2, 1},
	"cu1": {2, 1}, "cp": {2, 1}, "cu3": {2, 3}, "csx": {2, 0}, "cu": {2, 4},
	"rxx": {2, 1}, "rzz": {2, 1}, "rccx": {3, 0}, "rc3x": {4, 0}, "c3x": {4, 0},
	"c3sqrtx": {4, 0}, "c4x": {5, 0},
}

// QELibGates returns the names of the OpenQASM 2.0 standard header gates.
func QELibGates() []string {
	return []string{
		"u3", "u2", "u1", "cx", "id", "u0", "u", "p", "x", "y", "z", "h", "s",
		"sdg", "t", "tdg", "rx", "ry", "rz", "sx", "sxdg", "cz", "cy", "swap",
		"ch", "ccx", "cswap", "crx", "cry", "crz", "cu1", "cp", "cu3", "csx",
		"cu", "rxx", "rzz", "rccx", "rc3x", "c3x", "c3sqrtx", "c4x",
	}
}

// definition is a gate emitted with an explicit body because qelib1 does not
// declare it.
type definition struct {
	spec GateSpec
	deps []string
	body string
}

var definitions = map[string]definition{
	"rzx": {
		spec: GateSpec{2, 1},
		body: "gate rzx(param0) q0,q1 { h q1; cx q0,q1; rz(param0) q1; cx q0,q1; h q1; }",
	},
	"ecr": {
		spec: GateSpec{2, 0},
		deps: []string{"rzx"},
		body: "gate ecr q0,q1 { rzx(pi/4) q0,q1; x q0; rzx(-pi/4) q0,q1; }",
	},
	"xx_plus_yy": {
		spec: GateSpec{2, 2},
		body: "gate xx_plus_yy(param0,param1) q0,q1 { rz(param1) q0; rz(-pi/2) q1; sx q1; rz(pi/2) q1; s q0; " +
			"cx q1,q0; ry(-0.5*param0) q1; ry(-0.5*param0) q0; cx q1,q0; sdg q0; rz(-pi/2) q1; sxdg q1; " +
			"rz(pi/2) q1; rz(-1.0*param1) q0; }",
	},
}

// builtins are the two gates OpenQASM 2.0 defines without any include.
var builtins = map[string]GateSpec{"U": {1, 3}, "CX": {2, 0}}

// LookupGate returns the signature of a gate the emitter can write.
func LookupGate(name string) (GateSpec, bool) {
	if spec, ok := builtins[name]; ok {
		return spec, true
	}
	if spec, ok := qelib1[name]; ok {
		return spec, true
	}
	if def, ok := definitions[name]; ok {
		return def.spec, true
	}
	return GateSpec{}, false
}

// FormatParam renders an angle the way QASM producers usually do: rational
// multiples of pi with small denominators are written symbolically.
func FormatParam(v float64) string {
	if v == 0 {
		return "0"
	}
	sign := ""
	a := v
	if a < 0 {
		sign = "-"
		a = -a
	}
	for den := 1; den <= maxPiDenom; den++ {
		num := a * float64(den) / math.Pi
		rounded := math.Round(num)
		if rounded < 1 || rounded > maxPiNumerator || math.Abs(num-rounded) > 1e-9 {
			continue
		}
		n := int(rounded)
		switch {
		case n == 1 && den == 1:
			return sign + "pi"
		case den == 1:
			return fmt.Sprintf("%s%d*pi", sign, n)
		case n == 1:
			return fmt.Sprintf("%spi/%d", sign, den)
		default:
			return fmt.Sprintf("%s%d*pi/%d", sign, n, den)
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ToQASM renders the circuit as OpenQASM 2.0.
func (c *Circuit) ToQASM() (string, error) {
	var sb strings.Builder
	sb.WriteString(QASMVersion + "\n")
	sb.WriteString(QELibInclude + "\n")

	emitted := make(map[string]bool)
	var define func(name string)
	define = func(name string) {
		if emitted[name] {
			return
		}
		def := definitions[name]
		for _, dep := range def.deps {
			define(dep)
		}
		emitted[name] = true
		sb.WriteString(def.body + "\n")
	}
	for _, in := range c.Data {
		if _, ok := definitions[in.Name]; ok {
			define(in.Name)
		}
	}

	for _, r := range c.QRegs {
		fmt.Fprintf(&sb, "qreg %s[%d];\n", r.Name, r.Size)
	}
	for _, r := range c.CRegs {
		fmt.Fprintf(&sb, "creg %s[%d];\n", r.Name, r.Size)
	}

	for i, in := range c.Data {
		line, err := c.instructionQASM(in)
		if err != nil {
			return "", errors.Wrapf(err, "instruction %d", i)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String(), nil
}

func (c *Circuit) instructionQASM(in Instruction) (string, error) {
	qargs := make([]string, len(in.Qubits))
	for i, q := range in.Qubits {
		if _, err := c.QubitIndex(q); err != nil {
			return "", err
		}
		qargs[i] = q.String()
	}

	switch in.Name {
	case OpBarrier:
		return fmt.Sprintf("barrier %s;", strings.Join(qargs, ",")), nil
	case OpMeasure:
		if len(in.Qubits) != 1 || len(in.Clbits) != 1 {
			return "", errors.New("measure needs one qubit and one clbit")
		}
		if _, err := c.ClbitIndex(in.Clbits[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("measure %s -> %s;", qargs[0], in.Clbits[0]), nil
	case "reset":
		return fmt.Sprintf("reset %s;", qargs[0]), nil
	}

	spec, ok := LookupGate(in.Name)
	if !ok {
		return "", errors.Wrap(ErrUnsupportedGate, in.Name)
	}
	if spec.Qubits != len(in.Qubits) || spec.Params != len(in.Params) {
		return "", errors.Errorf("%s expects %d qubits and %d params, got %d and %d",
			in.Name, spec.Qubits, spec.Params, len(in.Qubits), len(in.Params))
	}
	name := in.Name
	if len(in.Params) > 0 {
		ps := make([]string, len(in.Params))
		for i, p := range in.Params {
			ps[i] = FormatParam(p)
		}
		name += "(" + strings.Join(ps, ",") + ")"
	}
	return fmt.Sprintf("%s %s;", name, strings.Join(qargs, ",")), nil
}
