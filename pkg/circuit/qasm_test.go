package circuit

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bellQASM = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg meas[2];
h q[0];
cx q[0],q[1];
barrier q[0],q[1];
measure q[0] -> meas[0];
measure q[1] -> meas[1];
`

func bell(t *testing.T) *Circuit {
	c := New("bell", 2)
	c.H(c.Qubit(0))
	c.CX(c.Qubit(0), c.Qubit(1))
	require.NoError(t, c.MeasureAll())
	return c
}

func TestToQASM(t *testing.T) {
	out, err := bell(t).ToQASM()
	require.NoError(t, err)
	assert.Equal(t, bellQASM, out)
}

func TestQASMRoundTrip(t *testing.T) {
	c := New("rt", 3)
	anc, err := c.AddQuantumRegister("anc", 1)
	require.NoError(t, err)
	c.RY(math.Pi/2, c.Qubit(0))
	c.CP(-math.Pi/4, c.Qubit(0), c.Qubit(2))
	c.RZ(0.123, anc.Qubit(0))
	c.ECR(c.Qubit(1), anc.Qubit(0))
	require.NoError(t, c.MeasureAll())

	text, err := c.ToQASM()
	require.NoError(t, err)

	parsed, err := ParseQASM(text)
	require.NoError(t, err)
	assert.Equal(t, c.NumQubits(), parsed.NumQubits())
	assert.Equal(t, c.CountOps(), parsed.CountOps())

	again, err := parsed.ToQASM()
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestToQASMEmitsDefinitions(t *testing.T) {
	c := New("ecr", 2)
	c.ECR(c.Qubit(0), c.Qubit(1))
	out, err := c.ToQASM()
	require.NoError(t, err)

	assert.Contains(t, out, "gate rzx(param0) q0,q1 {")
	assert.Contains(t, out, "gate ecr q0,q1 {")
	assert.Less(t, indexOf(out, "gate rzx"), indexOf(out, "gate ecr"))
	assert.Less(t, indexOf(out, "gate ecr"), indexOf(out, "qreg q[2];"))
}

func TestToQASMRejectsUnknownGate(t *testing.T) {
	c := New("bad", 1)
	require.NoError(t, c.Append(Instruction{Name: "warp", Qubits: []Qubit{c.Qubit(0)}}))
	_, err := c.ToQASM()
	assert.True(t, errors.Is(err, ErrUnsupportedGate))
}

func TestFormatParam(t *testing.T) {
	cases := map[float64]string{
		0:               "0",
		math.Pi:         "pi",
		-math.Pi:        "-pi",
		math.Pi / 2:     "pi/2",
		-math.Pi / 4:    "-pi/4",
		3 * math.Pi / 4: "3*pi/4",
		2 * math.Pi:     "2*pi",
		0.1:             "0.1",
	}
	for v, want := range cases {
		assert.Equal(t, want, FormatParam(v), "value %v", v)
	}
}

func TestEvalParam(t *testing.T) {
	cases := map[string]float64{
		"-pi/4":     -math.Pi / 4,
		"2*pi/3":    2 * math.Pi / 3,
		"sin(pi/2)": 1,
		"(1+2)*3":   9,
		"2^3":       8,
		"1e-3":      0.001,
		"-0.5*2":    -1,
	}
	for src, want := range cases {
		got, err := EvalParam(src)
		require.NoError(t, err, src)
		assert.InDelta(t, want, got, 1e-12, src)
	}

	for _, src := range []string{"foo", "1/0", "(1", "2 3"} {
		_, err := EvalParam(src)
		assert.Error(t, err, src)
	}
}

func TestParseBroadcastAndDefinitions(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
// user gate
gate foo a,b { cx a,b; h b; }
opaque bar(theta) a;
qreg q[3];
creg c[3];
h q;
foo q[0],q[1];
bar(pi/8) q[2];
barrier q;
measure q -> c;
`
	c, err := ParseQASM(src)
	require.NoError(t, err)

	ops := c.CountOps()
	assert.Equal(t, 3, ops["h"])
	assert.Equal(t, 1, ops["foo"])
	assert.Equal(t, 1, ops["bar"])
	assert.Equal(t, 3, ops[OpMeasure])
	require.Equal(t, 1, ops[OpBarrier])
	for _, in := range c.Data {
		if in.Name == OpBarrier {
			assert.Len(t, in.Qubits, 3)
		}
		if in.Name == "bar" {
			assert.InDelta(t, math.Pi/8, in.Params[0], 1e-12)
		}
	}
}

func TestParseBuiltinGates(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[2];
U(0,0,0) q[0];
CX q[0],q[1];
U(pi/2,0,pi) q[1];
`
	c, err := ParseQASM(src)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumQubits())
	ops := c.CountOps()
	assert.Equal(t, 2, ops["U"])
	assert.Equal(t, 1, ops["CX"])

	text, err := c.ToQASM()
	require.NoError(t, err)
	assert.Contains(t, text, "CX q[0],q[1];")
	_, err = ParseQASM(text)
	require.NoError(t, err)

	_, err = ParseQASM("OPENQASM 2.0;\nqreg q[2];\nCX q[0];\n")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"OPENQASM 3.0;",
		"qreg q[1]; warp q[0];",
		"qreg q[1]; h q[4];",
		"qreg q[1]; h r[0];",
		"qreg q[2]; cx q[0];",
		"qreg q[1]; creg c[1]; if(c==1) x q[0];",
		"qreg q[2]; qreg r[3]; cx q,r;",
	}
	for _, src := range cases {
		_, err := ParseQASM(src)
		assert.True(t, errors.Is(err, ErrParse), src)
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"name": "bell",
		"qubits": 2,
		"clbits": 2,
		"ops": [
			{"gate": "H", "qubits": [0]},
			{"gate": "cx", "qubits": [0, 1]},
			{"gate": "rz", "qubits": [1], "params": [0.5]},
			{"gate": "measure", "qubits": [0], "clbits": [0]}
		]
	}`)
	c, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "bell", c.Name)
	assert.Equal(t, 2, c.NumQubits())
	require.Len(t, c.Data, 4)
	assert.Equal(t, "h", c.Data[0].Name)
	assert.Equal(t, []float64{0.5}, c.Data[2].Params)

	_, err = ParseJSON([]byte(`{"name": "x", "qubits": 1, "ops": [{"gate": "x", "qubits": [3]}]}`))
	assert.Error(t, err)
	_, err = ParseJSON([]byte(`{"name": "x", "qubits": 0}`))
	assert.Error(t, err)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
