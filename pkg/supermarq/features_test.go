package supermarq

import (
	"testing"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInRange(t *testing.T, f Features) {
	t.Helper()
	for _, nv := range f.Named() {
		assert.GreaterOrEqual(t, nv.Value, 0.0, nv.Name)
		assert.LessOrEqual(t, nv.Value, 1.0, nv.Name)
	}
}

func TestSingleQubitGatesOnly(t *testing.T) {
	c := circuit.New("local", 3)
	c.H(c.Qubit(0))
	c.H(c.Qubit(1))
	c.X(c.Qubit(2))
	require.NoError(t, c.MeasureAll())

	f, err := Calculate(c)
	require.NoError(t, err)
	assert.Zero(t, f.EntanglementRatio)
	assert.Zero(t, f.CriticalDepth)
	assert.Zero(t, f.ProgramCommunication)
	assert.InDelta(t, 1.0, f.Parallelism, 1e-12)
	assert.InDelta(t, 1.0, f.Liveness, 1e-12)
}

func TestLinearChain(t *testing.T) {
	for n := 2; n <= 8; n++ {
		c := circuit.New("chain", n)
		for i := 0; i+1 < n; i++ {
			c.CX(c.Qubit(i), c.Qubit(i+1))
		}
		f, err := Calculate(c)
		require.NoError(t, err)

		want := float64(2*(n-1)) / float64(n*(n-1))
		assert.InDelta(t, want, f.ProgramCommunication, 1e-12, "n=%d", n)
		assert.InDelta(t, 1.0, f.EntanglementRatio, 1e-12)
		assert.InDelta(t, 1.0, f.CriticalDepth, 1e-12)
		assert.InDelta(t, 0.0, f.Parallelism, 1e-12)
		assertInRange(t, f)
	}
}

func TestChainFourQubitsByHand(t *testing.T) {
	c := circuit.New("chain4", 4)
	c.CX(c.Qubit(0), c.Qubit(1))
	c.CX(c.Qubit(1), c.Qubit(2))
	c.CX(c.Qubit(2), c.Qubit(3))
	require.NoError(t, c.MeasureAll())

	f, err := Calculate(c)
	require.NoError(t, err)
	assert.Equal(t, Features{
		ProgramCommunication: 0.5,
		CriticalDepth:        1,
		EntanglementRatio:    1,
		Parallelism:          0,
		Liveness:             0.5,
	}, f)
}

func TestThreeQubitGateRecordsFirstOperandOnly(t *testing.T) {
	c := circuit.New("toffoli", 3)
	c.CCX(c.Qubit(0), c.Qubit(1), c.Qubit(2))

	f, err := Calculate(c)
	require.NoError(t, err)
	assert.Zero(t, f.ProgramCommunication)
	assert.InDelta(t, 1.0, f.EntanglementRatio, 1e-12)
	assert.InDelta(t, 1.0, f.Liveness, 1e-12)
}

func TestBarriersAndMeasuresAreIgnored(t *testing.T) {
	plain := circuit.New("plain", 3)
	plain.H(plain.Qubit(0))
	plain.CX(plain.Qubit(0), plain.Qubit(1))
	plain.CX(plain.Qubit(1), plain.Qubit(2))

	measured := circuit.New("measured", 3)
	measured.H(measured.Qubit(0))
	measured.CX(measured.Qubit(0), measured.Qubit(1))
	measured.CX(measured.Qubit(1), measured.Qubit(2))
	require.NoError(t, measured.MeasureAll())

	a, err := Calculate(plain)
	require.NoError(t, err)
	b, err := Calculate(measured)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDegenerateCircuits(t *testing.T) {
	one := circuit.New("one", 1)
	one.H(one.Qubit(0))
	_, err := Calculate(one)
	assert.True(t, errors.Is(err, ErrTooFewQubits))

	empty := circuit.New("empty", 2)
	_, err = Calculate(empty)
	assert.True(t, errors.Is(err, ErrEmptyCircuit))

	onlyMeasures := circuit.New("measures", 2)
	require.NoError(t, onlyMeasures.MeasureAll())
	_, err = Calculate(onlyMeasures)
	assert.True(t, errors.Is(err, ErrEmptyCircuit))
}

func TestOutOfRangeIsReported(t *testing.T) {
	c := circuit.New("dup", 2)
	q := c.Qubit(0)
	require.NoError(t, c.Append(circuit.Instruction{Name: "custom", Qubits: []circuit.Qubit{q, q, q}}))

	_, err := Calculate(c)
	assert.True(t, errors.Is(err, ErrFeatureOutOfRange))
}

func TestQubitIndexOrderingsPreservingOffsets(t *testing.T) {
	a := &circuit.QuantumRegister{Name: "a", Size: 2}
	empty := &circuit.QuantumRegister{Name: "e", Size: 0}
	b := &circuit.QuantumRegister{Name: "b", Size: 3}
	qargs := []circuit.Qubit{b.Qubit(1), a.Qubit(0)}

	first, err := QubitIndex(qargs, []*circuit.QuantumRegister{a, empty, b}, 0)
	require.NoError(t, err)
	second, err := QubitIndex(qargs, []*circuit.QuantumRegister{empty, a, b}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)

	idx, err := QubitIndex(qargs, []*circuit.QuantumRegister{a, b}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestQubitIndexNotFound(t *testing.T) {
	a := &circuit.QuantumRegister{Name: "a", Size: 2}
	stray := &circuit.QuantumRegister{Name: "a", Size: 2}

	_, err := QubitIndex([]circuit.Qubit{stray.Qubit(0)}, []*circuit.QuantumRegister{a}, 0)
	assert.True(t, errors.Is(err, ErrQubitNotFound))
	_, err = QubitIndex(nil, []*circuit.QuantumRegister{a}, 0)
	assert.True(t, errors.Is(err, ErrQubitNotFound))
}
