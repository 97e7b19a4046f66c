package circuit

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQubitIndexAcrossRegisters(t *testing.T) {
	c := &Circuit{Name: "regs"}
	a, err := c.AddQuantumRegister("a", 2)
	require.NoError(t, err)
	b, err := c.AddQuantumRegister("b", 3)
	require.NoError(t, err)

	idx, err := c.QubitIndex(b.Qubit(1))
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	idx, err = c.QubitIndex(a.Qubit(1))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	assert.Equal(t, b.Qubit(2), c.Qubit(4))
	assert.Equal(t, 5, c.NumQubits())
}

func TestRegisterMembershipIsIdentity(t *testing.T) {
	c := New("ident", 2)
	stranger := &QuantumRegister{Name: "q", Size: 2}

	_, err := c.QubitIndex(stranger.Qubit(0))
	assert.True(t, errors.Is(err, ErrUnknownQubit))
	assert.Error(t, c.Append(Instruction{Name: "h", Qubits: []Qubit{stranger.Qubit(0)}}))
	assert.Empty(t, c.Data)
}

func TestDuplicateRegisterName(t *testing.T) {
	c := New("dup", 1)
	_, err := c.AddClassicalRegister("q", 1)
	assert.True(t, errors.Is(err, ErrDuplicateReg))
}

func TestDepth(t *testing.T) {
	c := New("depth", 3)
	c.H(c.Qubit(0))
	c.CX(c.Qubit(0), c.Qubit(1))
	c.CX(c.Qubit(1), c.Qubit(2))
	c.H(c.Qubit(0))

	assert.Equal(t, 3, c.Depth(All))
	assert.Equal(t, 3, c.Depth(nil))
	twoQubit := func(in Instruction) bool { return len(in.Qubits) > 1 }
	assert.Equal(t, 2, c.Depth(twoQubit))
}

func TestDepthBarrierSynchronises(t *testing.T) {
	c := New("barrier", 2)
	c.H(c.Qubit(0))
	c.Barrier()
	c.H(c.Qubit(1))

	noDirectives := func(in Instruction) bool { return !in.IsDirective() }
	assert.Equal(t, 2, c.Depth(noDirectives))

	free := New("free", 2)
	free.H(free.Qubit(0))
	free.H(free.Qubit(1))
	assert.Equal(t, 1, free.Depth(noDirectives))
}

func TestDepthFollowsClassicalWires(t *testing.T) {
	c := New("clbits", 2)
	creg, err := c.AddClassicalRegister("c", 1)
	require.NoError(t, err)
	require.NoError(t, c.Measure(c.Qubit(0), creg.Clbit(0)))
	require.NoError(t, c.Measure(c.Qubit(1), creg.Clbit(0)))

	assert.Equal(t, 2, c.Depth(All))
}

func TestCountsAndNonlocal(t *testing.T) {
	c := New("counts", 3)
	c.H(c.Qubit(0))
	c.CX(c.Qubit(0), c.Qubit(1))
	c.CCX(c.Qubit(0), c.Qubit(1), c.Qubit(2))
	require.NoError(t, c.MeasureAll())

	ops := c.CountOps()
	assert.Equal(t, 1, ops["h"])
	assert.Equal(t, 1, ops["cx"])
	assert.Equal(t, 1, ops["ccx"])
	assert.Equal(t, 1, ops[OpBarrier])
	assert.Equal(t, 3, ops[OpMeasure])
	assert.Equal(t, 2, c.NumNonlocalGates())
	assert.Equal(t, 6, c.Size())
	assert.Equal(t, 3, c.NumClbits())
}

func TestCompose(t *testing.T) {
	inner := New("inner", 2)
	inner.CX(inner.Qubit(0), inner.Qubit(1))

	outer := New("outer", 3)
	require.NoError(t, outer.Compose(inner, []Qubit{outer.Qubit(2), outer.Qubit(0)}))
	require.Len(t, outer.Data, 1)
	assert.Equal(t, []Qubit{outer.Qubit(2), outer.Qubit(0)}, outer.Data[0].Qubits)

	assert.Error(t, outer.Compose(inner, []Qubit{outer.Qubit(0)}))
}

func TestMCPhaseTwoControls(t *testing.T) {
	c := New("mcp", 3)
	c0, c1, tgt := c.Qubit(0), c.Qubit(1), c.Qubit(2)
	c.MCPhase(1.0, []Qubit{c0, c1}, tgt)

	want := []Instruction{
		{Name: "cu1", Params: []float64{0.5}, Qubits: []Qubit{c1, tgt}},
		{Name: "cx", Qubits: []Qubit{c1, c0}},
		{Name: "cu1", Params: []float64{-0.5}, Qubits: []Qubit{c0, tgt}},
		{Name: "cx", Qubits: []Qubit{c1, c0}},
		{Name: "cu1", Params: []float64{0.5}, Qubits: []Qubit{c0, tgt}},
	}
	assert.Equal(t, want, c.Data)
}

func TestMCXDecompositions(t *testing.T) {
	for k, name := range map[int]string{1: "cx", 2: "ccx", 3: "c3x", 4: "c4x"} {
		c := New("mcx", k+1)
		qs := c.Qubits()
		c.MCX(qs[:k], qs[k])
		require.Len(t, c.Data, 1)
		assert.Equal(t, name, c.Data[0].Name)
	}

	c := New("mcx5", 6)
	qs := c.Qubits()
	c.MCX(qs[:5], qs[5])
	ops := c.CountOps()
	assert.Equal(t, 2, ops["h"])
	assert.Equal(t, 31, ops["cu1"])
	for _, in := range c.Data {
		assert.LessOrEqual(t, len(in.Qubits), 2)
	}
}

func TestMCXVChain(t *testing.T) {
	c := New("vchain", 5)
	anc, err := c.AddQuantumRegister("anc", 2)
	require.NoError(t, err)
	qs := c.Qubits()
	c.MCXVChain(qs[:4], qs[4], anc.Qubits())

	require.Len(t, c.Data, 5)
	for _, in := range c.Data {
		assert.Equal(t, "ccx", in.Name)
	}
	assert.Equal(t, []Qubit{qs[3], anc.Qubit(1), qs[4]}, c.Data[2].Qubits)
	assert.Equal(t, c.Data[0], c.Data[4])
	assert.Equal(t, c.Data[1], c.Data[3])
}
