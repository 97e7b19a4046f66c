package bench

import (
	"testing"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/stretchr/testify/require"
)

// runClassical evaluates a circuit of X and multi-controlled X gates on a
// basis state, bit i of state being qubit i.
func runClassical(t *testing.T, c *circuit.Circuit, state int) int {
	t.Helper()
	for _, in := range c.Data {
		idx := make([]int, len(in.Qubits))
		for i, q := range in.Qubits {
			g, err := c.QubitIndex(q)
			require.NoError(t, err)
			idx[i] = g
		}
		switch in.Name {
		case "x", "cx", "ccx", "c3x", "c4x":
		default:
			t.Fatalf("gate %s is not classical", in.Name)
		}
		tgt := idx[len(idx)-1]
		fire := true
		for _, ctrl := range idx[:len(idx)-1] {
			if state>>ctrl&1 == 0 {
				fire = false
			}
		}
		if fire {
			state ^= 1 << tgt
		}
	}
	return state
}

func TestControlledModularMultiplication(t *testing.T) {
	const modulus, factor = 15, 7
	c := circuit.New("modmul", 5)
	qs := c.Qubits()
	ctrl, work := qs[0], qs[1:]
	appendControlledModMul(c, ctrl, work, factor, modulus)

	for x := 0; x < 16; x++ {
		want := x
		if x < modulus {
			want = factor * x % modulus
		}
		on := runClassical(t, c, x<<1|1)
		require.Equal(t, want<<1|1, on, "x=%d with control set", x)
		off := runClassical(t, c, x<<1)
		require.Equal(t, x<<1, off, "x=%d with control clear", x)
	}
}

func TestControlledTransposition(t *testing.T) {
	c := circuit.New("swap", 4)
	qs := c.Qubits()
	appendControlledTransposition(c, qs[0], qs[1:], 0b010, 0b101)

	for x := 0; x < 8; x++ {
		want := x
		switch x {
		case 0b010:
			want = 0b101
		case 0b101:
			want = 0b010
		}
		require.Equal(t, want<<1|1, runClassical(t, c, x<<1|1), "x=%d", x)
	}
}
