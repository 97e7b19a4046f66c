package bench

import (
	"math"
	"math/rand/v2"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

// Seeds used by the published benchmark set.
const (
	seedDefault = 10
	seedMaxCut  = 111
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// randomAngles draws n parameters uniformly from [0, 2pi).
func randomAngles(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64() * 2 * math.Pi
	}
	return out
}

// ------------------------------------------------------------------
// Fourier transform
// ------------------------------------------------------------------

// appendQFT applies the quantum Fourier transform to qs, most significant
// qubit last, followed by the bit reversal swaps when swaps is set.
func appendQFT(c *circuit.Circuit, qs []circuit.Qubit, swaps bool) {
	n := len(qs)
	for j := n - 1; j >= 0; j-- {
		c.H(qs[j])
		for k := j - 1; k >= 0; k-- {
			c.CP(math.Pi/float64(int(1)<<(j-k)), qs[j], qs[k])
		}
	}
	if swaps {
		for i := 0; i < n/2; i++ {
			c.Swap(qs[i], qs[n-1-i])
		}
	}
}

// appendInverseQFT is the adjoint of appendQFT.
func appendInverseQFT(c *circuit.Circuit, qs []circuit.Qubit, swaps bool) {
	n := len(qs)
	if swaps {
		for i := n/2 - 1; i >= 0; i-- {
			c.Swap(qs[i], qs[n-1-i])
		}
	}
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			c.CP(-math.Pi/float64(int(1)<<(j-k)), qs[j], qs[k])
		}
		c.H(qs[j])
	}
}

// ------------------------------------------------------------------
// Ansätze
// ------------------------------------------------------------------

// Entanglement layouts of the two-local ansatz.
const (
	entFull          = "full"
	entLinear        = "linear"
	entReverseLinear = "reverse_linear"
	entCircular      = "circular"
)

type twoLocal struct {
	rotations    []string
	entangler    string
	entanglement string
	reps         int
}

func realAmplitudes(reps int) twoLocal {
	return twoLocal{rotations: []string{"ry"}, entangler: "cx", entanglement: entReverseLinear, reps: reps}
}

func efficientSU2(reps int) twoLocal {
	return twoLocal{rotations: []string{"ry", "rz"}, entangler: "cx", entanglement: entReverseLinear, reps: reps}
}

// numParams is the number of rotation angles the ansatz consumes on n qubits.
func (t twoLocal) numParams(n int) int {
	return (t.reps + 1) * len(t.rotations) * n
}

func (t twoLocal) pairs(n int) [][2]int {
	var out [][2]int
	switch t.entanglement {
	case entFull:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				out = append(out, [2]int{i, j})
			}
		}
	case entLinear:
		for i := 0; i+1 < n; i++ {
			out = append(out, [2]int{i, i + 1})
		}
	case entReverseLinear:
		for i := n - 2; i >= 0; i-- {
			out = append(out, [2]int{i, i + 1})
		}
	case entCircular:
		if n > 2 {
			out = append(out, [2]int{n - 1, 0})
		}
		for i := 0; i+1 < n; i++ {
			out = append(out, [2]int{i, i + 1})
		}
	}
	return out
}

// apply lays the ansatz over qs, binding params in order.
func (t twoLocal) apply(c *circuit.Circuit, qs []circuit.Qubit, params []float64) error {
	n := len(qs)
	if len(params) != t.numParams(n) {
		return errors.Errorf("ansatz needs %d parameters, got %d", t.numParams(n), len(params))
	}
	next := 0
	rotate := func() {
		for _, gate := range t.rotations {
			for _, q := range qs {
				theta := params[next]
				next++
				switch gate {
				case "rx":
					c.RX(theta, q)
				case "ry":
					c.RY(theta, q)
				case "rz":
					c.RZ(theta, q)
				}
			}
		}
	}
	pairs := t.pairs(n)
	for r := 0; r < t.reps; r++ {
		rotate()
		for _, p := range pairs {
			switch t.entangler {
			case "cz":
				c.CZ(qs[p[0]], qs[p[1]])
			default:
				c.CX(qs[p[0]], qs[p[1]])
			}
		}
	}
	rotate()
	return nil
}

// appendZZFeatureMap encodes x into qs with second order Pauli-Z evolution
// over all qubit pairs.
func appendZZFeatureMap(c *circuit.Circuit, qs []circuit.Qubit, x []float64, reps int) {
	n := len(qs)
	for r := 0; r < reps; r++ {
		for i, q := range qs {
			c.H(q)
			c.P(2*x[i], q)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				c.CX(qs[i], qs[j])
				c.P(2*(math.Pi-x[i])*(math.Pi-x[j]), qs[j])
				c.CX(qs[i], qs[j])
			}
		}
	}
}

// ------------------------------------------------------------------
// Graphs
// ------------------------------------------------------------------

// randomRegularGraph returns the edges of a random d-regular simple graph on
// n nodes drawn with the pairing model. Graphs that cannot be d-regular
// fall back to the complete graph.
func randomRegularGraph(n, d int, seed uint64) [][2]int {
	if d >= n || n*d%2 != 0 {
		var edges [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				edges = append(edges, [2]int{i, j})
			}
		}
		return edges
	}
	rng := newRand(seed)
	for {
		if edges, ok := tryPairing(rng, n, d); ok {
			return edges
		}
	}
}

func tryPairing(rng *rand.Rand, n, d int) ([][2]int, bool) {
	stubs := make([]int, 0, n*d)
	for v := 0; v < n; v++ {
		for k := 0; k < d; k++ {
			stubs = append(stubs, v)
		}
	}
	rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })

	seen := make(map[[2]int]bool, len(stubs)/2)
	edges := make([][2]int, 0, len(stubs)/2)
	for i := 0; i < len(stubs); i += 2 {
		a, b := stubs[i], stubs[i+1]
		if a == b {
			return nil, false
		}
		if a > b {
			a, b = b, a
		}
		e := [2]int{a, b}
		if seen[e] {
			return nil, false
		}
		seen[e] = true
		edges = append(edges, e)
	}
	return edges, true
}

// ------------------------------------------------------------------
// Controlled bit flips
// ------------------------------------------------------------------

// flipOnPattern flips tgt when every qubit of ctrls holds the matching bit
// of pattern, bit i of pattern belonging to ctrls[i]. extra controls must
// all be |1>.
func flipOnPattern(c *circuit.Circuit, ctrls []circuit.Qubit, pattern int, extra []circuit.Qubit, tgt circuit.Qubit) {
	var zeros []circuit.Qubit
	for i, q := range ctrls {
		if pattern>>i&1 == 0 {
			zeros = append(zeros, q)
		}
	}
	for _, q := range zeros {
		c.X(q)
	}
	all := append(append([]circuit.Qubit{}, extra...), ctrls...)
	c.MCX(all, tgt)
	for _, q := range zeros {
		c.X(q)
	}
}
