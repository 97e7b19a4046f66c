package bench

import (
	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

// shorInstance is a number to factor and the base of its order finding.
type shorInstance struct {
	n    int // modulus
	base int
}

// Keyed by work register width; the circuit uses three times as many qubits.
var shorInstances = map[int]shorInstance{
	3: {n: 6, base: 5},
	4: {n: 15, base: 2},
	5: {n: 21, base: 2},
}

func acceptShor(n int) error {
	if _, ok := shorInstances[n/3]; !ok || n%3 != 0 {
		return errors.New("qubits must be 9, 12 or 15")
	}
	return nil
}

// shor finds the order of base modulo the instance's number with 2m counting
// qubits and an m qubit work register.
func shor(n int) (*circuit.Circuit, error) {
	m := n / 3
	inst := shorInstances[m]

	c := circuit.New("shor", 2*m)
	work, err := c.AddQuantumRegister("w", m)
	if err != nil {
		return nil, err
	}
	counting := c.QRegs[0].Qubits()
	w := work.Qubits()

	for _, q := range counting {
		c.H(q)
	}
	c.X(w[0])

	factor := inst.base % inst.n
	for _, ctrl := range counting {
		if factor != 1 {
			appendControlledModMul(c, ctrl, w, factor, inst.n)
		}
		factor = factor * factor % inst.n
	}

	appendInverseQFT(c, counting, true)
	return c, c.MeasureInto("c", counting)
}

// appendControlledModMul maps |x> to |factor*x mod modulus> for x below
// the modulus when ctrl is set. The permutation is written as transpositions
// along its cycles.
func appendControlledModMul(c *circuit.Circuit, ctrl circuit.Qubit, w []circuit.Qubit, factor, modulus int) {
	seen := make([]bool, modulus)
	for start := 0; start < modulus; start++ {
		if seen[start] {
			continue
		}
		var cycle []int
		for x := start; !seen[x]; x = factor * x % modulus {
			seen[x] = true
			cycle = append(cycle, x)
		}
		for i := len(cycle) - 2; i >= 0; i-- {
			appendControlledTransposition(c, ctrl, w, cycle[i], cycle[i+1])
		}
	}
}

// appendControlledTransposition swaps basis states u and v of w when ctrl
// is set, walking the bits that differ between them.
func appendControlledTransposition(c *circuit.Circuit, ctrl circuit.Qubit, w []circuit.Qubit, u, v int) {
	var diff []int
	for b := range w {
		if (u^v)>>b&1 == 1 {
			diff = append(diff, b)
		}
	}
	flip := func(state, bit int) {
		var others []circuit.Qubit
		pattern := 0
		for b, q := range w {
			if b == bit {
				continue
			}
			if state>>b&1 == 1 {
				pattern |= 1 << len(others)
			}
			others = append(others, q)
		}
		flipOnPattern(c, others, pattern, []circuit.Qubit{ctrl}, w[bit])
	}

	states := []int{u}
	for _, b := range diff {
		states = append(states, states[len(states)-1]^(1<<b))
	}
	k := len(diff)
	for i := 0; i < k; i++ {
		flip(states[i], diff[i])
	}
	for i := k - 2; i >= 0; i-- {
		flip(states[i], diff[i])
	}
}
