package bench

import (
	"math"

	"github.com/perclft/qbench/pkg/circuit"
)

// ------------------------------------------------------------------
// Amplitude estimation
// ------------------------------------------------------------------

// aeProbability is the success probability of the estimated Bernoulli A.
const aeProbability = 0.2

// amplitudeEstimation estimates the amplitude of a single-qubit Bernoulli
// operator with n-1 evaluation qubits. Powers of the Grover operator of a
// Bernoulli A are plain RY rotations.
func amplitudeEstimation(n int) (*circuit.Circuit, error) {
	c := circuit.New("ae", n)
	qs := c.Qubits()
	eval, obj := qs[:n-1], qs[n-1]
	thetaP := 2 * math.Asin(math.Sqrt(aeProbability))

	for _, q := range eval {
		c.H(q)
	}
	c.RY(thetaP, obj)
	for j, q := range eval {
		c.CRY(float64(int(1)<<j)*2*thetaP, q, obj)
	}
	appendInverseQFT(c, eval, false)
	return c, c.MeasureInto("meas", eval)
}

// ------------------------------------------------------------------
// Deutsch-Jozsa
// ------------------------------------------------------------------

// deutschJozsa runs DJ on n-1 inputs against a random balanced oracle.
func deutschJozsa(n int) (*circuit.Circuit, error) {
	c := circuit.New("dj", n)
	qs := c.Qubits()
	inputs, out := qs[:n-1], qs[n-1]
	rng := newRand(seedDefault)

	mask := make([]bool, len(inputs))
	for i := range mask {
		mask[i] = rng.IntN(2) == 1
	}

	c.X(out)
	c.H(out)
	for _, q := range inputs {
		c.H(q)
	}
	c.Barrier()
	for i, q := range inputs {
		if mask[i] {
			c.X(q)
		}
	}
	for _, q := range inputs {
		c.CX(q, out)
	}
	for i, q := range inputs {
		if mask[i] {
			c.X(q)
		}
	}
	c.Barrier()
	for _, q := range inputs {
		c.H(q)
	}
	return c, c.MeasureInto("c", inputs)
}

// ------------------------------------------------------------------
// Entangled states
// ------------------------------------------------------------------

func ghz(n int) (*circuit.Circuit, error) {
	c := circuit.New("ghz", n)
	appendGHZ(c, c.Qubits())
	return c, c.MeasureAll()
}

func appendGHZ(c *circuit.Circuit, qs []circuit.Qubit) {
	n := len(qs)
	c.H(qs[n-1])
	for i := n - 1; i > 0; i-- {
		c.CX(qs[i], qs[i-1])
	}
}

func graphState(n int) (*circuit.Circuit, error) {
	c := circuit.New("graphstate", n)
	qs := c.Qubits()
	for _, q := range qs {
		c.H(q)
	}
	for _, e := range randomRegularGraph(n, 2, seedDefault) {
		c.CZ(qs[e[0]], qs[e[1]])
	}
	return c, c.MeasureAll()
}

// wState prepares the equal superposition of all weight-one basis states.
func wState(n int) (*circuit.Circuit, error) {
	c := circuit.New("wstate", n)
	qs := c.Qubits()
	c.X(qs[n-1])
	for i := 1; i < n; i++ {
		theta := math.Acos(math.Sqrt(1 / float64(n-i+1)))
		ctrl, tgt := qs[n-i], qs[n-i-1]
		c.RY(-theta, tgt)
		c.CZ(ctrl, tgt)
		c.RY(theta, tgt)
	}
	for i := n - 1; i > 0; i-- {
		c.CX(qs[i-1], qs[i])
	}
	return c, c.MeasureAll()
}

// ------------------------------------------------------------------
// Fourier based
// ------------------------------------------------------------------

func qft(n int) (*circuit.Circuit, error) {
	c := circuit.New("qft", n)
	appendQFT(c, c.Qubits(), true)
	return c, c.MeasureAll()
}

func qftEntangled(n int) (*circuit.Circuit, error) {
	c := circuit.New("qftentangled", n)
	appendGHZ(c, c.Qubits())
	appendQFT(c, c.Qubits(), true)
	return c, c.MeasureAll()
}

// phaseEstimation estimates the phase theta of a P gate with n-1 counting
// qubits.
func phaseEstimation(name string, n int, theta float64) (*circuit.Circuit, error) {
	c := circuit.New(name, n)
	qs := c.Qubits()
	counting, psi := qs[:n-1], qs[n-1]
	lambda := 2 * math.Pi * theta

	for _, q := range counting {
		c.H(q)
	}
	c.X(psi)
	for j, q := range counting {
		c.CP(math.Ldexp(lambda, j), q, psi)
	}
	appendInverseQFT(c, counting, true)
	c.Barrier()
	return c, c.MeasureInto("c", counting)
}

// qpeExact picks a phase representable with the n-1 counting bits.
func qpeExact(n int) (*circuit.Circuit, error) {
	bits := n - 1
	rng := newRand(seedDefault)
	k := rng.Uint64N(uint64(1)<<bits-1) + 1
	return phaseEstimation("qpeexact", n, math.Ldexp(float64(k), -bits))
}

// qpeInexact picks a phase needing one bit more than the counting register.
func qpeInexact(n int) (*circuit.Circuit, error) {
	bits := n
	rng := newRand(seedDefault)
	k := rng.Uint64N(uint64(1)<<(bits-1))<<1 | 1
	return phaseEstimation("qpeinexact", n, math.Ldexp(float64(k), -bits))
}

// ------------------------------------------------------------------
// Grover
// ------------------------------------------------------------------

// grover searches the all-ones state of n-1 qubits; the last qubit is the
// phase flag. With ancillas the multi-controlled gates use a v-chain.
func grover(name string, n int, vchain bool) (*circuit.Circuit, error) {
	c := circuit.New(name, n)
	qs := c.Qubits()
	search, flag := qs[:n-1], qs[n-1]

	mcx := c.MCX
	if vchain && n > 3 {
		anc, err := c.AddQuantumRegister("anc", n-3)
		if err != nil {
			return nil, err
		}
		ancillas := anc.Qubits()
		mcx = func(ctrls []circuit.Qubit, tgt circuit.Qubit) { c.MCXVChain(ctrls, tgt, ancillas) }
	}

	c.X(flag)
	c.H(flag)
	for _, q := range search {
		c.H(q)
	}

	m := len(search)
	iterations := max(1, int(math.Floor(math.Pi/4*math.Sqrt(float64(int(1)<<m)))))
	last := search[m-1]
	for it := 0; it < iterations; it++ {
		mcx(search, flag)
		for _, q := range search {
			c.H(q)
			c.X(q)
		}
		c.H(last)
		if m > 1 {
			mcx(search[:m-1], last)
		} else {
			c.Z(last)
		}
		c.H(last)
		for _, q := range search {
			c.X(q)
			c.H(q)
		}
	}
	return c, c.MeasureInto("c", search)
}

func groverNoAncilla(n int) (*circuit.Circuit, error) { return grover("grover-noancilla", n, false) }
func groverVChain(n int) (*circuit.Circuit, error)    { return grover("grover-v-chain", n, true) }

// ------------------------------------------------------------------
// Quantum walk
// ------------------------------------------------------------------

const qwalkSteps = 3

// qwalk walks a cycle of 2^(n-1) nodes for a few steps; the last qubit is
// the coin.
func qwalk(name string, n int, vchain bool) (*circuit.Circuit, error) {
	c := circuit.New(name, n)
	qs := c.Qubits()
	node, coin := qs[:n-1], qs[n-1]

	mcx := c.MCX
	if vchain && n > 3 {
		anc, err := c.AddQuantumRegister("anc", n-3)
		if err != nil {
			return nil, err
		}
		ancillas := anc.Qubits()
		mcx = func(ctrls []circuit.Qubit, tgt circuit.Qubit) { c.MCXVChain(ctrls, tgt, ancillas) }
	}

	increment := func() {
		for i := len(node) - 1; i >= 0; i-- {
			ctrls := append([]circuit.Qubit{coin}, node[:i]...)
			mcx(ctrls, node[i])
		}
	}
	for step := 0; step < qwalkSteps; step++ {
		c.H(coin)
		increment()
		// decrement is increment conjugated by X on the node and coin
		c.X(coin)
		for _, q := range node {
			c.X(q)
		}
		increment()
		for _, q := range node {
			c.X(q)
		}
		c.X(coin)
	}
	return c, c.MeasureInto("c", node)
}

func qwalkNoAncilla(n int) (*circuit.Circuit, error) { return qwalk("qwalk-noancilla", n, false) }
func qwalkVChain(n int) (*circuit.Circuit, error)    { return qwalk("qwalk-v-chain", n, true) }

// ------------------------------------------------------------------
// Random circuit
// ------------------------------------------------------------------

var (
	randomOneQubit = []string{"h", "x", "y", "z", "s", "sdg", "t", "tdg", "sx", "rx", "ry", "rz"}
	randomTwoQubit = []string{"cx", "cz", "swap", "cp", "rzz"}
)

// randomCircuit lays 2n random layers; each layer covers every qubit with
// one- and two-qubit gates.
func randomCircuit(n int) (*circuit.Circuit, error) {
	c := circuit.New("random", n)
	qs := c.Qubits()
	rng := newRand(seedDefault)

	for layer := 0; layer < 2*n; layer++ {
		order := rng.Perm(n)
		for i := 0; i < n; {
			if i+1 < n && rng.IntN(2) == 1 {
				a, b := qs[order[i]], qs[order[i+1]]
				theta := rng.Float64() * 2 * math.Pi
				switch randomTwoQubit[rng.IntN(len(randomTwoQubit))] {
				case "cx":
					c.CX(a, b)
				case "cz":
					c.CZ(a, b)
				case "swap":
					c.Swap(a, b)
				case "cp":
					c.CP(theta, a, b)
				case "rzz":
					c.RZZ(theta, a, b)
				}
				i += 2
				continue
			}
			q := qs[order[i]]
			theta := rng.Float64() * 2 * math.Pi
			switch randomOneQubit[rng.IntN(len(randomOneQubit))] {
			case "h":
				c.H(q)
			case "x":
				c.X(q)
			case "y":
				c.Y(q)
			case "z":
				c.Z(q)
			case "s":
				c.S(q)
			case "sdg":
				c.Sdg(q)
			case "t":
				c.T(q)
			case "tdg":
				c.Tdg(q)
			case "sx":
				c.SX(q)
			case "rx":
				c.RX(theta, q)
			case "ry":
				c.RY(theta, q)
			case "rz":
				c.RZ(theta, q)
			}
			i++
		}
	}
	return c, c.MeasureAll()
}
