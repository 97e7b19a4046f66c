package circuit

import (
	"math"
)

// ------------------------------------------------------------------
// Single-qubit gates
// ------------------------------------------------------------------

func (c *Circuit) ID(q Qubit)  { c.apply("id", nil, q) }
func (c *Circuit) X(q Qubit)   { c.apply("x", nil, q) }
func (c *Circuit) Y(q Qubit)   { c.apply("y", nil, q) }
func (c *Circuit) Z(q Qubit)   { c.apply("z", nil, q) }
func (c *Circuit) H(q Qubit)   { c.apply("h", nil, q) }
func (c *Circuit) S(q Qubit)   { c.apply("s", nil, q) }
func (c *Circuit) Sdg(q Qubit) { c.apply("sdg", nil, q) }
func (c *Circuit) T(q Qubit)   { c.apply("t", nil, q) }
func (c *Circuit) Tdg(q Qubit) { c.apply("tdg", nil, q) }
func (c *Circuit) SX(q Qubit)  { c.apply("sx", nil, q) }

func (c *Circuit) RX(theta float64, q Qubit) { c.apply("rx", []float64{theta}, q) }
func (c *Circuit) RY(theta float64, q Qubit) { c.apply("ry", []float64{theta}, q) }
func (c *Circuit) RZ(phi float64, q Qubit)   { c.apply("rz", []float64{phi}, q) }
func (c *Circuit) P(lambda float64, q Qubit) { c.apply("p", []float64{lambda}, q) }
func (c *Circuit) U(theta, phi, lambda float64, q Qubit) {
	c.apply("u", []float64{theta, phi, lambda}, q)
}

// ------------------------------------------------------------------
// Multi-qubit gates
// ------------------------------------------------------------------

func (c *Circuit) CX(ctrl, tgt Qubit)     { c.apply("cx", nil, ctrl, tgt) }
func (c *Circuit) CY(ctrl, tgt Qubit)     { c.apply("cy", nil, ctrl, tgt) }
func (c *Circuit) CZ(ctrl, tgt Qubit)     { c.apply("cz", nil, ctrl, tgt) }
func (c *Circuit) CH(ctrl, tgt Qubit)     { c.apply("ch", nil, ctrl, tgt) }
func (c *Circuit) Swap(a, b Qubit)        { c.apply("swap", nil, a, b) }
func (c *Circuit) ECR(a, b Qubit)         { c.apply("ecr", nil, a, b) }
func (c *Circuit) CCX(c1, c2, t Qubit)    { c.apply("ccx", nil, c1, c2, t) }
func (c *Circuit) CSwap(ctrl, a, b Qubit) { c.apply("cswap", nil, ctrl, a, b) }

func (c *Circuit) CP(lambda float64, ctrl, tgt Qubit)  { c.apply("cp", []float64{lambda}, ctrl, tgt) }
func (c *Circuit) CRY(theta float64, ctrl, tgt Qubit)  { c.apply("cry", []float64{theta}, ctrl, tgt) }
func (c *Circuit) CRZ(theta float64, ctrl, tgt Qubit)  { c.apply("crz", []float64{theta}, ctrl, tgt) }
func (c *Circuit) CU1(lambda float64, ctrl, tgt Qubit) { c.apply("cu1", []float64{lambda}, ctrl, tgt) }
func (c *Circuit) RZZ(theta float64, a, b Qubit)       { c.apply("rzz", []float64{theta}, a, b) }
func (c *Circuit) RXX(theta float64, a, b Qubit)       { c.apply("rxx", []float64{theta}, a, b) }
func (c *Circuit) RZX(theta float64, a, b Qubit)       { c.apply("rzx", []float64{theta}, a, b) }

// MCX applies X to tgt controlled on every qubit in ctrls. Up to four
// controls map onto the qelib1 gates; larger gates are decomposed without
// ancillas through a gray-code multi-controlled phase.
func (c *Circuit) MCX(ctrls []Qubit, tgt Qubit) {
	switch len(ctrls) {
	case 0:
		c.X(tgt)
	case 1:
		c.CX(ctrls[0], tgt)
	case 2:
		c.CCX(ctrls[0], ctrls[1], tgt)
	case 3:
		c.apply("c3x", nil, ctrls[0], ctrls[1], ctrls[2], tgt)
	case 4:
		c.apply("c4x", nil, ctrls[0], ctrls[1], ctrls[2], ctrls[3], tgt)
	default:
		c.H(tgt)
		c.MCPhase(math.Pi, ctrls, tgt)
		c.H(tgt)
	}
}

// MCXVChain applies a multi-controlled X using a chain of Toffolis over
// len(ctrls)-2 clean ancillas, which are returned to |0>.
func (c *Circuit) MCXVChain(ctrls []Qubit, tgt Qubit, anc []Qubit) {
	k := len(ctrls)
	if k <= 2 {
		c.MCX(ctrls, tgt)
		return
	}
	if len(anc) < k-2 {
		panic("circuit: v-chain needs len(ctrls)-2 ancillas")
	}
	c.CCX(ctrls[0], ctrls[1], anc[0])
	for i := 2; i < k-1; i++ {
		c.CCX(ctrls[i], anc[i-2], anc[i-1])
	}
	c.CCX(ctrls[k-1], anc[k-3], tgt)
	for i := k - 2; i >= 2; i-- {
		c.CCX(ctrls[i], anc[i-2], anc[i-1])
	}
	c.CCX(ctrls[0], ctrls[1], anc[0])
}

// MCPhase applies a phase lambda to the state where every control and the
// target are |1>. The decomposition walks the gray code over the controls,
// keeping the running parity on the leading control.
func (c *Circuit) MCPhase(lambda float64, ctrls []Qubit, tgt Qubit) {
	n := len(ctrls)
	switch n {
	case 0:
		c.P(lambda, tgt)
		return
	case 1:
		c.CP(lambda, ctrls[0], tgt)
		return
	}
	// bit j of a pattern is control j, most significant first
	bit := func(p, j int) bool { return (p>>(n-1-j))&1 == 1 }
	first := func(p int) int {
		for j := 0; j < n; j++ {
			if bit(p, j) {
				return j
			}
		}
		return -1
	}
	scaled := lambda / float64(int(1)<<(n-1))
	last := -1
	for i := 1; i < 1<<n; i++ {
		pattern := i ^ (i >> 1)
		if last < 0 {
			last = pattern
		}
		lm := first(pattern)
		if pos := first(pattern ^ last); pos >= 0 {
			if pos != lm {
				c.CX(ctrls[pos], ctrls[lm])
			} else {
				for j := lm + 1; j < n; j++ {
					if bit(pattern, j) {
						c.CX(ctrls[j], ctrls[lm])
					}
				}
			}
		}
		ones := 0
		for j := 0; j < n; j++ {
			if bit(pattern, j) {
				ones++
			}
		}
		if ones%2 == 0 {
			c.CU1(-scaled, ctrls[lm], tgt)
		} else {
			c.CU1(scaled, ctrls[lm], tgt)
		}
		last = pattern
	}
}

// MCRY applies RY(theta) to tgt controlled on ctrls, using two
// multi-controlled X gates around half rotations.
func (c *Circuit) MCRY(theta float64, ctrls []Qubit, tgt Qubit) {
	switch len(ctrls) {
	case 0:
		c.RY(theta, tgt)
	case 1:
		c.CRY(theta, ctrls[0], tgt)
	default:
		c.RY(theta/2, tgt)
		c.MCX(ctrls, tgt)
		c.RY(-theta/2, tgt)
		c.MCX(ctrls, tgt)
	}
}

// ------------------------------------------------------------------
// Directives
// ------------------------------------------------------------------

// Barrier places a barrier over qs, or over every qubit when qs is empty.
func (c *Circuit) Barrier(qs ...Qubit) {
	if len(qs) == 0 {
		qs = c.Qubits()
	}
	c.apply(OpBarrier, nil, qs...)
}

// Measure records q into b.
func (c *Circuit) Measure(q Qubit, b Clbit) error {
	return c.Append(Instruction{Name: OpMeasure, Qubits: []Qubit{q}, Clbits: []Clbit{b}})
}

// MeasureAll adds a classical register "meas" sized to the circuit, a
// barrier across all qubits and one measurement per qubit.
func (c *Circuit) MeasureAll() error {
	creg, err := c.AddClassicalRegister("meas", c.NumQubits())
	if err != nil {
		return err
	}
	c.Barrier()
	for i, q := range c.Qubits() {
		if err := c.Measure(q, creg.Clbit(i)); err != nil {
			return err
		}
	}
	return nil
}

// MeasureInto measures qs into a fresh classical register named name.
func (c *Circuit) MeasureInto(name string, qs []Qubit) error {
	creg, err := c.AddClassicalRegister(name, len(qs))
	if err != nil {
		return err
	}
	for i, q := range qs {
		if err := c.Measure(q, creg.Clbit(i)); err != nil {
			return err
		}
	}
	return nil
}
