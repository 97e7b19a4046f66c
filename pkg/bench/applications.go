package bench

import (
	"math"
	"math/rand/v2"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

// Optimizer based benchmarks bind their ansatz to seeded parameters: the
// gate structure is what the features measure.

func ansatzCircuit(name string, n int, a twoLocal, seed uint64) (*circuit.Circuit, error) {
	c := circuit.New(name, n)
	params := randomAngles(newRand(seed), a.numParams(n))
	if err := a.apply(c, c.Qubits(), params); err != nil {
		return nil, err
	}
	return c, c.MeasureAll()
}

func realAmpRandom(n int) (*circuit.Circuit, error) {
	return ansatzCircuit("realamprandom", n, realAmplitudes(3), seedDefault)
}

func su2Random(n int) (*circuit.Circuit, error) {
	return ansatzCircuit("su2random", n, efficientSU2(3), seedDefault)
}

func twoLocalRandom(n int) (*circuit.Circuit, error) {
	a := twoLocal{rotations: []string{"ry", "rz"}, entangler: "cz", entanglement: entFull, reps: 3}
	return ansatzCircuit("twolocalrandom", n, a, seedDefault)
}

// vqe is a RealAmplitudes ansatz trained for max-cut.
func vqe(n int) (*circuit.Circuit, error) {
	a := realAmplitudes(2)
	a.entanglement = entCircular
	return ansatzCircuit("vqe", n, a, seedMaxCut)
}

func portfolioVQE(n int) (*circuit.Circuit, error) {
	a := twoLocal{rotations: []string{"ry"}, entangler: "cz", entanglement: entFull, reps: 3}
	return ansatzCircuit("portfoliovqe", n, a, seedDefault)
}

// qnn feeds a ZZ feature map into a single layer RealAmplitudes network.
func qnn(n int) (*circuit.Circuit, error) {
	c := circuit.New("qnn", n)
	rng := newRand(seedDefault)
	inputs := make([]float64, n)
	for i := range inputs {
		inputs[i] = rng.Float64()
	}
	appendZZFeatureMap(c, c.Qubits(), inputs, 2)

	a := realAmplitudes(1)
	if err := a.apply(c, c.Qubits(), randomAngles(rng, a.numParams(n))); err != nil {
		return nil, err
	}
	return c, c.MeasureAll()
}

// groundState starts from the Hartree-Fock state with the lower half of the
// orbitals occupied.
func groundState(n int) (*circuit.Circuit, error) {
	c := circuit.New("groundstate", n)
	qs := c.Qubits()
	for _, q := range qs[:n/2] {
		c.X(q)
	}
	a := efficientSU2(2)
	a.entanglement = entLinear
	if err := a.apply(c, qs, randomAngles(newRand(seedDefault), a.numParams(n))); err != nil {
		return nil, err
	}
	return c, c.MeasureAll()
}

// routing solves vehicle routing for m nodes with one binary variable per
// directed edge, n = m(m-1).
func routing(n int) (*circuit.Circuit, error) {
	return ansatzCircuit("routing", n, realAmplitudes(3), seedDefault)
}

func acceptRouting(n int) error {
	for m := 3; m*(m-1) <= n; m++ {
		if m*(m-1) == n {
			return nil
		}
	}
	return errors.New("qubits must be m(m-1) for m nodes")
}

// tsp encodes a tour over k cities with k^2 binary variables.
func tsp(n int) (*circuit.Circuit, error) {
	return ansatzCircuit("tsp", n, realAmplitudes(2), seedDefault)
}

func acceptTSP(n int) error {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k*k != n || k < 3 {
		return errors.New("qubits must be a square of at least 3 cities")
	}
	return nil
}

// ------------------------------------------------------------------
// QAOA
// ------------------------------------------------------------------

// qaoaLayer is one cost and mixer application with angles gamma and beta.
type qaoaLayer struct{ gamma, beta float64 }

func qaoaLayers(rng *rand.Rand, reps int) []qaoaLayer {
	layers := make([]qaoaLayer, reps)
	for i := range layers {
		layers[i] = qaoaLayer{gamma: rng.Float64() * math.Pi, beta: rng.Float64() * math.Pi / 2}
	}
	return layers
}

// qaoa solves max-cut on a seeded random 2-regular graph.
func qaoa(n int) (*circuit.Circuit, error) {
	c := circuit.New("qaoa", n)
	qs := c.Qubits()
	edges := randomRegularGraph(n, 2, seedMaxCut)

	for _, q := range qs {
		c.H(q)
	}
	for _, l := range qaoaLayers(newRand(seedMaxCut), 2) {
		for _, e := range edges {
			c.RZZ(2*l.gamma, qs[e[0]], qs[e[1]])
		}
		for _, q := range qs {
			c.RX(2*l.beta, q)
		}
	}
	return c, c.MeasureAll()
}

// portfolioQAOA optimises a random mean-variance portfolio with a budget of
// half the assets.
func portfolioQAOA(n int) (*circuit.Circuit, error) {
	c := circuit.New("portfolioqaoa", n)
	qs := c.Qubits()
	rng := newRand(seedDefault)

	const risk = 0.5
	budget := float64(n / 2)
	penalty := float64(n)
	mu := make([]float64, n)
	sigma := make([][]float64, n)
	for i := range mu {
		mu[i] = rng.NormFloat64() * 0.01
		sigma[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rng.Float64() * 1e-4
			if i == j {
				v += 1e-4
			}
			sigma[i][j], sigma[j][i] = v, v
		}
	}

	// Ising coefficients of risk*x'Sx - mu'x + penalty*(sum x - budget)^2
	h := make([]float64, n)
	for i := 0; i < n; i++ {
		h[i] = mu[i]/2 - penalty*(float64(n)-2*budget)/2
		for j := 0; j < n; j++ {
			h[i] -= risk * sigma[i][j] / 2
		}
	}

	for _, q := range qs {
		c.H(q)
	}
	for _, l := range qaoaLayers(rng, 3) {
		for i, q := range qs {
			c.RZ(2*l.gamma*h[i], q)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				c.RZZ(2*l.gamma*(risk*sigma[i][j]/2+penalty/2), qs[i], qs[j])
			}
		}
		for _, q := range qs {
			c.RX(2*l.beta, q)
		}
	}
	return c, c.MeasureAll()
}

// ------------------------------------------------------------------
// Option pricing
// ------------------------------------------------------------------

// Log-normal model of the underlying at maturity.
const (
	optSpot       = 2.0
	optVolatility = 0.4
	optRate       = 0.05
	optMaturity   = 40.0 / 365
	optStrike     = 1.896
)

// lognormalGrid returns the discretised distribution over 2^bits points in
// mean +- 3 standard deviations and the grid itself.
func lognormalGrid(bits int) (probs, grid []float64) {
	m := (optRate-0.5*optVolatility*optVolatility)*optMaturity + math.Log(optSpot)
	s := optVolatility * math.Sqrt(optMaturity)
	mean := math.Exp(m + s*s/2)
	stddev := math.Sqrt((math.Exp(s*s) - 1) * math.Exp(2*m+s*s))
	low := math.Max(0, mean-3*stddev)
	high := mean + 3*stddev

	size := 1 << bits
	probs = make([]float64, size)
	grid = make([]float64, size)
	total := 0.0
	for i := range grid {
		x := low + (high-low)*float64(i)/float64(size-1)
		grid[i] = x
		if x > 0 {
			z := (math.Log(x) - m) / s
			probs[i] = math.Exp(-z*z/2) / (x * s * math.Sqrt(2*math.Pi))
		}
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, grid
}

// appendStatePrep loads probs into qs with one multi-controlled RY per
// prefix of the binary tree, qs[0] being the most significant bit.
func appendStatePrep(c *circuit.Circuit, qs []circuit.Qubit, probs []float64) {
	bits := len(qs)
	for level := 0; level < bits; level++ {
		span := 1 << (bits - level)
		for prefix := 0; prefix < 1<<level; prefix++ {
			block := probs[prefix*span : (prefix+1)*span]
			total, left := 0.0, 0.0
			for i, p := range block {
				total += p
				if i < span/2 {
					left += p
				}
			}
			if total == 0 {
				continue
			}
			theta := 2 * math.Acos(math.Sqrt(left/total))
			if level == 0 {
				c.RY(theta, qs[0])
				continue
			}
			// controls are the prefix bits, most significant first
			ctrls := qs[:level]
			var zeros []circuit.Qubit
			for j := range ctrls {
				if prefix>>(level-1-j)&1 == 0 {
					zeros = append(zeros, ctrls[j])
				}
			}
			for _, q := range zeros {
				c.X(q)
			}
			c.MCRY(theta, ctrls, qs[level])
			for _, q := range zeros {
				c.X(q)
			}
		}
	}
}

// pricing loads the distribution on n-1 qubits and rotates the objective
// qubit by a linear approximation of the payoff.
func pricing(name string, n int, call bool) (*circuit.Circuit, error) {
	c := circuit.New(name, n)
	qs := c.Qubits()
	uncertainty, obj := qs[:n-1], qs[n-1]
	probs, grid := lognormalGrid(len(uncertainty))
	appendStatePrep(c, uncertainty, probs)

	low, high := grid[0], grid[len(grid)-1]
	maxPayoff := math.Max(high-optStrike, optStrike-low)
	const scaling = 0.25
	// payoff slope per grid step, normalised to the largest payoff
	step := (high - low) / float64(len(grid)-1) / maxPayoff
	offset := -scaling
	slope := 2 * scaling * step
	if !call {
		offset = scaling
		slope = -slope
	}
	c.RY(2*(offset+math.Pi/4), obj)
	bits := len(uncertainty)
	for i, q := range uncertainty {
		c.CRY(2*slope*float64(int(1)<<(bits-1-i)), q, obj)
	}
	return c, c.MeasureAll()
}

func pricingCall(n int) (*circuit.Circuit, error) { return pricing("pricingcall", n, true) }
func pricingPut(n int) (*circuit.Circuit, error)  { return pricing("pricingput", n, false) }
