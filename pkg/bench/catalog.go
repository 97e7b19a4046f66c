// Package bench holds the benchmark catalog, the circuit generators behind
// it and the helpers that name, write and sweep generated files.
package bench

import (
	"slices"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

var (
	ErrUnknownBenchmark = errors.New("unknown benchmark")
	ErrQubitRange       = errors.New("unsupported number of qubits")
	ErrUnknownLevel     = errors.New("unknown abstraction level")
	ErrUnknownCompiler  = errors.New("unknown compiler")
)

// Logical modules grouping the application benchmarks.
const (
	NamespaceFinance      = "finance"
	NamespaceML           = "ml"
	NamespaceNature       = "nature"
	NamespaceOptimization = "optimization"
)

// Generator builds the circuit of one benchmark for n qubits. n has already
// been checked against the benchmark's range.
type Generator func(n int) (*circuit.Circuit, error)

// Benchmark is one catalog entry.
type Benchmark struct {
	Name      string
	Namespace string
	MinQubits int
	MaxQubits int

	// Optional shape constraint beyond the range, such as perfect squares.
	Accept func(n int) error

	generate Generator
}

// Check validates n for this benchmark.
func (b Benchmark) Check(n int) error {
	if n < b.MinQubits || n > b.MaxQubits {
		return errors.Wrapf(ErrQubitRange, "%s supports %d to %d qubits, got %d", b.Name, b.MinQubits, b.MaxQubits, n)
	}
	if b.Accept != nil {
		if err := b.Accept(n); err != nil {
			return errors.Wrapf(ErrQubitRange, "%s: %v", b.Name, err)
		}
	}
	return nil
}

// Generate builds the benchmark circuit for n qubits.
func (b Benchmark) Generate(n int) (*circuit.Circuit, error) {
	if err := b.Check(n); err != nil {
		return nil, err
	}
	c, err := b.generate(n)
	if err != nil {
		return nil, errors.Wrapf(err, "generate %s with %d qubits", b.Name, n)
	}
	c.Name = b.Name
	return c, nil
}

// QubitCounts lists every qubit count the benchmark accepts.
func (b Benchmark) QubitCounts() []int {
	var counts []int
	for n := b.MinQubits; n <= b.MaxQubits; n++ {
		if b.Check(n) == nil {
			counts = append(counts, n)
		}
	}
	return counts
}

// catalog is kept in the published benchmark order.
var catalog = []Benchmark{
	{Name: "ae", MinQubits: 2, MaxQubits: 24, generate: amplitudeEstimation},
	{Name: "dj", MinQubits: 2, MaxQubits: 64, generate: deutschJozsa},
	{Name: "grover-noancilla", MinQubits: 2, MaxQubits: 10, generate: groverNoAncilla},
	{Name: "grover-v-chain", MinQubits: 2, MaxQubits: 16, generate: groverVChain},
	{Name: "ghz", MinQubits: 2, MaxQubits: 128, generate: ghz},
	{Name: "graphstate", MinQubits: 3, MaxQubits: 128, generate: graphState},
	{Name: "portfolioqaoa", Namespace: NamespaceFinance, MinQubits: 2, MaxQubits: 24, generate: portfolioQAOA},
	{Name: "portfoliovqe", Namespace: NamespaceFinance, MinQubits: 2, MaxQubits: 24, generate: portfolioVQE},
	{Name: "qaoa", MinQubits: 3, MaxQubits: 64, generate: qaoa},
	{Name: "qft", MinQubits: 2, MaxQubits: 64, generate: qft},
	{Name: "qftentangled", MinQubits: 2, MaxQubits: 64, generate: qftEntangled},
	{Name: "qnn", Namespace: NamespaceML, MinQubits: 2, MaxQubits: 32, generate: qnn},
	{Name: "qpeexact", MinQubits: 2, MaxQubits: 64, generate: qpeExact},
	{Name: "qpeinexact", MinQubits: 2, MaxQubits: 64, generate: qpeInexact},
	{Name: "qwalk-noancilla", MinQubits: 3, MaxQubits: 10, generate: qwalkNoAncilla},
	{Name: "qwalk-v-chain", MinQubits: 3, MaxQubits: 20, generate: qwalkVChain},
	{Name: "random", MinQubits: 2, MaxQubits: 64, generate: randomCircuit},
	{Name: "realamprandom", MinQubits: 2, MaxQubits: 64, generate: realAmpRandom},
	{Name: "su2random", MinQubits: 2, MaxQubits: 64, generate: su2Random},
	{Name: "twolocalrandom", MinQubits: 2, MaxQubits: 64, generate: twoLocalRandom},
	{Name: "vqe", MinQubits: 3, MaxQubits: 32, generate: vqe},
	{Name: "wstate", MinQubits: 2, MaxQubits: 128, generate: wState},
	{Name: "shor", MinQubits: 9, MaxQubits: 15, Accept: acceptShor, generate: shor},
	{Name: "pricingcall", Namespace: NamespaceFinance, MinQubits: 3, MaxQubits: 10, generate: pricingCall},
	{Name: "pricingput", Namespace: NamespaceFinance, MinQubits: 3, MaxQubits: 10, generate: pricingPut},
	{Name: "groundstate", Namespace: NamespaceNature, MinQubits: 2, MaxQubits: 32, generate: groundState},
	{Name: "routing", Namespace: NamespaceOptimization, MinQubits: 6, MaxQubits: 56, Accept: acceptRouting, generate: routing},
	{Name: "tsp", Namespace: NamespaceOptimization, MinQubits: 9, MaxQubits: 64, Accept: acceptTSP, generate: tsp},
}

var byName = func() map[string]Benchmark {
	m := make(map[string]Benchmark, len(catalog))
	for _, b := range catalog {
		m[b.Name] = b
	}
	return m
}()

// SupportedBenchmarks returns the benchmark names in catalog order.
func SupportedBenchmarks() []string {
	names := make([]string, len(catalog))
	for i, b := range catalog {
		names[i] = b.Name
	}
	return names
}

// SupportedLevels returns the abstraction levels; the digits are the
// optimization levels of compiled benchmarks.
func SupportedLevels() []string {
	return []string{LevelAlg, LevelIndep, LevelNativeGates, LevelMapped, "0", "1", "2", "3"}
}

func SupportedCompilers() []string {
	return []string{"qiskit", "tket"}
}

// OpenQASMGates returns the gates of the OpenQASM 2.0 standard header.
func OpenQASMGates() []string {
	return circuit.QELibGates()
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Benchmark, error) {
	b, ok := byName[name]
	if !ok {
		return Benchmark{}, errors.Wrap(ErrUnknownBenchmark, name)
	}
	return b, nil
}

// Namespace returns the logical module of a benchmark: an application area
// for the application benchmarks, the benchmark itself otherwise.
func Namespace(name string) (string, error) {
	b, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if b.Namespace == "" {
		return b.Name, nil
	}
	return b.Namespace, nil
}

// Generate builds the named benchmark for n qubits.
func Generate(name string, n int) (*circuit.Circuit, error) {
	b, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Generate(n)
}

func checkCompiler(compiler string) error {
	if !slices.Contains(SupportedCompilers(), compiler) {
		return errors.Wrap(ErrUnknownCompiler, compiler)
	}
	return nil
}
