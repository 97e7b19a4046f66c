// Hardware Backend Abstraction Layer
// Providers, devices and calibration data for IBM, IonQ, OQC, Rigetti and
// Quantinuum targets. Devices describe the native gate set and coupling map
// a compiled benchmark is written against.

package backends

import (
	"fmt"
	"sort"
	"time"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
)

// ------------------------------------------------------------------
// Unified Provider Interface
// ------------------------------------------------------------------

type Provider interface {
	Name() string

	// Native gates of the provider, including measure and barrier
	NativeGates() []string

	DeviceNames() []string
	MaxQubits() int

	// Build the device description for one of DeviceNames
	Device(name string) (*Device, error)
}

var (
	ErrUnknownDevice   = errors.New("unknown device")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrNotAvailable    = errors.New("values not available")
)

// ------------------------------------------------------------------
// Device
// ------------------------------------------------------------------

type Device struct {
	Name        string       `json:"name"`
	NumQubits   int          `json:"num_qubits"`
	BasisGates  []string     `json:"basis_gates"`
	CouplingMap [][2]int     `json:"coupling_map"`
	Calibration *Calibration `json:"calibration,omitempty"`
}

type Calibration struct {
	LastUpdate              time.Time                     `json:"last_update"`
	SingleQubitGateFidelity map[int]map[string]float64    `json:"single_qubit_gate_fidelity"`
	SingleQubitGateDuration map[int]map[string]float64    `json:"single_qubit_gate_duration"`
	TwoQubitGateFidelity    map[[2]int]map[string]float64 `json:"-"`
	TwoQubitGateDuration    map[[2]int]map[string]float64 `json:"-"`
	ReadoutFidelity         map[int]float64               `json:"readout_fidelity"`
	ReadoutDuration         map[int]float64               `json:"readout_duration"`
	T1                      map[int]float64               `json:"t1"` // μs
	T2                      map[int]float64               `json:"t2"` // μs
}

func NewCalibration() *Calibration {
	return &Calibration{
		LastUpdate:              time.Now(),
		SingleQubitGateFidelity: make(map[int]map[string]float64),
		SingleQubitGateDuration: make(map[int]map[string]float64),
		TwoQubitGateFidelity:    make(map[[2]int]map[string]float64),
		TwoQubitGateDuration:    make(map[[2]int]map[string]float64),
		ReadoutFidelity:         make(map[int]float64),
		ReadoutDuration:         make(map[int]float64),
		T1:                      make(map[int]float64),
		T2:                      make(map[int]float64),
	}
}

// SingleQubitGates returns the one-qubit basis gates of the device.
func (d *Device) SingleQubitGates() []string { return d.gatesOfArity(1) }

// TwoQubitGates returns the two-qubit basis gates of the device.
func (d *Device) TwoQubitGates() []string { return d.gatesOfArity(2) }

func (d *Device) gatesOfArity(n int) []string {
	var gates []string
	for _, g := range d.BasisGates {
		if g == circuit.OpMeasure || g == circuit.OpBarrier {
			continue
		}
		if spec, ok := circuit.LookupGate(g); ok && spec.Qubits == n {
			gates = append(gates, g)
		}
	}
	return gates
}

// Edges returns the coupling map as a set of directed pairs.
func (d *Device) Edges() map[[2]int]bool {
	edges := make(map[[2]int]bool, len(d.CouplingMap))
	for _, e := range d.CouplingMap {
		edges[e] = true
	}
	return edges
}

func (d *Device) checkQubit(q int) error {
	if q < 0 || q >= d.NumQubits {
		return errors.Errorf("%s: qubit %d out of range", d.Name, q)
	}
	return nil
}

func (d *Device) ReadoutFidelity(q int) (float64, error) {
	if err := d.checkQubit(q); err != nil {
		return 0, err
	}
	if d.Calibration == nil || len(d.Calibration.ReadoutFidelity) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Readout fidelity values not available.")
	}
	return lookup1(d.Calibration.ReadoutFidelity, q, "readout fidelity")
}

func (d *Device) ReadoutDuration(q int) (float64, error) {
	if err := d.checkQubit(q); err != nil {
		return 0, err
	}
	if d.Calibration == nil || len(d.Calibration.ReadoutDuration) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Readout duration values not available.")
	}
	return lookup1(d.Calibration.ReadoutDuration, q, "readout duration")
}

func (d *Device) SingleQubitGateFidelity(gate string, q int) (float64, error) {
	if err := d.checkQubit(q); err != nil {
		return 0, err
	}
	if d.Calibration == nil || len(d.Calibration.SingleQubitGateFidelity) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Single-qubit gate fidelity values not available.")
	}
	return lookupGate(d.Calibration.SingleQubitGateFidelity[q], gate, fmt.Sprint(q))
}

func (d *Device) SingleQubitGateDuration(gate string, q int) (float64, error) {
	if err := d.checkQubit(q); err != nil {
		return 0, err
	}
	if d.Calibration == nil || len(d.Calibration.SingleQubitGateDuration) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Single-qubit gate duration values not available.")
	}
	return lookupGate(d.Calibration.SingleQubitGateDuration[q], gate, fmt.Sprint(q))
}

func (d *Device) TwoQubitGateFidelity(gate string, q0, q1 int) (float64, error) {
	if d.Calibration == nil || len(d.Calibration.TwoQubitGateFidelity) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Two-qubit gate fidelity values not available.")
	}
	return lookupGate(d.Calibration.TwoQubitGateFidelity[[2]int{q0, q1}], gate, fmt.Sprintf("%d-%d", q0, q1))
}

func (d *Device) TwoQubitGateDuration(gate string, q0, q1 int) (float64, error) {
	if d.Calibration == nil || len(d.Calibration.TwoQubitGateDuration) == 0 {
		return 0, errors.Wrap(ErrNotAvailable, "Two-qubit gate duration values not available.")
	}
	return lookupGate(d.Calibration.TwoQubitGateDuration[[2]int{q0, q1}], gate, fmt.Sprintf("%d-%d", q0, q1))
}

func lookup1(m map[int]float64, q int, what string) (float64, error) {
	v, ok := m[q]
	if !ok {
		return 0, errors.Wrapf(ErrNotAvailable, "%s for qubit %d", what, q)
	}
	return v, nil
}

func lookupGate(m map[string]float64, gate, where string) (float64, error) {
	v, ok := m[gate]
	if !ok {
		return 0, errors.Wrapf(ErrNotAvailable, "%s on %s", gate, where)
	}
	return v, nil
}

// ------------------------------------------------------------------
// Coupling map helpers
// ------------------------------------------------------------------

// bidirectional expands undirected edges into both directions.
func bidirectional(edges [][2]int) [][2]int {
	out := make([][2]int, 0, 2*len(edges))
	for _, e := range edges {
		out = append(out, e, [2]int{e[1], e[0]})
	}
	return out
}

// allToAll returns the complete directed coupling map on n qubits.
func allToAll(n int) [][2]int {
	out := make([][2]int, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// ------------------------------------------------------------------
// Provider Registry
// ------------------------------------------------------------------

type ProviderRegistry struct {
	providers map[string]Provider
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]Provider),
	}
}

// DefaultRegistry holds every built-in provider. A non-empty rigettiCalibration
// path makes the Rigetti devices carry imported calibration data.
func DefaultRegistry(rigettiCalibration string) *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register(IBMProvider{})
	r.Register(IonQProvider{})
	r.Register(OQCProvider{})
	r.Register(RigettiProvider{CalibrationPath: rigettiCalibration})
	r.Register(QuantinuumProvider{})
	return r
}

func (r *ProviderRegistry) Register(p Provider) {
	r.providers[p.Name()] = p
}

func (r *ProviderRegistry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownProvider, name)
	}
	return p, nil
}

// List returns the provider names in sorted order.
func (r *ProviderRegistry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeviceNames lists every device of every provider.
func (r *ProviderRegistry) DeviceNames() []string {
	var names []string
	for _, p := range r.List() {
		names = append(names, r.providers[p].DeviceNames()...)
	}
	return names
}

// ProviderOf returns the provider offering the named device.
func (r *ProviderRegistry) ProviderOf(device string) (Provider, error) {
	for _, name := range r.List() {
		p := r.providers[name]
		for _, d := range p.DeviceNames() {
			if d == device {
				return p, nil
			}
		}
	}
	return nil, errors.Wrap(ErrUnknownDevice, device)
}

// Device builds the named device from whichever provider offers it.
func (r *ProviderRegistry) Device(name string) (*Device, error) {
	p, err := r.ProviderOf(name)
	if err != nil {
		return nil, err
	}
	return p.Device(name)
}
