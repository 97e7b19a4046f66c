package backends

import (
	"github.com/pkg/errors"
)

// ------------------------------------------------------------------
// IBM Quantum
// ------------------------------------------------------------------

type IBMProvider struct{}

func (IBMProvider) Name() string { return "ibm" }
func (IBMProvider) NativeGates() []string {
	return []string{"id", "rz", "sx", "x", "cx", "measure", "barrier"}
}
func (IBMProvider) DeviceNames() []string { return []string{"ibm_montreal"} }
func (IBMProvider) MaxQubits() int        { return 27 }

// Falcon r4 heavy-hex layout
var montrealEdges = [][2]int{
	{0, 1}, {1, 2}, {1, 4}, {2, 3}, {3, 5}, {4, 7}, {5, 8}, {6, 7}, {7, 10},
	{8, 9}, {8, 11}, {10, 12}, {11, 14}, {12, 13}, {12, 15}, {13, 14},
	{14, 16}, {15, 18}, {16, 19}, {17, 18}, {18, 21}, {19, 20}, {19, 22},
	{21, 23}, {22, 25}, {23, 24}, {24, 25}, {25, 26},
}

func (p IBMProvider) Device(name string) (*Device, error) {
	if name != "ibm_montreal" {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	return &Device{
		Name:        name,
		NumQubits:   27,
		BasisGates:  p.NativeGates(),
		CouplingMap: bidirectional(montrealEdges),
	}, nil
}

// ------------------------------------------------------------------
// IonQ
// ------------------------------------------------------------------

type IonQProvider struct{}

func (IonQProvider) Name() string { return "ionq" }
func (IonQProvider) NativeGates() []string {
	return []string{"rxx", "rz", "ry", "rx", "measure", "barrier"}
}
func (IonQProvider) DeviceNames() []string { return []string{"ionq_harmony", "ionq_aria1"} }
func (IonQProvider) MaxQubits() int        { return 25 }

func (p IonQProvider) Device(name string) (*Device, error) {
	sizes := map[string]int{"ionq_harmony": 11, "ionq_aria1": 25}
	n, ok := sizes[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	// trapped ions are fully connected
	return &Device{
		Name:        name,
		NumQubits:   n,
		BasisGates:  p.NativeGates(),
		CouplingMap: allToAll(n),
	}, nil
}

// ------------------------------------------------------------------
// OQC
// ------------------------------------------------------------------

type OQCProvider struct{}

func (OQCProvider) Name() string { return "oqc" }
func (OQCProvider) NativeGates() []string {
	return []string{"rz", "sx", "x", "ecr", "measure", "barrier"}
}
func (OQCProvider) DeviceNames() []string { return []string{"oqc_lucy"} }
func (OQCProvider) MaxQubits() int        { return 8 }

func (p OQCProvider) Device(name string) (*Device, error) {
	if name != "oqc_lucy" {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	// directed ring, ecr only runs one way
	return &Device{
		Name:       name,
		NumQubits:  8,
		BasisGates: p.NativeGates(),
		CouplingMap: [][2]int{
			{0, 1}, {0, 7}, {1, 2}, {2, 3}, {7, 6}, {6, 5}, {4, 3}, {4, 5},
		},
	}, nil
}

// ------------------------------------------------------------------
// Quantinuum
// ------------------------------------------------------------------

type QuantinuumProvider struct{}

func (QuantinuumProvider) Name() string { return "quantinuum" }
func (QuantinuumProvider) NativeGates() []string {
	return []string{"rzz", "rz", "ry", "rx", "measure", "barrier"}
}
func (QuantinuumProvider) DeviceNames() []string { return []string{"quantinuum_h2"} }
func (QuantinuumProvider) MaxQubits() int        { return 32 }

func (p QuantinuumProvider) Device(name string) (*Device, error) {
	if name != "quantinuum_h2" {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	return &Device{
		Name:        name,
		NumQubits:   32,
		BasisGates:  p.NativeGates(),
		CouplingMap: allToAll(32),
	}, nil
}
