package backends

import (
	_ "embed"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ------------------------------------------------------------------
// Rigetti
// ------------------------------------------------------------------

// Aspen processors are 8-qubit rings laid out on a grid. Rigetti names a
// qubit by three digits: row, column and position in the ring.
const (
	rigettiRingSize = 8
	rigettiColumns  = 5
	rigettiRows     = 2
)

// aspenM2Calibration is the calibration rigetti_aspen_m2 carries when no
// export is configured. Connectivity lists each coupler once.
//
//go:embed data/rigetti_aspen_m2.json
var aspenM2Calibration []byte

type RigettiProvider struct {
	// Optional calibration export to use instead of the bundled one
	CalibrationPath string
}

func (RigettiProvider) Name() string { return "rigetti" }
func (RigettiProvider) NativeGates() []string {
	return []string{"rx", "rz", "cz", "cp", "xx_plus_yy", "measure", "barrier"}
}
func (RigettiProvider) DeviceNames() []string { return []string{"rigetti_aspen_m2"} }
func (RigettiProvider) MaxQubits() int        { return rigettiRows * rigettiColumns * rigettiRingSize }

func (p RigettiProvider) Device(name string) (*Device, error) {
	if name != "rigetti_aspen_m2" {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	var (
		dev *Device
		err error
	)
	if p.CalibrationPath != "" {
		dev, err = ImportRigettiBackend(p.CalibrationPath)
	} else {
		dev, err = ParseRigettiCalibration(aspenM2Calibration)
		if err == nil {
			dev.CouplingMap = bidirectional(dev.CouplingMap)
		}
	}
	if err != nil {
		return nil, err
	}
	dev.Name = name
	return dev, nil
}

// FromRigettiIndex converts a three digit Rigetti qubit label into a
// consecutive index.
func FromRigettiIndex(label int) int {
	row := label / 100
	column := (label % 100) / 10
	ring := label % 10
	return row*(rigettiRingSize*rigettiColumns) + column*rigettiRingSize + ring
}

// ToRigettiIndex is the inverse of FromRigettiIndex.
func ToRigettiIndex(index int) int {
	perRow := rigettiRingSize * rigettiColumns
	row := index / perRow
	column := (index % perRow) / rigettiRingSize
	ring := (index % perRow) % rigettiRingSize
	return row*100 + column*10 + ring
}

// ------------------------------------------------------------------
// Calibration import
// ------------------------------------------------------------------

type rigettiQubitProperties struct {
	ActiveReset float64 `json:"fActiveReset"`
	RO          float64 `json:"fRO"`
	RB          float64 `json:"f1QRB"`
	RBStdErr    float64 `json:"f1QRB_std_err"`
	T1          float64 `json:"T1"`
	T2          float64 `json:"T2"`
}

// Two-qubit entries only carry the gates calibrated on that edge.
type rigettiEdgeProperties struct {
	CZ     *float64 `json:"fCZ"`
	CPhase *float64 `json:"fCPHASE"`
	XY     *float64 `json:"fXY"`
}

type rigettiCalibration struct {
	Name         string   `json:"name"`
	NumQubits    int      `json:"num_qubits"`
	BasisGates   []string `json:"basis_gates"`
	Connectivity [][2]int `json:"connectivity"`
	Properties   struct {
		OneQ map[string]rigettiQubitProperties `json:"1Q"`
		TwoQ map[string]rigettiEdgeProperties  `json:"2Q"`
	} `json:"properties"`
}

// ImportRigettiBackend reads a Rigetti calibration export and returns the
// device it describes, with qubits renumbered consecutively.
func ImportRigettiBackend(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read rigetti calibration")
	}
	return ParseRigettiCalibration(data)
}

func ParseRigettiCalibration(data []byte) (*Device, error) {
	var raw rigettiCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode rigetti calibration")
	}
	if raw.NumQubits <= 0 {
		return nil, errors.Errorf("rigetti calibration %q: num_qubits must be positive", raw.Name)
	}

	dev := &Device{
		Name:       raw.Name,
		NumQubits:  raw.NumQubits,
		BasisGates: raw.BasisGates,
	}
	for _, e := range raw.Connectivity {
		dev.CouplingMap = append(dev.CouplingMap, [2]int{FromRigettiIndex(e[0]), FromRigettiIndex(e[1])})
	}

	cal := NewCalibration()
	cal.LastUpdate = time.Now()
	for q := 0; q < dev.NumQubits; q++ {
		label := strconv.Itoa(ToRigettiIndex(q))
		props, ok := raw.Properties.OneQ[label]
		if !ok {
			return nil, errors.Errorf("rigetti calibration %q: no 1Q properties for qubit %s", raw.Name, label)
		}
		cal.SingleQubitGateFidelity[q] = map[string]float64{"rx": props.RB, "rz": props.RB}
		cal.ReadoutFidelity[q] = props.RO
		cal.T1[q] = props.T1
		cal.T2[q] = props.T2
	}

	for _, e := range dev.CouplingMap {
		q0, q1 := e[0], e[1]
		if q0 > q1 {
			continue
		}
		key := strconv.Itoa(ToRigettiIndex(q0)) + "-" + strconv.Itoa(ToRigettiIndex(q1))
		fidelity := make(map[string]float64)
		if props, ok := raw.Properties.TwoQ[key]; ok {
			if props.CZ != nil {
				fidelity["cz"] = *props.CZ
			}
			if props.CPhase != nil {
				fidelity["cp"] = *props.CPhase
			}
			if props.XY != nil {
				fidelity["xx_plus_yy"] = *props.XY
			}
		}
		// calibration is symmetric
		cal.TwoQubitGateFidelity[[2]int{q0, q1}] = fidelity
		cal.TwoQubitGateFidelity[[2]int{q1, q0}] = fidelity
	}
	dev.Calibration = cal

	log.WithFields(log.Fields{
		"device": dev.Name,
		"qubits": dev.NumQubits,
		"edges":  len(dev.CouplingMap),
	}).Debug("imported rigetti calibration")
	return dev, nil
}
