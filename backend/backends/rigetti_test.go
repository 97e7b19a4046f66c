package backends

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigettiIndexConversion(t *testing.T) {
	cases := map[int]int{0: 0, 7: 7, 10: 8, 47: 39, 100: 40, 147: 79}
	for label, index := range cases {
		assert.Equal(t, index, FromRigettiIndex(label), "label %d", label)
		assert.Equal(t, label, ToRigettiIndex(index), "index %d", index)
	}
	for i := 0; i < 80; i++ {
		assert.Equal(t, i, FromRigettiIndex(ToRigettiIndex(i)))
	}
}

func TestAspenTopology(t *testing.T) {
	dev, err := RigettiProvider{}.Device("rigetti_aspen_m2")
	require.NoError(t, err)
	assert.Equal(t, "rigetti_aspen_m2", dev.Name)
	assert.Equal(t, 80, dev.NumQubits)
	assert.Len(t, dev.CouplingMap, 2*106)

	edges := dev.Edges()
	assert.True(t, edges[[2]int{0, 1}])
	assert.True(t, edges[[2]int{7, 0}])
	assert.True(t, edges[[2]int{1, 14}])
	assert.True(t, edges[[2]int{4, 47}])
	for e := range edges {
		assert.True(t, edges[[2]int{e[1], e[0]}])
	}
}

func TestAspenBundledCalibration(t *testing.T) {
	dev, err := RigettiProvider{}.Device("rigetti_aspen_m2")
	require.NoError(t, err)
	require.NotNil(t, dev.Calibration)

	for q := 0; q < dev.NumQubits; q++ {
		ro, err := dev.ReadoutFidelity(q)
		require.NoError(t, err, "qubit %d", q)
		assert.True(t, ro > 0 && ro <= 1)
		_, err = dev.ReadoutDuration(q)
		assert.Contains(t, err.Error(), "Readout duration values not available.")
		for _, gate := range dev.SingleQubitGates() {
			f, err := dev.SingleQubitGateFidelity(gate, q)
			require.NoError(t, err)
			assert.True(t, f > 0 && f <= 1)
			_, err = dev.SingleQubitGateDuration(gate, q)
			assert.Contains(t, err.Error(), "Single-qubit gate duration values not available.")
		}
	}

	// every coupler has at least one calibrated gate, symmetric in its qubits
	for _, e := range dev.CouplingMap {
		calibrated := 0
		for _, gate := range dev.TwoQubitGates() {
			f, err := dev.TwoQubitGateFidelity(gate, e[0], e[1])
			if err != nil {
				assert.True(t, errors.Is(err, ErrNotAvailable))
				continue
			}
			calibrated++
			reverse, err := dev.TwoQubitGateFidelity(gate, e[1], e[0])
			require.NoError(t, err)
			assert.Equal(t, f, reverse)
		}
		assert.Positive(t, calibrated, "edge %v", e)
	}
}

func TestImportRigettiBackend(t *testing.T) {
	dev, err := ImportRigettiBackend("testdata/rigetti_calibration.json")
	require.NoError(t, err)

	assert.Equal(t, "rigetti_test", dev.Name)
	assert.Equal(t, 10, dev.NumQubits)
	assert.Contains(t, dev.CouplingMap, [2]int{7, 8})
	assert.Contains(t, dev.CouplingMap, [2]int{8, 9})

	ro, err := dev.ReadoutFidelity(8)
	require.NoError(t, err)
	assert.InDelta(t, 0.90, ro, 1e-12)

	for q := 0; q < dev.NumQubits; q++ {
		for _, gate := range dev.SingleQubitGates() {
			_, err := dev.SingleQubitGateFidelity(gate, q)
			assert.NoError(t, err)
			_, err = dev.SingleQubitGateDuration(gate, q)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Single-qubit gate duration values not available.")
		}
		_, err := dev.ReadoutDuration(q)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Readout duration values not available.")
	}

	cz, err := dev.TwoQubitGateFidelity("cz", 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.91, cz, 1e-12)
	reverse, err := dev.TwoQubitGateFidelity("cz", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, cz, reverse)

	xy, err := dev.TwoQubitGateFidelity("xx_plus_yy", 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.93, xy, 1e-12)

	cz78, err := dev.TwoQubitGateFidelity("cz", 7, 8)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, cz78, 1e-12)

	// not every gate is calibrated on every edge
	_, err = dev.TwoQubitGateFidelity("cz", 1, 2)
	assert.True(t, errors.Is(err, ErrNotAvailable))
	_, err = dev.TwoQubitGateDuration("cz", 0, 1)
	assert.True(t, errors.Is(err, ErrNotAvailable))
}

func TestRigettiProviderWithCalibration(t *testing.T) {
	dev, err := RigettiProvider{CalibrationPath: "testdata/rigetti_calibration.json"}.Device("rigetti_aspen_m2")
	require.NoError(t, err)
	assert.Equal(t, "rigetti_aspen_m2", dev.Name)
	require.NotNil(t, dev.Calibration)

	_, err = RigettiProvider{CalibrationPath: "testdata/missing.json"}.Device("rigetti_aspen_m2")
	assert.Error(t, err)
}

func TestParseRigettiCalibrationErrors(t *testing.T) {
	_, err := ParseRigettiCalibration([]byte(`{`))
	assert.Error(t, err)
	_, err = ParseRigettiCalibration([]byte(`{"name": "x", "num_qubits": 0}`))
	assert.Error(t, err)
	_, err = ParseRigettiCalibration([]byte(`{"name": "x", "num_qubits": 2, "properties": {"1Q": {"0": {}}}}`))
	assert.Error(t, err)
}
