package qasmfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/perclft/qbench/backend/backends"
	"github.com/perclft/qbench/pkg/circuit"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriter() *Writer {
	w := NewWriter()
	w.Version = func() (string, error) { return "1.0.0", nil }
	w.Now = func() time.Time { return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC) }
	return w
}

func ecrBody(t *testing.T) string {
	c := circuit.New("ecr", 2)
	c.ECR(c.Qubit(0), c.Qubit(1))
	require.NoError(t, c.MeasureAll())
	body, err := c.ToQASM()
	require.NoError(t, err)
	return body
}

func TestHeaderLayout(t *testing.T) {
	w := testWriter()
	header, err := w.Header(Options{
		Filename:    "ghz_mapped_ibm_montreal_qiskit_opt2_3",
		GateSet:     []string{"rz", "cx"},
		Mapped:      true,
		CouplingMap: [][2]int{{0, 1}, {1, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"// Benchmark was created by MQT Bench on 2024-03-07",
		"// For more information about MQT Bench, please visit https://www.cda.cit.tum.de/mqtbench/",
		"// MQT Bench version: 1.0.0",
		"// Used Gate Set: ['rz', 'cx']",
		"// Coupling List: [[0, 1], [1, 0]]",
		"",
		"",
	}, "\n"), header)
}

func TestHeaderOptionalLines(t *testing.T) {
	w := testWriter()
	header, err := w.Header(Options{Filename: "ghz_alg_3"})
	require.NoError(t, err)
	assert.NotContains(t, header, "Used Gate Set")
	assert.NotContains(t, header, "Coupling List")

	header, err = w.Header(Options{Filename: "ghz_indep_qiskit_3", Mapped: true})
	require.NoError(t, err)
	assert.Contains(t, header, "// Coupling List: []\n")

	w.CompilerVersions = map[string]string{"qiskit": "0.45.0", "tket": "1.21"}
	header, err = w.Header(Options{Filename: "ghz_indep_tket_3"})
	require.NoError(t, err)
	assert.Contains(t, header, "// TKET version: 1.21\n")
	assert.NotContains(t, header, "Qiskit version")
	// one compiler line even when the name mentions both
	header, err = w.Header(Options{Filename: "qiskit_vs_tket_mapped_qiskit_opt1_3"})
	require.NoError(t, err)
	assert.Contains(t, header, "// Qiskit version: 0.45.0\n")
	assert.NotContains(t, header, "TKET version")
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := testWriter()
	body := ecrBody(t)

	path, err := w.Write(body, Options{Filename: "ecr_alg_2", Dir: dir, GateSet: []string{"ecr", "rz"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ecr_alg_2.qasm"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, after, found := strings.Cut(string(data), "\n\n")
	require.True(t, found)
	assert.Equal(t, body, after)
}

func TestSaveReportsVersionFailure(t *testing.T) {
	dir := t.TempDir()
	w := testWriter()
	w.Version = func() (string, error) { return "", errors.New("not installed") }

	assert.False(t, w.Save("OPENQASM 2.0;\n", Options{Filename: "x", Dir: dir}))
	_, err := os.Stat(filepath.Join(dir, "x.qasm"))
	assert.True(t, os.IsNotExist(err))

	_, err = w.Write("OPENQASM 2.0;\n", Options{Filename: "x", Dir: dir})
	assert.True(t, errors.Is(err, ErrVersionUnavailable))
}

func TestSaveOQCPatch(t *testing.T) {
	dir := t.TempDir()
	w := testWriter()
	opts := Options{Filename: "ecr_nativegates_oqc_qiskit_opt1_2", Dir: dir, GateSet: backends.OQCProvider{}.NativeGates()}
	require.True(t, w.Save(ecrBody(t), opts))

	data, err := os.ReadFile(opts.Path())
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, "gate rzx")
	assert.NotContains(t, text, "gate ecr")
	assert.Contains(t, text, "include \"qelib1.inc\";\nopaque ecr q0,q1;\n")
	assert.Contains(t, text, "ecr q[0],q[1];")

	require.NoError(t, PatchFile(opts.Path()))
	again, err := os.ReadFile(opts.Path())
	require.NoError(t, err)
	assert.Equal(t, text, string(again))
	assert.Equal(t, 1, strings.Count(string(again), "opaque ecr"))
}

func TestPatchOQCIdempotent(t *testing.T) {
	inputs := []string{
		"OPENQASM 2.0;\ninclude \"qelib1.inc\";\ngate rzx(param0) q0,q1 { h q1; }\nqreg q[2];\n",
		"OPENQASM 2.0;\ninclude \"qelib1.inc\";",
		"qreg q[1];\n",
	}
	for _, in := range inputs {
		once := PatchOQC(in)
		assert.Equal(t, once, PatchOQC(once), in)
	}
}

func TestIsOQCGateSet(t *testing.T) {
	assert.True(t, IsOQCGateSet([]string{"rz", "sx", "x", "ecr", "measure", "barrier"}))
	assert.False(t, IsOQCGateSet([]string{"sx", "rz", "x", "ecr", "measure", "barrier"}))
	assert.False(t, IsOQCGateSet(nil))
}
