package bench

import (
	"github.com/perclft/qbench/backend/backends"
	"github.com/perclft/qbench/pkg/circuit"
	"github.com/perclft/qbench/pkg/qasmfile"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Export writes QASM compiled elsewhere for a provider or device. The header
// carries the provider's native gates and, for mapped files, the device's
// coupling map. The body must parse as OpenQASM 2.0.
func Export(w *qasmfile.Writer, reg *backends.ProviderRegistry, body string, spec FileSpec, dir string) (string, error) {
	parsed, err := circuit.ParseQASM(body)
	if err != nil {
		return "", errors.Wrap(err, "exported body")
	}

	opts := qasmfile.Options{Dir: dir}
	switch spec.Level {
	case LevelNativeGates:
		p, err := reg.Get(spec.Provider)
		if err != nil {
			return "", err
		}
		opts.GateSet = p.NativeGates()
	case LevelMapped:
		p, err := reg.ProviderOf(spec.Device)
		if err != nil {
			return "", err
		}
		dev, err := p.Device(spec.Device)
		if err != nil {
			return "", err
		}
		if parsed.NumQubits() > dev.NumQubits {
			return "", errors.Errorf("%d qubits do not fit on %s (%d)", parsed.NumQubits(), dev.Name, dev.NumQubits)
		}
		spec.Provider = p.Name()
		opts.GateSet = p.NativeGates()
		opts.Mapped = true
		opts.CouplingMap = dev.CouplingMap
	default:
		return "", errors.Wrapf(ErrUnknownLevel, "export needs a compiled level, got %q", spec.Level)
	}

	if spec.NumQubits == 0 {
		spec.NumQubits = parsed.NumQubits()
	}
	name, err := Filename(spec)
	if err != nil {
		return "", err
	}
	opts.Filename = name

	path, err := w.Write(body, opts)
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"file":  path,
		"level": spec.Level,
	}).Info("exported benchmark")
	return path, nil
}
