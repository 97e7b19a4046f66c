package bench

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

const (
	LevelAlg         = "alg"
	LevelIndep       = "indep"
	LevelNativeGates = "nativegates"
	LevelMapped      = "mapped"
)

// FileSpec names one benchmark file. Compiler applies from indep on,
// Provider to nativegates, Device to mapped and OptLevel to both compiled
// levels.
type FileSpec struct {
	Benchmark string
	NumQubits int
	Level     string
	Compiler  string
	Provider  string
	Device    string
	OptLevel  int
}

// Filename returns the file name of spec without extension.
func Filename(spec FileSpec) (string, error) {
	if _, err := Lookup(spec.Benchmark); err != nil {
		return "", err
	}
	if !slices.Contains([]string{LevelAlg, LevelIndep, LevelNativeGates, LevelMapped}, spec.Level) {
		return "", errors.Wrapf(ErrUnknownLevel, "%q", spec.Level)
	}
	if spec.Level != LevelAlg {
		if err := checkCompiler(spec.Compiler); err != nil {
			return "", err
		}
	}
	if spec.Level == LevelNativeGates || spec.Level == LevelMapped {
		if !slices.Contains([]int{0, 1, 2, 3}, spec.OptLevel) {
			return "", errors.Wrapf(ErrUnknownLevel, "optimization level %d", spec.OptLevel)
		}
	}

	b, n := spec.Benchmark, spec.NumQubits
	switch spec.Level {
	case LevelAlg:
		return fmt.Sprintf("%s_alg_%d", b, n), nil
	case LevelIndep:
		return fmt.Sprintf("%s_indep_%s_%d", b, spec.Compiler, n), nil
	case LevelNativeGates:
		if spec.Provider == "" {
			return "", errors.New("nativegates level needs a provider")
		}
		return fmt.Sprintf("%s_nativegates_%s_%s_opt%d_%d", b, spec.Provider, spec.Compiler, spec.OptLevel, n), nil
	case LevelMapped:
		if spec.Device == "" {
			return "", errors.New("mapped level needs a device")
		}
		return fmt.Sprintf("%s_mapped_%s_%s_opt%d_%d", b, spec.Device, spec.Compiler, spec.OptLevel, n), nil
	}
	return "", errors.Wrap(ErrUnknownLevel, spec.Level)
}
