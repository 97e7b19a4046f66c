// Package version reports the release of the qbench build.
package version

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

// Version is set at link time with -ldflags "-X .../pkg/version.Version=v1.2.3".
var Version = ""

var ErrUnavailable = errors.New("version not available")

// Lookup returns the linker-set version, falling back to the main module
// version recorded in the build info.
func Lookup() (string, error) {
	if Version != "" {
		return Version, nil
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", errors.Wrap(ErrUnavailable, "no build info")
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v, nil
	}
	return "", errors.Wrapf(ErrUnavailable, "module %s has no release version", info.Main.Path)
}
