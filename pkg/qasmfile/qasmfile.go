// Package qasmfile writes benchmark circuits to .qasm files with the
// provenance header downstream tools expect.
package qasmfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/perclft/qbench/backend/backends"
	"github.com/perclft/qbench/pkg/version"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTool     = "MQT Bench"
	DefaultHomepage = "https://www.cda.cit.tum.de/mqtbench/"
	Extension       = ".qasm"

	oqcInclude = `include "qelib1.inc"`
	oqcOpaque  = "opaque ecr q0,q1;"
)

var ErrVersionUnavailable = errors.New("tool version unavailable")

// Options describe one file to write.
type Options struct {
	Filename    string // without extension
	Dir         string
	GateSet     []string
	Mapped      bool
	CouplingMap [][2]int
}

// Path returns the file Options refers to.
func (o Options) Path() string {
	return filepath.Join(o.Dir, o.Filename+Extension)
}

// Writer renders the header. Version and Now are injectable for tests.
type Writer struct {
	Tool     string
	Homepage string
	Version  func() (string, error)
	Now      func() time.Time

	// Compiler versions keyed by compiler name; a compiler whose name
	// appears in the filename gets its version recorded in the header.
	CompilerVersions map[string]string
}

func NewWriter() *Writer {
	return &Writer{
		Tool:     DefaultTool,
		Homepage: DefaultHomepage,
		Version:  version.Lookup,
		Now:      time.Now,
	}
}

// Header renders the comment block preceding the body, including the blank
// separator line.
func (w *Writer) Header(opts Options) (string, error) {
	v, err := w.Version()
	if err != nil {
		return "", errors.Wrap(ErrVersionUnavailable, err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Benchmark was created by %s on %s\n", w.Tool, w.Now().Format(time.DateOnly))
	fmt.Fprintf(&b, "// For more information about %s, please visit %s\n", w.Tool, w.Homepage)
	fmt.Fprintf(&b, "// %s version: %s\n", w.Tool, v)
	for _, compiler := range []string{"qiskit", "tket"} {
		cv, ok := w.CompilerVersions[compiler]
		if ok && strings.Contains(opts.Filename, compiler) {
			fmt.Fprintf(&b, "// %s version: %s\n", compilerLabel(compiler), cv)
			break
		}
	}
	if len(opts.GateSet) > 0 {
		fmt.Fprintf(&b, "// Used Gate Set: %s\n", FormatGateSet(opts.GateSet))
	}
	if opts.Mapped {
		fmt.Fprintf(&b, "// Coupling List: %s\n", FormatCouplingMap(opts.CouplingMap))
	}
	b.WriteString("\n")
	return b.String(), nil
}

func compilerLabel(name string) string {
	if name == "tket" {
		return "TKET"
	}
	return "Qiskit"
}

// Render returns the full file content for body.
func (w *Writer) Render(body string, opts Options) (string, error) {
	header, err := w.Header(opts)
	if err != nil {
		return "", err
	}
	content := header + body
	if IsOQCGateSet(opts.GateSet) {
		content = PatchOQC(content)
	}
	return content, nil
}

// Write stores body under opts and returns the written path.
func (w *Writer) Write(body string, opts Options) (string, error) {
	content, err := w.Render(body, opts)
	if err != nil {
		return "", err
	}
	path := opts.Path()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// Save is Write for callers that only need to know whether a file was
// produced. Failures are logged.
func (w *Writer) Save(body string, opts Options) bool {
	path, err := w.Write(body, opts)
	if err != nil {
		if errors.Is(err, ErrVersionUnavailable) {
			log.WithError(err).Errorf("%s is most likely not installed with a release version", w.Tool)
		} else {
			log.WithError(err).WithField("file", opts.Path()).Error("failed to save benchmark")
		}
		return false
	}
	log.WithField("file", path).Debug("saved benchmark")
	return true
}

// FormatGateSet renders a gate list as ['a', 'b'].
func FormatGateSet(gates []string) string {
	quoted := make([]string, len(gates))
	for i, g := range gates {
		quoted[i] = "'" + g + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// FormatCouplingMap renders edges as [[0, 1], [1, 0]].
func FormatCouplingMap(edges [][2]int) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprintf("[%d, %d]", e[0], e[1])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ------------------------------------------------------------------
// OQC post-processing
// ------------------------------------------------------------------

// IsOQCGateSet reports whether gates is exactly the OQC native gate list.
func IsOQCGateSet(gates []string) bool {
	return slices.Equal(gates, backends.OQCProvider{}.NativeGates())
}

// PatchOQC drops the rzx and ecr definitions and declares ecr opaque right
// after the qelib1 include. Applying it twice changes nothing.
func PatchOQC(content string) string {
	lines := strings.SplitAfter(content, "\n")
	var kept []string
	for _, line := range lines {
		if line == "" {
			continue
		}
		trimmed := strings.TrimRight(line, "\n")
		if !strings.Contains(trimmed, "gate rzx") && !strings.Contains(trimmed, "gate ecr") {
			kept = append(kept, line)
		}
	}

	var b strings.Builder
	for i, line := range kept {
		b.WriteString(line)
		if !strings.Contains(line, oqcInclude) {
			continue
		}
		if !strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
		if i+1 < len(kept) && strings.TrimSpace(kept[i+1]) == oqcOpaque {
			continue
		}
		b.WriteString(oqcOpaque + "\n")
	}
	return b.String()
}

// PatchFile applies PatchOQC to an existing file in place.
func PatchFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := os.WriteFile(path, []byte(PatchOQC(string(data))), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
