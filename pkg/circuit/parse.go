package circuit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrParse = errors.New("qasm parse error")

	versionRegex = regexp.MustCompile(`^OPENQASM\s+(\d+)(?:\.(\d+))?$`)
	regRegex     = regexp.MustCompile(`^(qreg|creg)\s+([A-Za-z_]\w*)\s*\[\s*(\d+)\s*\]$`)
	defRegex     = regexp.MustCompile(`^(gate|opaque)\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*([^{]*)`)
	measureRegex = regexp.MustCompile(`^measure\s+(.+?)\s*->\s*(.+)$`)
	applyRegex   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\((.*)\))?\s*(.*)$`)
	argRegex     = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\[\s*(\d+)\s*\])?$`)
)

// ParseQASM reads an OpenQASM 2.0 program into a circuit. Gate definitions
// and opaque declarations are recorded by signature only; their bodies are
// not expanded.
func ParseQASM(src string) (*Circuit, error) {
	p := &qasmParser{
		c:     &Circuit{},
		qregs: make(map[string]*QuantumRegister),
		cregs: make(map[string]*ClassicalRegister),
		gates: make(map[string]GateSpec),
	}
	for name, spec := range qelib1 {
		p.gates[name] = spec
	}
	for name, spec := range builtins {
		p.gates[name] = spec
	}
	for i, stmt := range splitStatements(src) {
		if err := p.statement(stmt); err != nil {
			return nil, errors.Wrapf(err, "statement %d %q", i+1, stmt)
		}
	}
	return p.c, nil
}

type qasmParser struct {
	c     *Circuit
	qregs map[string]*QuantumRegister
	cregs map[string]*ClassicalRegister
	gates map[string]GateSpec
}

// splitStatements strips comments and splits the program on top-level
// semicolons; a gate body in braces ends its statement.
func splitStatements(src string) []string {
	var clean strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		clean.WriteString(line)
		clean.WriteByte(' ')
	}
	text := clean.String()

	var stmts []string
	depth, start := 0, 0
	flush := func(end int) {
		if s := strings.Join(strings.Fields(text[start:end]), " "); s != "" {
			stmts = append(stmts, s)
		}
		start = end + 1
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				flush(i + 1)
				start = i + 1
			}
		case ';':
			if depth == 0 {
				flush(i)
			}
		}
	}
	flush(len(text))
	return stmts
}

func (p *qasmParser) statement(stmt string) error {
	switch {
	case strings.HasPrefix(stmt, "OPENQASM"):
		m := versionRegex.FindStringSubmatch(stmt)
		if m == nil || m[1] != "2" {
			return errors.Wrap(ErrParse, "only OpenQASM 2 is supported")
		}
		return nil
	case strings.HasPrefix(stmt, "include"):
		return nil
	case strings.HasPrefix(stmt, "qreg") || strings.HasPrefix(stmt, "creg"):
		return p.register(stmt)
	case strings.HasPrefix(stmt, "gate ") || strings.HasPrefix(stmt, "opaque "):
		return p.definition(stmt)
	case strings.HasPrefix(stmt, "if"):
		return errors.Wrap(ErrParse, "classically conditioned operations are not supported")
	case strings.HasPrefix(stmt, "measure "):
		return p.measure(stmt)
	}
	return p.apply(stmt)
}

func (p *qasmParser) register(stmt string) error {
	m := regRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrap(ErrParse, "malformed register declaration")
	}
	size, err := strconv.Atoi(m[3])
	if err != nil {
		return errors.Wrap(ErrParse, err.Error())
	}
	if m[1] == "qreg" {
		r, err := p.c.AddQuantumRegister(m[2], size)
		if err != nil {
			return err
		}
		p.qregs[r.Name] = r
		return nil
	}
	r, err := p.c.AddClassicalRegister(m[2], size)
	if err != nil {
		return err
	}
	p.cregs[r.Name] = r
	return nil
}

func (p *qasmParser) definition(stmt string) error {
	m := defRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrap(ErrParse, "malformed gate declaration")
	}
	params := 0
	if strings.TrimSpace(m[3]) != "" {
		params = len(strings.Split(m[3], ","))
	}
	qubits := len(strings.Split(strings.TrimSpace(m[4]), ","))
	p.gates[m[2]] = GateSpec{Qubits: qubits, Params: params}
	return nil
}

func (p *qasmParser) measure(stmt string) error {
	m := measureRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrap(ErrParse, "malformed measure")
	}
	qs, err := p.qubitArg(m[1])
	if err != nil {
		return err
	}
	bs, err := p.clbitArg(m[2])
	if err != nil {
		return err
	}
	if len(qs) != len(bs) {
		return errors.Wrap(ErrParse, "measure operands differ in size")
	}
	for i := range qs {
		if err := p.c.Measure(qs[i], bs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *qasmParser) apply(stmt string) error {
	m := applyRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrap(ErrParse, "malformed statement")
	}
	name := m[1]

	var args [][]Qubit
	for _, a := range strings.Split(m[3], ",") {
		qs, err := p.qubitArg(a)
		if err != nil {
			return err
		}
		args = append(args, qs)
	}

	if name == OpBarrier {
		var all []Qubit
		for _, qs := range args {
			all = append(all, qs...)
		}
		return p.c.Append(Instruction{Name: OpBarrier, Qubits: all})
	}

	var params []float64
	if strings.TrimSpace(m[2]) != "" {
		for _, expr := range splitTopLevel(m[2]) {
			v, err := EvalParam(expr)
			if err != nil {
				return errors.Wrap(ErrParse, err.Error())
			}
			params = append(params, v)
		}
	}

	if name != "reset" {
		spec, ok := p.gates[name]
		if !ok {
			return errors.Wrapf(ErrParse, "undefined gate %s", name)
		}
		if spec.Qubits != len(args) || spec.Params != len(params) {
			return errors.Wrapf(ErrParse, "%s expects %d qubits and %d params", name, spec.Qubits, spec.Params)
		}
	}

	// registers passed whole broadcast the gate over their elements
	width := 1
	for _, qs := range args {
		if len(qs) == 1 {
			continue
		}
		if width != 1 && width != len(qs) {
			return errors.Wrap(ErrParse, "broadcast over registers of different size")
		}
		width = len(qs)
	}
	for i := 0; i < width; i++ {
		qubits := make([]Qubit, len(args))
		for j, qs := range args {
			if len(qs) == 1 {
				qubits[j] = qs[0]
			} else {
				qubits[j] = qs[i]
			}
		}
		if err := p.c.Append(Instruction{Name: name, Params: params, Qubits: qubits}); err != nil {
			return err
		}
	}
	return nil
}

func (p *qasmParser) qubitArg(arg string) ([]Qubit, error) {
	m := argRegex.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil {
		return nil, errors.Wrapf(ErrParse, "malformed argument %q", arg)
	}
	r, ok := p.qregs[m[1]]
	if !ok {
		return nil, errors.Wrapf(ErrParse, "undeclared qreg %s", m[1])
	}
	if m[2] == "" {
		return r.Qubits(), nil
	}
	idx, _ := strconv.Atoi(m[2])
	if idx >= r.Size {
		return nil, errors.Wrapf(ErrParse, "index %d out of range for %s", idx, r.Name)
	}
	return []Qubit{r.Qubit(idx)}, nil
}

func (p *qasmParser) clbitArg(arg string) ([]Clbit, error) {
	m := argRegex.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil {
		return nil, errors.Wrapf(ErrParse, "malformed argument %q", arg)
	}
	r, ok := p.cregs[m[1]]
	if !ok {
		return nil, errors.Wrapf(ErrParse, "undeclared creg %s", m[1])
	}
	if m[2] == "" {
		bs := make([]Clbit, r.Size)
		for i := range bs {
			bs[i] = r.Clbit(i)
		}
		return bs, nil
	}
	idx, _ := strconv.Atoi(m[2])
	if idx >= r.Size {
		return nil, errors.Wrapf(ErrParse, "index %d out of range for %s", idx, r.Name)
	}
	return []Clbit{r.Clbit(idx)}, nil
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
